package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joestump/joe-bookmarks/internal/auth"
	"github.com/joestump/joe-bookmarks/internal/handler"
	"github.com/joestump/joe-bookmarks/internal/store"
	"github.com/joestump/joe-bookmarks/internal/testutil"
)

const testToken = "router-test-token"

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.NewTestDB(t)
	return handler.NewRouter(handler.Deps{
		Auth:           auth.NewStaticTokenMiddleware(testToken, nil),
		BookmarkStore:  store.NewBookmarkStore(db),
		AllowedOrigins: []string{"*"},
	})
}

func serve(r http.Handler, method, target string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouter_SecureHeaders(t *testing.T) {
	r := newRouter(t)

	for _, authed := range []bool{true, false} {
		rec := serve(r, "GET", "/api/bookmarks", authed)
		if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("authed=%v: X-Content-Type-Options = %q, want nosniff", authed, got)
		}
		if got := rec.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
			t.Errorf("authed=%v: X-Frame-Options = %q, want SAMEORIGIN", authed, got)
		}
	}
}

func TestRouter_PreflightSkipsToken(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest("OPTIONS", "/api/bookmarks", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code == http.StatusUnauthorized {
		t.Fatalf("preflight status = %d, want it answered before the token check", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("Access-Control-Allow-Origin not set on preflight")
	}
}

func TestRouter_CORSOnAuthedRequest(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest("GET", "/api/bookmarks", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("Access-Control-Allow-Origin not set")
	}
}

func TestRouter_OperationalRoutesNeedToken(t *testing.T) {
	r := newRouter(t)

	for _, path := range []string{"/metrics", "/docs/index.html", "/docs/doc.json"} {
		t.Run(path, func(t *testing.T) {
			if rec := serve(r, "GET", path, false); rec.Code != http.StatusUnauthorized {
				t.Errorf("without token: status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if rec := serve(r, "GET", path, true); rec.Code != http.StatusOK {
				t.Errorf("with token: status = %d, want %d", rec.Code, http.StatusOK)
			}
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	r := newRouter(t)
	serve(r, "GET", "/api/bookmarks", true)
	serve(r, "GET", "/api/bookmarks", false)

	rec := serve(r, "GET", "/metrics", true)
	body := rec.Body.String()
	for _, name := range []string{"bookmarks_requests_total", "bookmarks_unauthorized_total", "bookmarks_store_duration_seconds"} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}

func TestRouter_DocsDescribeBookmarks(t *testing.T) {
	r := newRouter(t)

	rec := serve(r, "GET", "/docs/doc.json", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"/bookmarks/{id}"`) {
		t.Error("doc.json does not describe /bookmarks/{id}")
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := newRouter(t)

	rec := serve(r, "GET", "/api/nothing-here", true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRouter_Landing(t *testing.T) {
	r := newRouter(t)

	rec := serve(r, "GET", "/", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "Hello, world!" {
		t.Errorf("body = %q, want %q", got, "Hello, world!")
	}

	if rec := serve(r, "GET", "/", false); rec.Code != http.StatusUnauthorized {
		t.Errorf("without token: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
