package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joestump/joe-bookmarks/internal/api"
	"github.com/joestump/joe-bookmarks/internal/auth"
	"github.com/joestump/joe-bookmarks/internal/handler"
	"github.com/joestump/joe-bookmarks/internal/store"
	"github.com/joestump/joe-bookmarks/internal/testutil"
)

const testToken = "test-api-token"

// testEnv holds the router and store used by API integration tests.
type testEnv struct {
	Router        http.Handler
	BookmarkStore *store.BookmarkStore
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full router, token gate included.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	bs := store.NewBookmarkStore(db)

	router := handler.NewRouter(handler.Deps{
		Auth:           auth.NewStaticTokenMiddleware(testToken, nil),
		BookmarkStore:  bs,
		AllowedOrigins: []string{"*"},
	})
	return &testEnv{Router: router, BookmarkStore: bs}
}

// seedBookmarks inserts the given bookmarks in order and returns the stored rows.
func seedBookmarks(t *testing.T, env *testEnv, fields ...store.BookmarkFields) []*store.Bookmark {
	t.Helper()
	out := make([]*store.Bookmark, 0, len(fields))
	for _, f := range fields {
		b, err := env.BookmarkStore.Insert(context.Background(), f)
		if err != nil {
			t.Fatalf("seed bookmark: %v", err)
		}
		out = append(out, b)
	}
	return out
}

func testBookmarks() []store.BookmarkFields {
	return []store.BookmarkFields{
		{Title: "Thinkful", URL: "https://www.thinkful.com", Description: "Think outside the classroom", Rating: 5},
		{Title: "Google", URL: "https://www.google.com", Description: "Where we find everything else", Rating: 4},
		{Title: "MDN", URL: "https://developer.mozilla.org", Description: "The only place to find web documentation", Rating: 5},
	}
}

// do sends an authenticated request with an optional JSON body.
func do(t *testing.T, env *testEnv, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	authRequest(req, testToken)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// authRequest adds a Bearer token to the request.
func authRequest(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// errorMessage decodes an {"error":{"message":...}} body.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v; body: %s", err, rec.Body.String())
	}
	return resp.Error.Message
}
