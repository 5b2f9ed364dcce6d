package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/auth"
)

const testToken = "test-api-token"

// okHandler is a simple handler that returns 200.
func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func TestStaticTokenMiddleware_ValidToken(t *testing.T) {
	var called bool
	mw := auth.NewStaticTokenMiddleware(testToken, zap.NewNop())
	handler := mw.Authenticate(okHandler(&called))

	req := httptest.NewRequest("GET", "/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !called {
		t.Error("next handler was not called")
	}
}

func TestStaticTokenMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
	}{
		{name: "missing header", token: testToken, header: ""},
		{name: "wrong token", token: testToken, header: "Bearer nope"},
		{name: "token prefix only", token: testToken, header: "Bearer test-api"},
		{name: "wrong scheme", token: testToken, header: "Basic " + testToken},
		{name: "bare token", token: testToken, header: testToken},
		{name: "empty bearer", token: testToken, header: "Bearer "},
		{name: "unconfigured token", token: "", header: "Bearer "},
		{name: "lowercase scheme", token: testToken, header: "bearer " + testToken},
		{name: "uppercase scheme", token: testToken, header: "BEARER " + testToken},
		{name: "double space", token: testToken, header: "Bearer  " + testToken},
		{name: "trailing space", token: testToken, header: "Bearer " + testToken + " "},
		{name: "trailing tab", token: testToken, header: "Bearer " + testToken + "\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			mw := auth.NewStaticTokenMiddleware(tt.token, zap.NewNop())
			handler := mw.Authenticate(okHandler(&called))

			req := httptest.NewRequest("POST", "/bookmarks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if called {
				t.Error("next handler ran for an unauthorized request")
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != "Unauthorized request" {
				t.Errorf("error = %q, want %q", body["error"], "Unauthorized request")
			}
		})
	}
}
