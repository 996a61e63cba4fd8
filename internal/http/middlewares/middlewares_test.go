package middlewares

import (
	"errors"
	"strings"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/timetrack/internal/actorctx"
	"github.com/geocoder89/timetrack/internal/auth"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	claims *auth.Claims
	err    error
}

func (f fakeVerifier) VerifyAccessToken(string) (*auth.Claims, error) {
	return f.claims, f.err
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   fakeVerifier
		wantStatus int
	}{
		{name: "missing_header", wantStatus: http.StatusUnauthorized},
		{name: "not_bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty_token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "invalid_token", header: "Bearer x", verifier: fakeVerifier{err: errors.New("bad")}, wantStatus: http.StatusUnauthorized},
		{name: "ok", header: "Bearer x", verifier: fakeVerifier{claims: &auth.Claims{UserID: "u1", Email: "a@b.c"}}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/me", NewAuthMiddleware(tt.verifier).RequireAuth(), func(c *gin.Context) {
				fromGin, _ := UserIDFromContext(c)
				fromCtx, _ := actorctx.UserIDFrom(c.Request.Context())
				if fromGin != "u1" || fromCtx != "u1" {
					t.Fatalf("identity not propagated: gin=%q ctx=%q", fromGin, fromCtx)
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/login", rl.RateLimiterMiddleware(KeyByIP), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := hit("10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}

	w := hit("10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "30" {
		t.Fatalf("expected Retry-After 30, got %q", w.Header().Get("Retry-After"))
	}

	if w := hit("10.0.0.2"); w.Code != http.StatusOK {
		t.Fatalf("other clients must not be limited, got %d", w.Code)
	}

	now = now.Add(30 * time.Second)
	if w := hit("10.0.0.1"); w.Code != http.StatusOK {
		t.Fatalf("token should refill after 30s, got %d", w.Code)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-Id") != "abc" || w.Body.String() != "abc" {
		t.Fatalf("request id not propagated: header=%q body=%q", w.Header().Get("X-Request-Id"), w.Body.String())
	}
}

func TestRequireJSON(t *testing.T) {
	r := gin.New()
	r.Use(RequireJSON())
	r.POST("/projects", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/auth/logout", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name        string
		path        string
		body        string
		contentType string
		wantStatus  int
	}{
		{name: "json", path: "/projects", body: `{}`, contentType: "application/json", wantStatus: http.StatusCreated},
		{name: "json_charset", path: "/projects", body: `{}`, contentType: "application/json; charset=utf-8", wantStatus: http.StatusCreated},
		{name: "form", path: "/projects", body: "name=x", contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusUnsupportedMediaType},
		{name: "missing", path: "/projects", body: `{}`, wantStatus: http.StatusUnsupportedMediaType},
		{name: "no_body", path: "/auth/logout", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestMaxBodyBytesRejectsLargeBodies(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(strings.Repeat("a", 9))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:5173/"}))
	r.GET("/projects", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name      string
		origin    string
		wantAllow string
	}{
		{name: "allowed", origin: "http://localhost:5173", wantAllow: "http://localhost:5173"},
		{name: "other", origin: "http://evil.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/projects", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusNoContent {
				t.Fatalf("expected 204, got %d", w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Fatalf("allow origin: got %q want %q", got, tt.wantAllow)
			}
		})
	}
}

func TestRequestIDReplacesUnsafeValues(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, bad := range []string{"has space", "line\tbreak", strings.Repeat("x", 65)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", bad)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-Id"); got == bad || got == "" {
			t.Fatalf("%q: expected a fresh id, got %q", bad, got)
		}
	}
}
