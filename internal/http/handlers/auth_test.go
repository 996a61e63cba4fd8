package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/timetrack/internal/auth"
	"github.com/geocoder89/timetrack/internal/config"
	"github.com/geocoder89/timetrack/internal/http/handlers"
	"github.com/geocoder89/timetrack/internal/repo/memory"
	"github.com/gin-gonic/gin"
)

func newAuthRouter() *gin.Engine {
	s := memory.New()
	h := handlers.NewAuthHandler(s.Users, auth.NewManager("test-secret", 15*time.Minute, 24*time.Hour), s.RefreshTokens, config.Config{Env: "test"})

	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", h.Logout)
	return r
}

func post(r *gin.Engine, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" && c.Value != "" {
			if c.Path != "/auth" || !c.HttpOnly {
				t.Fatalf("refresh cookie must be HttpOnly on /auth, got %+v", c)
			}
			return c
		}
	}
	t.Fatalf("no refresh cookie in response")
	return nil
}

func TestAuthFlow(t *testing.T) {
	r := newAuthRouter()
	creds := `{"email":"Alice@Example.com","password":"s3cret-pass","name":"Alice"}`

	w := post(r, "/register", creds, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	first := refreshCookie(t, w)

	if w := post(r, "/register", `{"email":"alice@example.com","password":"another-pass","name":"A"}`, nil); w.Code != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", w.Code)
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "ok_case_insensitive", body: `{"email":"ALICE@example.com","password":"s3cret-pass"}`, wantStatus: http.StatusOK},
		{name: "wrong_password", body: `{"email":"alice@example.com","password":"nope-nope"}`, wantStatus: http.StatusUnauthorized},
		{name: "unknown_email", body: `{"email":"mallory@example.com","password":"s3cret-pass"}`, wantStatus: http.StatusUnauthorized},
		{name: "not_an_email", body: `{"email":"alice","password":"s3cret-pass"}`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := post(r, "/login", tt.body, nil); w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}

	w = post(r, "/auth/refresh", "", first)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", w.Code, w.Body.String())
	}
	second := refreshCookie(t, w)
	if second.Value == first.Value {
		t.Fatalf("refresh must rotate the cookie")
	}

	if w := post(r, "/auth/refresh", "", first); w.Code != http.StatusUnauthorized {
		t.Fatalf("reusing a rotated token: expected 401, got %d", w.Code)
	}

	if w := post(r, "/auth/logout", "", second); w.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", w.Code)
	}
	if w := post(r, "/auth/refresh", "", second); w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: expected 401, got %d", w.Code)
	}
	if w := post(r, "/auth/refresh", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no cookie: expected 401, got %d", w.Code)
	}
}
