package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizgate/config"
)

func newRouter(auth *AdminAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", auth.RequireAdmin(), func(c *gin.Context) {
		id, _ := AdminID(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestRequireAdmin(t *testing.T) {
	secret := []byte("test-secret")
	auth := NewAdminAuth(&config.Config{Auth: config.Auth{JWTSecret: string(secret)}, Server: config.Server{GinMode: gin.ReleaseMode}})
	r := newRouter(auth)

	valid, err := SignAdminToken(secret, "admin-42", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	expired, _ := SignAdminToken(secret, "admin-42", -time.Hour)
	foreign, _ := SignAdminToken([]byte("other-secret"), "admin-42", time.Hour)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer " + valid, http.StatusOK, "admin-42"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, ""},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Fatalf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}

func TestRequireAdminWithoutSecret(t *testing.T) {
	release := newRouter(NewAdminAuth(&config.Config{Server: config.Server{GinMode: gin.ReleaseMode}}))
	w := httptest.NewRecorder()
	release.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("release mode without secret: status = %d", w.Code)
	}

	debug := newRouter(NewAdminAuth(&config.Config{Server: config.Server{GinMode: gin.DebugMode}}))
	w = httptest.NewRecorder()
	debug.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("debug mode without secret: status = %d", w.Code)
	}
}
