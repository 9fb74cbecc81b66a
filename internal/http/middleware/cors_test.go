package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		allow   []string
		origin  string
		allowed bool
	}{
		{name: "dev default", allow: nil, origin: "http://localhost:5173", allowed: true},
		{name: "configured", allow: []string{"https://roadmaps.example.com"}, origin: "https://roadmaps.example.com", allowed: true},
		{name: "configured replaces defaults", allow: []string{"https://roadmaps.example.com"}, origin: "http://localhost:5173", allowed: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := gin.New()
			r.Use(CORS(tc.allow))
			r.OPTIONS("/api/roadmaps", func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodOptions, "/api/roadmaps", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if tc.allowed && got != tc.origin {
				t.Fatalf("allow-origin: want=%q got=%q", tc.origin, got)
			}
			if !tc.allowed && got != "" {
				t.Fatalf("allow-origin: want empty got=%q", got)
			}
		})
	}
}
