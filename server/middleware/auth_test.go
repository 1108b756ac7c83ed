package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/classboard/auth/authctx"
	"github.com/skillsenselab/classboard/auth/jwt"
)

func newAuthEngine(t *testing.T) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := jwt.NewService(jwt.Config{Secret: "middleware-test-secret"})
	if err != nil {
		t.Fatalf("jwt.NewService failed: %v", err)
	}

	engine := gin.New()
	engine.GET("/protected", Auth(tokens), func(c *gin.Context) {
		claims, err := authctx.GetOrError(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claims missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"userId": claims.UserID,
			"role":   claims.Role,
			"ginUID": c.GetString(UserIDKey),
		})
	})
	return engine, tokens
}

func TestAuthMiddleware(t *testing.T) {
	engine, tokens := newAuthEngine(t)

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Access denied. No token provided.") {
			t.Errorf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Invalid token") {
			t.Errorf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("wrong signature", func(t *testing.T) {
		other, err := jwt.NewService(jwt.Config{Secret: "a-different-secret"})
		if err != nil {
			t.Fatalf("jwt.NewService failed: %v", err)
		}
		forged, err := other.Issue("user-1", "student")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Invalid token") {
			t.Errorf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := tokens.Issue("user-1", "teacher")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		for _, want := range []string{`"userId":"user-1"`, `"role":"teacher"`, `"ginUID":"user-1"`} {
			if !strings.Contains(w.Body.String(), want) {
				t.Errorf("expected %s in %s", want, w.Body.String())
			}
		}
	})

	t.Run("raw token without Bearer prefix", func(t *testing.T) {
		token, err := tokens.Issue("user-2", "student")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", token)
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(GinCORS(&CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	t.Run("allowed origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("unexpected allow-origin %q", got)
		}
	})

	t.Run("disallowed origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		engine.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("allow-origin must not be set, got %q", got)
		}
	})
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/login", RateLimit(RateLimitConfig{RequestsPerMinute: 2}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		engine.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first requests must pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected 429 on third request, got %d", codes[2])
	}
}
