package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func authRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Auth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caller": CallerID(c)})
	})
	return router
}

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuth_MissingToken(t *testing.T) {
	router := authRouter([]byte("secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	router := authRouter([]byte("secret"))

	for _, token := range []string{
		"garbage",
		signToken(t, []byte("other-secret"), jwt.MapClaims{"id": "user-1"}),
		signToken(t, []byte("secret"), jwt.MapClaims{"id": "user-1", "exp": time.Now().Add(-time.Hour).Unix()}),
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403 for token %q, got %d", token, w.Code)
		}
	}
}

func TestAuth_ValidTokenExposesCallerID(t *testing.T) {
	secret := []byte("secret")
	router := authRouter(secret)

	token := signToken(t, secret, jwt.MapClaims{"id": "user-1", "exp": time.Now().Add(time.Hour).Unix()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"caller":"user-1"}` {
		t.Errorf("unexpected body: %s", body)
	}
}
