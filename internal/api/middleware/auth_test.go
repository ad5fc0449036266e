package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubVerifier 固定身份的令牌校验替身
type stubVerifier struct {
	userID int64
	err    error
}

func (s stubVerifier) Verify(string) (int64, error) {
	return s.userID, s.err
}

func newAuthTestRouter(verifier TokenVerifier) *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthRequired(verifier), func(c *gin.Context) {
		userID, _ := GetCurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	r.GET("/public", OptionalAuth(verifier), func(c *gin.Context) {
		userID, ok := GetCurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "authenticated": ok})
	})
	return r
}

func TestAuthRequired_MissingToken(t *testing.T) {
	r := newAuthTestRouter(stubVerifier{userID: 1})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
}

func TestAuthRequired_InvalidToken(t *testing.T) {
	r := newAuthTestRouter(stubVerifier{err: errors.New("token expired")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
}

func TestAuthRequired_ValidToken(t *testing.T) {
	r := newAuthTestRouter(stubVerifier{userID: 42})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthRequired_RejectsNonBearerScheme(t *testing.T) {
	r := newAuthTestRouter(stubVerifier{userID: 42})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for non-bearer scheme, got %d", w.Code)
	}
}

func TestOptionalAuth_AnonymousContinues(t *testing.T) {
	r := newAuthTestRouter(stubVerifier{err: errors.New("invalid")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for anonymous request, got %d", w.Code)
	}
}

func TestAdminRequired(t *testing.T) {
	fetcher := func(userID int64) (string, error) {
		if userID == 1 {
			return "admin", nil
		}
		return "user", nil
	}

	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set(ContextKeyUserID, int64(2))
	}, AdminRequired(fetcher), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/admin-ok", func(c *gin.Context) {
		c.Set(ContextKeyUserID, int64(1))
	}, AdminRequired(fetcher), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for non-admin, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-ok", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for admin, got %d", w.Code)
	}
}
