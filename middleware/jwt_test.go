package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signedToken(t *testing.T, key []byte, expires time.Time) string {
	t.Helper()
	claims := &Claims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func runJWT(t *testing.T, key []byte, token string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("username").(string))
	}
	return rec, JWT(key)(next)(c)
}

func TestJWTValidToken(t *testing.T) {
	key := []byte("test-key")
	token := signedToken(t, key, time.Now().Add(time.Hour))

	rec, err := runJWT(t, key, token)
	if err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if rec.Body.String() != "admin" {
		t.Errorf("username = %q, want admin", rec.Body.String())
	}
}

func TestJWTMissingHeader(t *testing.T) {
	_, err := runJWT(t, []byte("test-key"), "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestJWTWrongKey(t *testing.T) {
	token := signedToken(t, []byte("other-key"), time.Now().Add(time.Hour))

	_, err := runJWT(t, []byte("test-key"), token)
	if err == nil {
		t.Fatal("token signed with wrong key accepted")
	}
}

func TestJWTExpiredToken(t *testing.T) {
	key := []byte("test-key")
	token := signedToken(t, key, time.Now().Add(-time.Hour))

	_, err := runJWT(t, key, token)
	if err == nil {
		t.Fatal("expired token accepted")
	}
}
