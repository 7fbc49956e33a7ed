package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCSPNonce(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	var nonce string
	err := CSPNonce()(func(c echo.Context) error {
		nonce = GetNonce(c.Request().Context())
		return nil
	})(c)

	assert.NoError(t, err)
	assert.NotEmpty(t, nonce)
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "'nonce-"+nonce+"'")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy unavailable") }

func TestCSPNonceFailsWithoutRandomness(t *testing.T) {
	prev := nonceSource
	nonceSource = failingReader{}
	t.Cleanup(func() { nonceSource = prev })

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	called := false
	err := CSPNonce()(func(c echo.Context) error {
		called = true
		return nil
	})(c)

	var he *echo.HTTPError
	assert.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusInternalServerError, he.Code)
	assert.False(t, called)
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestCSRFToken(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Empty(t, GetCSRFToken(c))

	c.Set("csrf", "token")
	assert.Equal(t, "token", GetCSRFToken(c))
}
