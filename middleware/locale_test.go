package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"daily_report_app_go/config"
	"daily_report_app_go/services/i18n"
)

func TestLocale(t *testing.T) {
	e := echo.New()
	cfg := &config.Config{}

	run := func(req *http.Request) (string, string, *httptest.ResponseRecorder) {
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		var ctxLang string
		_ = Locale(cfg)(func(c echo.Context) error {
			ctxLang = i18n.GetLocale(c.Request().Context())
			return nil
		})(c)
		return GetLocale(c), ctxLang, rec
	}

	t.Run("Default", func(t *testing.T) {
		lang, ctxLang, _ := run(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "ja", lang)
		assert.Equal(t, "ja", ctxLang)
	})

	t.Run("QueryParamSetsCookie", func(t *testing.T) {
		lang, _, rec := run(httptest.NewRequest(http.MethodGet, "/?lang=en", nil))
		assert.Equal(t, "en", lang)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), "lang=en")
	})

	t.Run("UnsupportedQueryFallsBack", func(t *testing.T) {
		lang, _, _ := run(httptest.NewRequest(http.MethodGet, "/?lang=fr", nil))
		assert.Equal(t, "ja", lang)
	})

	t.Run("Cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
		lang, _, _ := run(req)
		assert.Equal(t, "en", lang)
	})

	t.Run("AcceptLanguage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "fr-FR,en-US;q=0.8,ja;q=0.5")
		lang, _, _ := run(req)
		assert.Equal(t, "en", lang)
	})
}
