package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/web/apiclient"
	"daily_report_app_go/web/state"
)

func serve(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "next") })
	require.NoError(t, h(c))
	return rec
}

func withCookie(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: apiclient.SessionCookieName, Value: "tok"})
	return req
}

func TestRouteGuard(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		cookie   bool
		location string
	}{
		{"reports without cookie", "/reports", false, "/login"},
		{"report detail without cookie", "/reports/3", false, "/login"},
		{"customers without cookie", "/customers/new", false, "/login"},
		{"login with cookie", "/login", true, "/reports"},
		{"reports with cookie", "/reports", true, ""},
		{"login without cookie", "/login", false, ""},
		{"static without cookie", "/static/style.css", false, ""},
		{"lookalike prefix", "/reportsx", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie {
				withCookie(req)
			}
			rec := serve(t, RouteGuard(), req)
			if tt.location == "" {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, "next", rec.Body.String())
				return
			}
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestRedirect_HTMX(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("HX-Request", "true")
	rec := serve(t, RouteGuard(), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
}

func TestSessions(t *testing.T) {
	registry := state.NewRegistry(8, time.Minute)
	api := apiclient.New("http://127.0.0.1:1")
	e := echo.New()

	var seen *state.Session
	h := Sessions(registry, api)(func(c echo.Context) error {
		seen = GetSession(c)
		assert.Equal(t, "tok", GetToken(c))
		assert.NotNil(t, GetResources(c))
		return nil
	})

	for i := 0; i < 2; i++ {
		req := withCookie(httptest.NewRequest(http.MethodGet, "/reports", nil))
		require.NoError(t, h(e.NewContext(req, httptest.NewRecorder())))
	}
	assert.Same(t, registry.Get("tok"), seen)
	assert.Equal(t, 1, registry.Len())

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/login", nil), httptest.NewRecorder())
	require.NoError(t, Sessions(registry, api)(func(c echo.Context) error {
		assert.Nil(t, GetSession(c))
		assert.Nil(t, GetResources(c))
		assert.Empty(t, GetToken(c))
		return nil
	})(c))
}

func TestAssetVersions(t *testing.T) {
	fsys := fstest.MapFS{"style.css": {Data: []byte("body{}")}}
	InitAssetVersions(fsys, "style.css", "missing.js")

	assert.Len(t, AssetVersion("style.css"), 8)
	assert.Equal(t, "1", AssetVersion("missing.js"))
	assert.Equal(t, "/static/style.css?v="+AssetVersion("style.css"), AssetURL("style.css"))
}
