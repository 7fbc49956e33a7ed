package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"daily_report_app_go/config"
	"daily_report_app_go/db"
	"daily_report_app_go/models"
	"daily_report_app_go/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.OpenMemory("mw_" + uuid.NewString())
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := testDB.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	// Set the global DB variable used by middleware
	db.DB = testDB
	return testDB
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "success")
}

func TestRequireAuth(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()

	user, err := services.CreateUser(testDB, services.CreateUserInput{
		Name: "Test User", Email: "test@example.com", Password: "password", Role: models.RoleSales,
	})
	require.NoError(t, err)
	session, err := services.CreateSession(testDB, user.ID, time.Hour, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	t.Run("ValidCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := RequireAuth()(okHandler)(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID, GetCurrentUser(c).ID)
		assert.Equal(t, session.Token, GetCurrentSession(c).Token)
	})

	t.Run("ValidBearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+session.Token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, user.ID, GetCurrentUser(c).ID)
	})

	t.Run("NoToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reports", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := RequireAuth()(okHandler)(c)
		assert.True(t, services.IsCode(err, services.CodeUnauthorized))
		assert.Nil(t, GetCurrentUser(c))
	})

	t.Run("UnknownToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "invalid"})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := RequireAuth()(okHandler)(c)
		assert.True(t, services.IsCode(err, services.CodeUnauthorized))
		assert.Contains(t, rec.Header().Get("Set-Cookie"), SessionCookieName+"=;")
	})

	t.Run("ExpiredSession", func(t *testing.T) {
		expired, err := services.CreateSession(testDB, user.ID, time.Hour, "", "")
		require.NoError(t, err)
		testDB.Model(expired).Update("expires_at", time.Now().Add(-time.Minute))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: expired.Token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err = RequireAuth()(okHandler)(c)
		assert.True(t, services.IsCode(err, services.CodeUnauthorized))
	})
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	t.Run("AllowedRole", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set(ContextKeyUser, &models.User{Role: models.RoleManager})
		assert.NoError(t, RequireRole(models.RoleManager)(okHandler)(c))
	})

	t.Run("ForbiddenRole", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set(ContextKeyUser, &models.User{Role: models.RoleSales})
		err := RequireRole(models.RoleManager)(okHandler)(c)
		assert.True(t, services.IsCode(err, services.CodeForbidden))
	})

	t.Run("Anonymous", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		err := RequireRole(models.RoleManager)(okHandler)(c)
		assert.True(t, services.IsCode(err, services.CodeUnauthorized))
	})
}

func TestSessionCookie(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	c.Set("config", &config.Config{CookieSecure: true})

	SetSessionCookie(c, "tok", time.Now().Add(time.Hour))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, "/", cookies[0].Path)
}

func TestAuditContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "agent")
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set(ContextKeyUser, &models.User{ID: 3, Name: "鈴木", Role: models.RoleManager})

	err := AuditContext()(func(c echo.Context) error {
		ctx := GetAuditContext(c)
		assert.Equal(t, uint(3), ctx.UserID)
		assert.Equal(t, "鈴木", ctx.UserName)
		assert.Equal(t, "agent", ctx.UserAgent)
		return nil
	})(c)
	assert.NoError(t, err)
}
