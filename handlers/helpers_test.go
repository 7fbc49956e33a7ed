package handlers

import (
	"bytes"
	"encoding/json"
	"io"
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
	"daily_report_app_go/dto"
	"daily_report_app_go/middleware"
	"daily_report_app_go/models"
	"daily_report_app_go/services"
)

const testPassword = "password123"

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	testDB, err := db.OpenMemory("mem_" + uuid.New().String())
	assert.NoError(t, err)

	err = testDB.AutoMigrate(models.All()...)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB
	return testDB
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:    "test",
		EmailTestMode:  true,
		AppURL:         "http://localhost:3000",
		SessionTTL:     time.Hour,
		LoginRateLimit: 100,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", testConfig())

	return e, c, rec
}

// apiTest drives the full API stack against an isolated database.
type apiTest struct {
	t   *testing.T
	db  *gorm.DB
	e   *echo.Echo
	cfg *config.Config
}

func newAPITest(t *testing.T) *apiTest {
	conn := setupTestDB(t)
	cfg := testConfig()
	return &apiTest{t: t, db: conn, e: NewServer(cfg), cfg: cfg}
}

func (a *apiTest) user(name string, role models.Role) *models.User {
	a.t.Helper()
	u, err := services.CreateUser(a.db, services.CreateUserInput{
		Name: name, Email: name + "@example.com", Password: testPassword, Role: role,
	})
	require.NoError(a.t, err)
	return u
}

func (a *apiTest) token(u *models.User) string {
	a.t.Helper()
	s, err := services.CreateSession(a.db, u.ID, time.Hour, "", "")
	require.NoError(a.t, err)
	return s.Token
}

func (a *apiTest) customer(name string) *models.Customer {
	a.t.Helper()
	c := &models.Customer{CompanyName: name, ContactName: "担当者"}
	require.NoError(a.t, a.db.Create(c).Error)
	return c
}

func (a *apiTest) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(a.t, err)
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, APIPrefix+path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorBody {
	return decode[dto.ErrorResponse](t, rec).Error
}

func today() string {
	return time.Now().Format(models.DateLayout)
}

func daysAgo(n int) string {
	return time.Now().AddDate(0, 0, -n).Format(models.DateLayout)
}

func stringToPtr(s string) *string {
	return &s
}
