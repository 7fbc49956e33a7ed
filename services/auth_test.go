package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/models"
)

func TestPasswordHashing(t *testing.T) {
	password := "SecretPass123!"

	hash, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, VerifyPassword(hash, password))
	assert.False(t, VerifyPassword(hash, "WrongPass"))
}

func TestAuthenticate(t *testing.T) {
	conn := setupTestDB(t)
	user := createTestUser(t, conn, "yamada", models.RoleSales)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := Authenticate(conn, "YAMADA@example.com ", "password123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := Authenticate(conn, "yamada@example.com", "nope")
		appErr, ok := AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, CodeUnauthorized, appErr.Code)
		assert.Equal(t, MsgInvalidLogin, appErr.Message)
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		_, err := Authenticate(conn, "ghost@example.com", "password123")
		appErr, ok := AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, MsgInvalidLogin, appErr.Message)
	})
}

func TestSessionLifecycle(t *testing.T) {
	conn := setupTestDB(t)
	user := createTestUser(t, conn, "sato", models.RoleSales)

	session, err := CreateSession(conn, user.ID, 0, "127.0.0.1", "TestAgent")
	require.NoError(t, err)
	assert.Len(t, session.Token, SessionTokenLength*2)
	assert.NotEmpty(t, session.ID)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionDuration), session.ExpiresAt, 10*time.Second)

	valid, err := ValidateSession(conn, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.Email, valid.User.Email)

	_, err = ValidateSession(conn, "invalid-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = ValidateSession(conn, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, DeleteSession(conn, session.Token))
	_, err = ValidateSession(conn, session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExpiredSessions(t *testing.T) {
	conn := setupTestDB(t)
	user := createTestUser(t, conn, "suzuki", models.RoleManager)

	expired, err := CreateSession(conn, user.ID, time.Hour, "", "")
	require.NoError(t, err)
	require.NoError(t, conn.Model(expired).Update("expires_at", time.Now().Add(-time.Minute)).Error)

	live, err := CreateSession(conn, user.ID, time.Hour, "", "")
	require.NoError(t, err)

	_, err = ValidateSession(conn, expired.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	stale, err := CreateSession(conn, user.ID, time.Hour, "", "")
	require.NoError(t, err)
	require.NoError(t, conn.Model(stale).Update("expires_at", time.Now().Add(-time.Hour)).Error)

	require.NoError(t, CleanupExpiredSessions(conn))

	var count int64
	conn.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = ValidateSession(conn, live.Token)
	assert.NoError(t, err)
}

func TestCreateUser(t *testing.T) {
	conn := setupTestDB(t)

	user, err := CreateUser(conn, CreateUserInput{Name: " 山田 ", Email: "Yamada@Example.com", Password: "pw", Role: models.RoleSales})
	require.NoError(t, err)
	assert.Equal(t, "山田", user.Name)
	assert.Equal(t, "yamada@example.com", user.Email)
	assert.NotEqual(t, "pw", user.Password)

	_, err = CreateUser(conn, CreateUserInput{Name: "dup", Email: "yamada@example.com", Password: "pw", Role: models.RoleSales})
	assert.True(t, IsCode(err, CodeConflict))

	_, err = CreateUser(conn, CreateUserInput{Name: "x", Email: "x@example.com", Password: "pw", Role: "ADMIN"})
	assert.True(t, IsCode(err, CodeValidation))

	_, err = CreateUser(conn, CreateUserInput{Name: "", Email: "y@example.com", Password: "pw", Role: models.RoleSales})
	assert.True(t, IsCode(err, CodeValidation))
}

func TestListUsers(t *testing.T) {
	conn := setupTestDB(t)
	sales := createTestUser(t, conn, "sales", models.RoleSales)
	manager := createTestUser(t, conn, "manager", models.RoleManager)

	_, err := ListUsers(conn, sales, "")
	assert.True(t, IsCode(err, CodeForbidden))

	all, err := ListUsers(conn, manager, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlySales, err := ListUsers(conn, manager, "SALES")
	require.NoError(t, err)
	require.Len(t, onlySales, 1)
	assert.Equal(t, sales.ID, onlySales[0].ID)

	_, err = ListUsers(conn, manager, "BOSS")
	assert.True(t, IsCode(err, CodeValidation))

	managers, err := ListManagers(conn)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, manager.ID, managers[0].ID)
}
