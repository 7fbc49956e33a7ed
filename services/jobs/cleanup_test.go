package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"daily_report_app_go/db"
	"daily_report_app_go/models"
	"daily_report_app_go/services"
)

func setupDB(t *testing.T) (*gorm.DB, *models.User) {
	conn, err := db.OpenMemory("jobs_" + uuid.New().String())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	user, err := services.CreateUser(conn, services.CreateUserInput{
		Name: "yamada", Email: "yamada@example.com", Password: "password123", Role: models.RoleSales,
	})
	require.NoError(t, err)
	return conn, user
}

func sessionCount(t *testing.T, conn *gorm.DB) int64 {
	var n int64
	require.NoError(t, conn.Model(&models.Session{}).Count(&n).Error)
	return n
}

func TestCleanupSessions(t *testing.T) {
	conn, user := setupDB(t)

	live, err := services.CreateSession(conn, user.ID, time.Hour, "", "")
	require.NoError(t, err)
	expired, err := services.CreateSession(conn, user.ID, time.Hour, "", "")
	require.NoError(t, err)
	require.NoError(t, conn.Model(expired).Update("expires_at", time.Now().Add(-time.Minute)).Error)

	CleanupSessions(conn)

	assert.Equal(t, int64(1), sessionCount(t, conn))
	var left models.Session
	require.NoError(t, conn.First(&left).Error)
	assert.Equal(t, live.Token, left.Token)
}

func TestRunSessionCleanup_StopsWithContext(t *testing.T) {
	conn, user := setupDB(t)
	expired, err := services.CreateSession(conn, user.ID, time.Hour, "", "")
	require.NoError(t, err)
	require.NoError(t, conn.Model(expired).Update("expires_at", time.Now().Add(-time.Minute)).Error)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunSessionCleanup(ctx, conn, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sessionCount(t, conn) == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup job did not stop")
	}
}
