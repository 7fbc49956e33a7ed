package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/models"
)

func TestSeedDemoData(t *testing.T) {
	conn := setupTestDB(t)

	require.NoError(t, SeedDemoData(conn))

	var users, customers, reports, comments int64
	conn.Model(&models.User{}).Count(&users)
	conn.Model(&models.Customer{}).Count(&customers)
	conn.Model(&models.DailyReport{}).Count(&reports)
	conn.Model(&models.Comment{}).Count(&comments)
	assert.Equal(t, int64(len(demoUsers)), users)
	assert.Equal(t, int64(len(demoCustomers)), customers)
	assert.Equal(t, int64(3), reports)
	assert.Equal(t, int64(1), comments)

	_, err := Authenticate(conn, "yamada@example.com", DemoPassword)
	assert.NoError(t, err)

	require.NoError(t, SeedDemoData(conn))
	conn.Model(&models.User{}).Count(&users)
	assert.Equal(t, int64(len(demoUsers)), users)
}

func TestSeedManagerFromEnv(t *testing.T) {
	conn := setupTestDB(t)

	require.NoError(t, SeedManagerFromEnv(conn))
	var count int64
	conn.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)

	t.Setenv("MANAGER_EMAIL", "boss@example.com")
	t.Setenv("MANAGER_PASSWORD", "secret")
	require.NoError(t, SeedManagerFromEnv(conn))
	require.NoError(t, SeedManagerFromEnv(conn))

	var managers []models.User
	conn.Where("role = ?", models.RoleManager).Find(&managers)
	require.Len(t, managers, 1)
	assert.Equal(t, "Manager", managers[0].Name)
}
