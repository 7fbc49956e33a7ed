package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"daily_report_app_go/db"
	"daily_report_app_go/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.OpenMemory("svc_" + uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func createTestUser(t *testing.T, conn *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()
	user, err := CreateUser(conn, CreateUserInput{
		Name:     name,
		Email:    name + "@example.com",
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func createTestCustomer(t *testing.T, conn *gorm.DB, company string) *models.Customer {
	t.Helper()
	c := &models.Customer{CompanyName: company, ContactName: "担当 " + company}
	require.NoError(t, conn.Create(c).Error)
	return c
}

func daysAgo(n int) time.Time {
	return models.NormalizeDate(time.Now()).AddDate(0, 0, -n)
}

func visitAt(t *testing.T, hhmm string) time.Time {
	t.Helper()
	at, err := models.ParseVisitTime(hhmm)
	require.NoError(t, err)
	return at
}

func ptr(s string) *string { return &s }
