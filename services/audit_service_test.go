package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/models"
)

func TestWriteAuditEvent(t *testing.T) {
	conn := setupTestDB(t)
	user := createTestUser(t, conn, "manager", models.RoleManager)

	ctx := NewAuditContext(user, "10.0.0.1", "TestAgent")
	err := WriteAuditEvent(conn, ctx, AuditEvent{
		Action:       models.AuditActionUpdate,
		ResourceType: "customer",
		ResourceID:   7,
		Description:  "顧客を更新しました",
		OldValues:    map[string]interface{}{"company_name": "旧社名", "contact_name": "田中"},
		NewValues:    map[string]interface{}{"company_name": "新社名", "contact_name": "田中"},
	})
	require.NoError(t, err)

	var entry models.AuditLog
	require.NoError(t, conn.First(&entry).Error)
	assert.NotEmpty(t, entry.ID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, user.ID, *entry.UserID)
	assert.Equal(t, models.RoleManager, entry.UserRole)
	assert.Equal(t, "10.0.0.1", entry.IPAddress)

	changes := entry.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "company_name", changes[0].Field)
	assert.Equal(t, "旧社名", changes[0].Old)
	assert.Equal(t, "新社名", changes[0].New)

	t.Run("audit logs cannot be modified", func(t *testing.T) {
		entry.Description = "tampered"
		assert.ErrorIs(t, conn.Save(&entry).Error, models.ErrImmutable)
		assert.ErrorIs(t, conn.Delete(&entry).Error, models.ErrImmutable)
	})
}

func TestWriteAuditEventAnonymous(t *testing.T) {
	conn := setupTestDB(t)

	err := WriteAuditEvent(conn, AuditContext{UserName: "ghost@example.com"}, AuditEvent{
		Action:       models.AuditActionLogin,
		ResourceType: "session",
		Description:  "login failed",
	})
	require.NoError(t, err)

	var entry models.AuditLog
	require.NoError(t, conn.First(&entry).Error)
	assert.Nil(t, entry.UserID)
	assert.Empty(t, entry.OldValues)
}
