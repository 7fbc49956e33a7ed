package services

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"daily_report_app_go/models"
)

// AuditContext contains contextual information for audit logging
type AuditContext struct {
	UserID    uint
	UserName  string
	UserRole  models.Role
	IPAddress string
	UserAgent string
}

// NewAuditContext captures the acting user.
func NewAuditContext(user *models.User, ipAddress, userAgent string) AuditContext {
	return AuditContext{
		UserID:    user.ID,
		UserName:  user.Name,
		UserRole:  user.Role,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// AuditEvent describes one audited operation.
type AuditEvent struct {
	Action       models.AuditAction
	ResourceType string
	ResourceID   uint
	Description  string
	OldValues    interface{}
	NewValues    interface{}
}

// LogAuditEvent creates a new audit log entry asynchronously
func LogAuditEvent(db *gorm.DB, ctx AuditContext, ev AuditEvent) {
	go func() {
		if err := WriteAuditEvent(db, ctx, ev); err != nil {
			zap.L().Error("failed to create audit log",
				zap.String("action", string(ev.Action)),
				zap.String("resource_type", ev.ResourceType),
				zap.Uint("resource_id", ev.ResourceID),
				zap.Error(err),
			)
		}
	}()
}

// WriteAuditEvent stores an audit log entry synchronously.
func WriteAuditEvent(db *gorm.DB, ctx AuditContext, ev AuditEvent) error {
	entry := models.AuditLog{
		UserName:     ctx.UserName,
		UserRole:     ctx.UserRole,
		ResourceType: ev.ResourceType,
		ResourceID:   ev.ResourceID,
		Action:       ev.Action,
		Description:  ev.Description,
		OldValues:    encodeAuditValues(ev.OldValues),
		NewValues:    encodeAuditValues(ev.NewValues),
		IPAddress:    ctx.IPAddress,
		UserAgent:    ctx.UserAgent,
	}
	if ctx.UserID != 0 {
		id := ctx.UserID
		entry.UserID = &id
	}
	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func encodeAuditValues(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
