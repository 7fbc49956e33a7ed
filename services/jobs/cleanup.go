// Package jobs holds the periodic maintenance work of the API server.
package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"daily_report_app_go/services"
)

// CleanupInterval is how often expired sessions are purged.
const CleanupInterval = time.Hour

// CleanupSessions deletes expired sessions once.
func CleanupSessions(database *gorm.DB) {
	if err := services.CleanupExpiredSessions(database); err != nil {
		zap.L().Error("Error cleaning up expired sessions", zap.Error(err))
	}
}

// RunSessionCleanup purges expired sessions every interval until ctx is
// done.
func RunSessionCleanup(ctx context.Context, database *gorm.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	zap.L().Info("Session cleanup job started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Session cleanup job stopped")
			return
		case <-ticker.C:
			CleanupSessions(database)
		}
	}
}
