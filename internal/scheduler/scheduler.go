// Package scheduler advances room statuses by time: upcoming rooms become
// active at their start time, active rooms complete two hours after it.
// Cancelled rooms are never touched. This runs alongside the free-form
// status field on the update endpoint and can be left out of a deployment.
package scheduler

import (
	"time"

	"volleyhub/backend/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// activeDuration is how long after its start time a room counts as active.
const activeDuration = 2 * time.Hour

// Start schedules the status sweep every minute and returns the cron so the
// caller can stop it on shutdown.
func Start(db *gorm.DB, logger *zap.Logger) *cron.Cron {
	c := cron.New()
	c.AddFunc("@every 1m", func() {
		Sweep(db, logger, time.Now())
	})
	c.Start()
	return c
}

// Sweep applies both transitions as of the given time.
func Sweep(db *gorm.DB, logger *zap.Logger, now time.Time) {
	res := db.Model(&models.Room{}).
		Where("status = ? AND time <= ?", models.StatusUpcoming, now).
		Update("status", models.StatusActive)
	if res.Error != nil {
		logger.Error("failed to mark rooms active", zap.Error(res.Error))
	} else if res.RowsAffected > 0 {
		logger.Info("rooms marked active", zap.Int64("count", res.RowsAffected))
	}

	res = db.Model(&models.Room{}).
		Where("status = ? AND time <= ?", models.StatusActive, now.Add(-activeDuration)).
		Update("status", models.StatusCompleted)
	if res.Error != nil {
		logger.Error("failed to mark rooms completed", zap.Error(res.Error))
	} else if res.RowsAffected > 0 {
		logger.Info("rooms marked completed", zap.Int64("count", res.RowsAffected))
	}
}
