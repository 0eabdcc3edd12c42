package workers

import (
	"context"
	"time"

	"safehome_backend/internal/logger"
	"safehome_backend/internal/services"
)

// RetargetWorker раз в сутки рассылает D-60 напоминания владельцам
// капсул, у которых заканчивается договор аренды.
type RetargetWorker struct {
	adminService services.AdminService
}

func NewRetargetWorker(adminService services.AdminService) *RetargetWorker {
	return &RetargetWorker{adminService: adminService}
}

// Start запускает фоновую рассылку
func (w *RetargetWorker) Start(ctx context.Context) {
	go w.runDaily(ctx)
}

func (w *RetargetWorker) runDaily(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	// Первый прогон сразу после старта, чтобы не ждать сутки
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Retarget worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *RetargetWorker) runOnce(ctx context.Context) {
	sent, err := w.adminService.RunRetarget(ctx)
	logger.WorkerLog("retarget", "daily_run", err)
	if err == nil && sent > 0 {
		logger.Info("D-60 reminders sent", "count", sent)
	}
}
