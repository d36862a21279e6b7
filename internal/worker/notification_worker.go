package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/casework-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the
// event dispatcher and logs what got wired so a deployment with a
// misconfigured dispatcher is visible at startup.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	registered := notifications.RegisterHandlers()
	if registered == 0 {
		logger.Warn("notification worker started with no event subscriptions")
		return
	}
	logger.Info("notification worker started", zap.Int("subscriptions", registered))
}
