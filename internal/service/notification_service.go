package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/casework-service/internal/config"
	"github.com/spec-kit/casework-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events and reports how many
// subscriptions were made.
func (n *NotificationService) RegisterHandlers() int {
	if n.dispatcher == nil {
		return 0
	}
	subscriptions := map[events.EventType]events.EventHandler{
		events.EventCaseCreated:          n.handleCaseCreated,
		events.EventCaseStatusChanged:    n.handleCaseStatusChanged,
		events.EventCaseAssigned:         n.handleCaseAssigned,
		events.EventCaseGrantChanged:     n.handleCaseGrantChanged,
		events.EventAppointmentScheduled: n.handleAppointmentScheduled,
		events.EventTaskAssigned:         n.handleTaskAssigned,
	}
	for eventType, handler := range subscriptions {
		n.dispatcher.Subscribe(eventType, handler)
	}
	return len(subscriptions)
}

func (n *NotificationService) handleCaseCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("CaseCreated", zap.String("case_id", event.CaseID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCaseStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("CaseStatusChanged", zap.String("case_id", event.CaseID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCaseAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("CaseAssigned", zap.String("case_id", event.CaseID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCaseGrantChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("CaseGrantChanged", zap.String("case_id", event.CaseID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAppointmentScheduled(ctx context.Context, event events.Event) error {
	n.logger.Info("AppointmentScheduled", zap.String("case_id", event.CaseID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTaskAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("TaskAssigned", zap.String("case_id", event.CaseID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("case_id", event.CaseID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("case_id", event.CaseID),
		zap.String("event_type", string(event.Type)))
}
