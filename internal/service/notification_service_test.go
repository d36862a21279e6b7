package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/casework-service/internal/config"
	"github.com/spec-kit/casework-service/internal/events"
)

type recordingDispatcher struct {
	subs map[events.EventType]int
}

func (d *recordingDispatcher) Publish(context.Context, events.Event) error { return nil }

func (d *recordingDispatcher) Subscribe(eventType events.EventType, _ events.EventHandler) {
	if d.subs == nil {
		d.subs = map[events.EventType]int{}
	}
	d.subs[eventType]++
}

func TestRegisterHandlersSubscribesEveryEventType(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	svc := NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{})

	assert.Equal(t, 6, svc.RegisterHandlers())
	for _, eventType := range []events.EventType{
		events.EventCaseCreated,
		events.EventCaseStatusChanged,
		events.EventCaseAssigned,
		events.EventCaseGrantChanged,
		events.EventAppointmentScheduled,
		events.EventTaskAssigned,
	} {
		assert.Equal(t, 1, dispatcher.subs[eventType], string(eventType))
	}
}

func TestRegisterHandlersWithoutDispatcher(t *testing.T) {
	svc := NewNotificationService(nil, zap.NewNop(), config.NotificationConfig{})
	assert.Zero(t, svc.RegisterHandlers())
}
