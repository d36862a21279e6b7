package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string

	d.Subscribe(EventCaseCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.CaseID)
		return nil
	})
	d.Subscribe(EventCaseCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.CaseID)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventCaseCreated, CaseID: "case-1"}))
	assert.Equal(t, []string{"first:case-1", "second:case-1"}, got)
}

func TestPublishJoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	broken := errors.New("smtp down")
	delivered := false

	d.Subscribe(EventTaskAssigned, func(context.Context, Event) error { return broken })
	d.Subscribe(EventTaskAssigned, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTaskAssigned})
	assert.ErrorIs(t, err, broken)
	assert.True(t, delivered, "second handler must still run")
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	d := NewInMemoryDispatcher()
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventCaseStatusChanged}))
}
