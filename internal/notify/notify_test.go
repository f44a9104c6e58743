package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
	closed bool
}

func (p *recordingPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func TestDispatcherDeliversQueuedEventsOnClose(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(pub, zap.NewNop())

	d.Notify(Event{Type: BookingRequested, RecipientID: 2, RecipientEmail: "t@example.com"})
	d.Notify(Event{Type: BookingConfirmed, RecipientID: 1, RecipientEmail: "s@example.com"})
	require.NoError(t, d.Close())

	require.Len(t, pub.events, 2)
	assert.Equal(t, BookingRequested, pub.events[0].Type)
	assert.False(t, pub.events[0].OccurredAt.IsZero())
	assert.True(t, pub.closed)
}

func TestDispatcherSurvivesPublishErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	d := NewDispatcher(pub, zap.NewNop())

	d.Notify(Event{Type: MessageReceived})
	d.Notify(Event{Type: MessageReceived})
	require.NoError(t, d.Close())

	assert.Len(t, pub.events, 2)
}

func TestMailerRender(t *testing.T) {
	m := NewMailer("no-reply@tutor.local", zap.NewNop())

	mail, err := m.Render(Event{
		Type:           BookingRequested,
		RecipientEmail: "teacher@example.com",
		RecipientName:  "Ada",
		BookingID:      12,
		Data:           map[string]string{"start": "2026-10-12T10:00:00Z"},
	})
	require.NoError(t, err)

	assert.Equal(t, "teacher@example.com", mail.To)
	assert.Equal(t, "no-reply@tutor.local", mail.From)
	assert.Equal(t, "New lesson request", mail.Subject)
	assert.Contains(t, mail.Body, "Hi Ada,")
	assert.Contains(t, mail.Body, "Booking #12")
	assert.Contains(t, mail.Body, "start: 2026-10-12T10:00:00Z")
}

func TestMailerRejectsUnknownOrUnaddressed(t *testing.T) {
	m := NewMailer("x@y", zap.NewNop())

	_, err := m.Render(Event{Type: "unknown", RecipientEmail: "a@b"})
	assert.Error(t, err)

	_, err = m.Render(Event{Type: ReceiptApproved})
	assert.Error(t, err)
}

func TestHandleMessageDecodes(t *testing.T) {
	payload, err := json.Marshal(Event{
		Type:        ReceiptRejected,
		RecipientID: 4,
		OccurredAt:  time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var got Event
	err = HandleMessage(context.Background(), payload, func(_ context.Context, ev Event) error {
		got = ev
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, ReceiptRejected, got.Type)
	assert.Equal(t, uint(4), got.RecipientID)

	assert.Error(t, HandleMessage(context.Background(), []byte("{"), func(context.Context, Event) error { return nil }))
}
