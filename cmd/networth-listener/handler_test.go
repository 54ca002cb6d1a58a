package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"networth/internal/amqp"
	"networth/internal/core"
	"networth/internal/log"
)

func newTestHandler() (*handler, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Format: "text", Output: &buf})
	return newHandler(logger), &buf
}

func event(t *testing.T, topic string, payload any) *amqp.Event {
	t.Helper()
	e, err := amqp.NewEvent(topic, payload)
	require.NoError(t, err)
	return e
}

func TestHandleEntryCreated(t *testing.T) {
	h, buf := newTestHandler()
	entry := core.Entry{
		ID:     7,
		UID:    3,
		Date:   core.NewDate(2024, 1, 31),
		Values: []core.Value{{ID: 1, Subcategory: 2, Payload: core.Simple{Amount: 5}}},
	}

	err := h.Handle(context.Background(), event(t, amqp.UserTopic(amqp.TopicEntryCreated, 3), entry))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Entry created")
	assert.Contains(t, out, "entry_id=7")
	assert.Contains(t, out, "uid=3")
	assert.Contains(t, out, "date=2024-01-31")
	assert.Contains(t, out, "component=listener")
}

func TestHandleEntryDeleted(t *testing.T) {
	h, buf := newTestHandler()

	err := h.Handle(context.Background(), event(t, amqp.UserTopic(amqp.TopicEntryDeleted, 3), amqp.EntryDeleted{ID: 9}))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "entry_id=9")
}

func TestHandleCashTotal(t *testing.T) {
	h, buf := newTestHandler()
	topic := amqp.UserTopic(amqp.TopicCashTotalUpdated, 3)

	cash := &core.CashPosition{Date: core.NewDate(2024, 1, 31), LiquidCash: 150000, Investments: 20}
	require.NoError(t, h.Handle(context.Background(), event(t, topic, cash)))
	assert.Contains(t, buf.String(), "liquid_cash=150000")

	var none *core.CashPosition
	require.NoError(t, h.Handle(context.Background(), event(t, topic, none)))
	assert.Contains(t, buf.String(), "Cash total cleared")
}

func TestHandleBadPayloadIsRetried(t *testing.T) {
	h, _ := newTestHandler()
	e := event(t, amqp.UserTopic(amqp.TopicEntryCreated, 3), "not an entry")

	assert.Error(t, h.Handle(context.Background(), e))
}

func TestHandleUnknownTopics(t *testing.T) {
	h, buf := newTestHandler()

	require.NoError(t, h.Handle(context.Background(), event(t, "net_worth.other.1", struct{}{})))
	require.NoError(t, h.Handle(context.Background(), event(t, "no-user", struct{}{})))
	assert.Contains(t, buf.String(), "Ignoring event")
}

func TestSplitTopic(t *testing.T) {
	tests := []struct {
		key     string
		topic   string
		uid     int64
		wantErr bool
	}{
		{key: "net_worth.entry.created.42", topic: amqp.TopicEntryCreated, uid: 42},
		{key: "net_worth.cash_total.updated.1", topic: amqp.TopicCashTotalUpdated, uid: 1},
		{key: "net_worth.entry.created.x", wantErr: true},
		{key: "plain", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			topic, uid, err := splitTopic(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.topic, topic)
			assert.Equal(t, tt.uid, uid)
		})
	}
}
