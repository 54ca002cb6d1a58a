package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"networth/internal/amqp"
	"networth/internal/core"
	"networth/internal/log"
)

// handler logs every net worth event it receives.
type handler struct {
	logger *log.Logger
}

func newHandler(logger *log.Logger) *handler {
	return &handler{logger: logger.WithComponent(log.ComponentListener)}
}

// Handle decodes the payload according to the routing key. Events on unknown topics are
// acknowledged and logged; a payload that does not decode is an error so the broker
// redelivers it.
func (h *handler) Handle(ctx context.Context, event *amqp.Event) error {
	topic, uid, err := splitTopic(event.Topic)
	if err != nil {
		h.logger.WarnContext(ctx, "Ignoring event", log.FieldTopic, event.Topic, log.FieldError, err)
		return nil
	}

	fields := log.NewFields().WithEntry(uid, 0)
	fields[log.FieldTopic] = topic
	fields["event_id"] = event.ID

	switch topic {
	case amqp.TopicEntryCreated:
		var entry core.Entry
		if err := json.Unmarshal(event.Payload, &entry); err != nil {
			return fmt.Errorf("decode created entry: %w", err)
		}
		fields.WithEntry(uid, entry.ID)
		fields[log.FieldDate] = entry.Date.String()
		fields[log.FieldValues] = len(entry.Values)
		h.logger.InfoContext(ctx, "Entry created", fields.ToSlice()...)

	case amqp.TopicEntryDeleted:
		var deleted amqp.EntryDeleted
		if err := json.Unmarshal(event.Payload, &deleted); err != nil {
			return fmt.Errorf("decode deleted entry: %w", err)
		}
		fields.WithEntry(uid, deleted.ID)
		h.logger.InfoContext(ctx, "Entry deleted", fields.ToSlice()...)

	case amqp.TopicCashTotalUpdated:
		var cash *core.CashPosition
		if err := json.Unmarshal(event.Payload, &cash); err != nil {
			return fmt.Errorf("decode cash total: %w", err)
		}
		if cash == nil {
			h.logger.InfoContext(ctx, "Cash total cleared", fields.ToSlice()...)
			return nil
		}
		fields[log.FieldDate] = cash.Date.String()
		fields["liquid_cash"] = cash.LiquidCash
		fields["investments"] = cash.Investments
		h.logger.InfoContext(ctx, "Cash total updated", fields.ToSlice()...)

	default:
		h.logger.WarnContext(ctx, "Ignoring event on unknown topic", fields.ToSlice()...)
	}
	return nil
}

// splitTopic separates a routing key such as net_worth.entry.created.42 into its topic and
// user ID.
func splitTopic(key string) (string, int64, error) {
	i := strings.LastIndexByte(key, '.')
	if i < 0 {
		return "", 0, fmt.Errorf("routing key %q has no user segment", key)
	}
	uid, err := strconv.ParseInt(key[i+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("routing key %q: invalid user ID: %w", key, err)
	}
	return key[:i], uid, nil
}
