package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/Checker-Finance/maturity-client/internal/metrics"
	"github.com/Checker-Finance/maturity-client/pkg/model"
)

// Publisher emits session events to whoever else cares (other tabs, other
// CLI processes, audit consumers).
type Publisher interface {
	Publish(ctx context.Context, evt model.SessionEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.SessionEvent) error { return nil }

// msgPublisher is the part of *nats.Conn used here.
type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSPublisher publishes events as JSON on "<prefix>.<type>".
type NATSPublisher struct {
	conn    msgPublisher
	prefix  string
	service string
	logger  *zap.Logger
}

// NewNATSPublisher wraps an established connection. service is stamped on
// every message header.
func NewNATSPublisher(conn *nats.Conn, prefix, service string, logger *zap.Logger) *NATSPublisher {
	return newNATSPublisher(conn, prefix, service, logger)
}

func newNATSPublisher(conn msgPublisher, prefix, service string, logger *zap.Logger) *NATSPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATSPublisher{conn: conn, prefix: prefix, service: service, logger: logger}
}

// Connect dials NATS with the client's name and a bounded connect timeout.
func Connect(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(3*time.Second),
		nats.MaxReconnects(5),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(eventType string) string {
	return p.prefix + "." + eventType
}

func (p *NATSPublisher) Publish(ctx context.Context, evt model.SessionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	subject := p.Subject(evt.Type)
	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"event_type":   []string{evt.Type},
			"event_id":     []string{evt.ID.String()},
			"service":      []string{p.service},
			"content_type": []string{"application/json"},
		},
	}
	err = p.conn.PublishMsg(msg)
	metrics.IncSessionEvent(evt.Type, err)
	if err != nil {
		p.logger.Warn("events.publish_failed", zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.logger.Debug("events.published",
		zap.String("subject", subject),
		zap.String("event_id", evt.ID.String()))
	return nil
}
