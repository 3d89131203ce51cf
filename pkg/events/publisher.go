// Package events publishes domain events about jobs and applications so other
// services (notifications, analytics) can react without polling the store.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectJobCreated               = "jobs.created"
	SubjectJobDeleted               = "jobs.deleted"
	SubjectApplicationSubmitted     = "applications.submitted"
	SubjectApplicationStatusChanged = "applications.status_changed"
	SubjectApplicationWithdrawn     = "applications.withdrawn"
)

type Event struct {
	Subject    string            `json:"subject"`
	OccurredAt time.Time         `json:"occurred_at"`
	ActorID    string            `json:"actor_id"`
	EntityID   string            `json:"entity_id"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNATSPublisher connects to NATS. Reconnects are retried forever so a
// broker restart does not require a service restart.
func NewNATSPublisher(url string, timeout time.Duration, logger *slog.Logger) (Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("jobconnect-api"),
		nats.Timeout(timeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &natsPublisher{conn: conn, logger: logger}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(event.Subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", event.Subject, err)
	}
	p.logger.DebugContext(ctx, "published event", "subject", event.Subject, "entity_id", event.EntityID)
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

type nopPublisher struct{}

// Nop returns a publisher that drops events, used when NATS is not configured.
func Nop() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close()                               {}
