package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/protodesk/internal/logging"
	"github.com/nats-io/nats.go"
)

// NATSPublisher sends events as JSON to a single NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  logging.Logger
}

func NewNATSPublisher(url, subject string, logger logging.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("protodesk"))
	if err != nil {
		return nil, fmt.Errorf("error connecting to nats at %s: %w", url, err)
	}
	if subject == "" {
		subject = DefaultSubject
	}

	logger.Info(context.Background(), "nats publisher initialized", "url", url, "subject", subject)

	return &NATSPublisher{conn: nc, subject: subject, logger: logger}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("error marshalling event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		p.logger.Warn(ctx, "failed to publish event", "subject", p.subject, "kind", e.Kind, "error", err.Error())
		return fmt.Errorf("error publishing to %s: %w", p.subject, err)
	}

	p.logger.Debug(ctx, "event published", "subject", p.subject, "kind", e.Kind, "prototype_id", e.PrototypeID)
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	err := p.conn.Drain()
	if err != nil {
		p.conn.Close()
	}
	return err
}
