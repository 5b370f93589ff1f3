package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sangkips/fms-api/internal/domain/event"
	"go.uber.org/zap"
)

// conn is the part of *nats.Conn the publisher uses
type conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes committed document events as JSON.
//
// Subject convention: <prefix>.<document>.<action>, e.g.
// fms.documents.quotation.approve
type NATSPublisher struct {
	conn   conn
	prefix string
	log    *zap.Logger
}

// Connect dials the NATS server at url. The returned connection is owned by
// the caller, who should Drain it on shutdown.
func Connect(url, name string, log *zap.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// NewNATSPublisher creates a publisher on an open connection
func NewNATSPublisher(nc *nats.Conn, prefix string, log *zap.Logger) *NATSPublisher {
	return newPublisher(nc, prefix, log)
}

func newPublisher(c conn, prefix string, log *zap.Logger) *NATSPublisher {
	return &NATSPublisher{conn: c, prefix: strings.TrimSuffix(prefix, "."), log: log}
}

// Subject returns the subject an event is published on
func (p *NATSPublisher) Subject(evt event.DocumentEvent) string {
	return fmt.Sprintf("%s.%s.%s", p.prefix, strings.ToLower(evt.Document), strings.ToLower(evt.Action))
}

func (p *NATSPublisher) Publish(ctx context.Context, evt event.DocumentEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal document event: %w", err)
	}

	subject := p.Subject(evt)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	p.log.Debug("document event published",
		zap.String("subject", subject),
		zap.String("document_id", evt.DocumentID.String()),
	)
	return nil
}
