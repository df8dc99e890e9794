package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const SubjectCaseAutoCreated = "ipwatch.cases.auto_created"

// Envelope wraps every published payload.
type Envelope struct {
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

type NATSPublisher struct {
	nc *nats.Conn
}

func Connect(url string, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("ipwatch"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encode(subject, payload, time.Now().UTC())
	if err != nil {
		return err
	}
	return p.nc.Publish(subject, b)
}

func (p *NATSPublisher) Close() {
	_ = p.nc.Drain()
}

func encode(subject string, payload any, at time.Time) ([]byte, error) {
	b, err := json.Marshal(Envelope{Subject: subject, OccurredAt: at, Data: payload})
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", subject, err)
	}
	return b, nil
}

// Noop drops every event. Used when NATS_URL is unset.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
