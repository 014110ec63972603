package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/routekit/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS and ensures the stream it reads from exists.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := Connect(url)
	if err != nil {
		return nil, err
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := ensureStream(js); err != nil {
		conn.Close()
		return nil, err
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeRouteCalculations delivers each calculation to handler. Messages are
// acked on success and redelivered up to three times on failure.
func (s *Subscriber) SubscribeRouteCalculations(ctx context.Context, handler func(ctx context.Context, calc *domain.RouteCalculation) error) error {
	sub, err := s.js.Subscribe(subjectCalculatedPrefix+">", func(msg *nats.Msg) {
		var calc domain.RouteCalculation
		if err := json.Unmarshal(msg.Data, &calc); err != nil {
			// Redelivery cannot fix a malformed payload.
			slog.Error("drop malformed route calculation", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &calc); err != nil {
			slog.Warn("route calculation handler failed", "calculation_id", calc.ID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("usage-ledger"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
