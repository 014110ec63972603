package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/routekit/internal/core/domain"
)

const (
	// StreamRouteCalculations holds served optimizations awaiting a usage debit.
	StreamRouteCalculations = "ROUTE_CALCULATIONS"
	subjectCalculatedPrefix = "waypoints.calculated."
	// dedupWindow bounds how long a repeated Nats-Msg-Id is dropped by the server.
	dedupWindow = 10 * time.Minute
)

// Publisher implements ports.UsageLedger using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the route calculation stream exists.
func NewPublisher(url string) (*Publisher, error) {
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

	return &Publisher{conn: conn, js: js}, nil
}

func ensureStream(js nats.JetStreamContext) error {
	cfg := &nats.StreamConfig{
		Name:       StreamRouteCalculations,
		Subjects:   []string{subjectCalculatedPrefix + ">"},
		Retention:  nats.WorkQueuePolicy,
		MaxAge:     7 * 24 * time.Hour,
		Storage:    nats.FileStorage,
		Duplicates: dedupWindow,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist; try update
		if _, err := js.UpdateStream(cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

// RecordRouteCalculation publishes calc with its ID as the dedup key.
func (p *Publisher) RecordRouteCalculation(ctx context.Context, calc *domain.RouteCalculation) error {
	data, err := json.Marshal(calc)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subjectCalculatedPrefix+calc.UserID, data,
		nats.MsgId(calc.ID),
		nats.Context(ctx),
	)
	if err != nil {
		return fmt.Errorf("publish route calculation: %w", err)
	}
	return nil
}

// Conn exposes the connection for readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// Connect dials NATS, reconnecting forever.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return conn, nil
}
