package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"starmus/internal/config"
	"starmus/internal/core/domain"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher sends job messages to the job stream
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
}

// NewNATSPublisher connects and makes sure the job stream exists
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(cfg, cfg.ConsumerName+"-publisher", logger)
	if err != nil {
		return nil, err
	}

	if err := ensureStream(ctx, js, cfg); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{
		logger: logger,
		conn:   conn,
		js:     js,
		config: cfg,
	}, nil
}

// Publish sends message, using the job id as message id so a repeated publish is dropped by the stream
func (p *Publisher) Publish(ctx context.Context, message domain.JobMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode job message: %w", err)
	}

	ack, err := p.js.Publish(ctx, p.config.Subject, data, jetstream.WithMsgID(message.JobID.String()))
	if err != nil {
		return fmt.Errorf("failed to publish job message: %w", err)
	}

	p.logger.Info("job published",
		slog.String("jobID", message.JobID.String()),
		slog.String("attachmentID", message.AttachmentID.String()),
		slog.Bool("duplicate", ack.Duplicate))
	return nil
}

// Close closes the connection
func (p *Publisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
