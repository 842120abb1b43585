package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"identity-service/pkg/utils"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// publishTimeout bounds how long a caller blocks waiting for the broker
// to acknowledge a publish.
const publishTimeout = 5 * time.Second

// Publisher enqueues notification emails for the delivery worker.
type Publisher interface {
	PublishEmail(ctx context.Context, msg EmailMessage) error
	Close() error
}

type emailPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   *zap.Logger

	// amqp channels are not safe for concurrent publish
	mu sync.Mutex
}

// NewEmailPublisher dials the broker, declares the durable queue, and puts
// the channel in confirm mode so PublishEmail can block until the broker
// acknowledges.
func NewEmailPublisher(cfg utils.QueueConfig, log *zap.Logger) (Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", cfg.QueueName, err)
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	return &emailPublisher{
		conn:  conn,
		ch:    ch,
		queue: cfg.QueueName,
		log:   log,
	}, nil
}

// PublishEmail serializes the message and publishes it as persistent so it
// survives broker restart. The call blocks until the broker confirms or the
// timeout elapses; failures are not retried here.
func (p *emailPublisher) PublishEmail(ctx context.Context, msg EmailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal email message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	confirmation, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, "", p.queue, false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	p.mu.Unlock()
	if err != nil {
		p.log.Error("Failed to publish email message",
			zap.Error(err),
			zap.String("queue", p.queue),
			zap.String("to", msg.ToEmail),
		)
		return fmt.Errorf("publish to %s: %w", p.queue, err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await broker confirm: %w", err)
	}
	if !acked {
		return fmt.Errorf("broker rejected publish to %s", p.queue)
	}

	p.log.Info("Email message enqueued",
		zap.String("queue", p.queue),
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
	)
	return nil
}

func (p *emailPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
