package events

import (
	"context"
	"encoding/json"
	"fmt"

	"identity-service/pkg/mailer"
	"identity-service/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EmailConsumer pulls queued email messages and hands them to a Mailer.
// Manual acks give at-least-once semantics: delivery failures are nacked
// back onto the queue, so the recipient may see duplicates.
type EmailConsumer struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	queue  string
	mailer mailer.Mailer
	log    *zap.Logger
}

func NewEmailConsumer(cfg utils.QueueConfig, m mailer.Mailer, log *zap.Logger) (*EmailConsumer, error) {
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

	// One unacked message at a time; redeliveries stay ordered enough
	// for a notification queue.
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("set prefetch: %w", err)
	}

	return &EmailConsumer{
		conn:   conn,
		ch:     ch,
		queue:  cfg.QueueName,
		mailer: m,
		log:    log,
	}, nil
}

// Run blocks consuming messages until ctx is canceled or the delivery
// channel closes.
func (c *EmailConsumer) Run(ctx context.Context) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming %s: %w", c.queue, err)
	}

	c.log.Info("Waiting for email messages", zap.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for %s", c.queue)
			}
			c.handle(ctx, d)
		}
	}
}

func (c *EmailConsumer) handle(ctx context.Context, d amqp.Delivery) {
	if err := c.Process(ctx, d.Body); err != nil {
		c.log.Error("Failed to process email message", zap.Error(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			c.log.Error("Failed to nack message", zap.Error(nackErr))
		}
		return
	}

	if err := d.Ack(false); err != nil {
		c.log.Error("Failed to ack message", zap.Error(err))
	}
}

// Process decodes one queue entry and delivers it. Exposed separately from
// the amqp loop so delivery behavior is testable without a broker.
func (c *EmailConsumer) Process(ctx context.Context, body []byte) error {
	var msg EmailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("decode email message: %w", err)
	}
	if msg.ToEmail == "" {
		return fmt.Errorf("email message missing to_email")
	}

	if err := c.mailer.Send(ctx, msg.ToEmail, msg.FullName, msg.Subject, msg.Body); err != nil {
		return fmt.Errorf("deliver email to %s: %w", msg.ToEmail, err)
	}

	c.log.Info("Email delivered", zap.String("to", msg.ToEmail), zap.String("subject", msg.Subject))
	return nil
}

func (c *EmailConsumer) Close() error {
	if err := c.ch.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}
