// Package notifications publishes fire-and-forget notification messages to a
// RabbitMQ topic exchange. Delivery failures are logged, never surfaced to the
// request that triggered them.
package notifications

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notification types.
const (
	TypeRegistrationConfirmed = "registration_confirmed"
	TypeRegistrationCancelled = "registration_cancelled"
	TypePaymentReceived       = "payment_received"
	TypePaymentRefunded       = "payment_refunded"
	TypeInvoiceReady          = "invoice_ready"
	TypePayoutCompleted       = "payout_completed"
	TypeEventReminder         = "event_reminder"
)

// Notification is the message body consumed by the notification service.
type Notification struct {
	Type      string                 `json:"type"`
	Recipient string                 `json:"recipient"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// Publisher writes notifications to a topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewPublisher connects to RabbitMQ and declares the exchange.
func NewPublisher(url, exchange string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

// Publish sends a notification with routing key "notification.<type>".
// Errors are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, n Notification) {
	if p == nil {
		return
	}
	body, err := json.Marshal(n)
	if err != nil {
		p.logger.Error("marshal notification failed", zap.Error(err))
		return
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, "notification."+n.Type, false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		})
	if err != nil {
		p.logger.Error("publish notification failed",
			zap.String("type", n.Type), zap.Error(err))
		return
	}
	p.logger.Debug("notification published",
		zap.String("type", n.Type), zap.String("recipient", n.Recipient))
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
