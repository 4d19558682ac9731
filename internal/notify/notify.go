// Package notify fans created notifications out to an AMQP topic exchange so
// other services can push them to the recipient.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/muhammadolammi/skillbridge/internal/database"
	"github.com/streadway/amqp"
)

const Exchange = "notifications"

type Publisher interface {
	Publish(ctx context.Context, n database.Notification) error
	Close() error
}

// Nop drops every notification; used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, database.Notification) error { return nil }
func (Nop) Close() error                                         { return nil }

type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQP opens a channel per publish on a shared connection.
type AMQP struct {
	conn        *amqp.Connection
	openChannel func() (channel, error)
}

// Dial connects to the broker and declares the durable topic exchange.
func Dial(url string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQP{
		conn:        conn,
		openChannel: func() (channel, error) { return conn.Channel() },
	}, nil
}

// RoutingKey is notification.<type>.<recipient>, with dots in the address
// replaced so consumers can bind on the type.
func RoutingKey(n database.Notification) string {
	recipient := strings.NewReplacer(".", "_", "*", "_", "#", "_").Replace(strings.ToLower(n.RecipientEmail))
	return fmt.Sprintf("notification.%s.%s", n.Type, recipient)
}

func (a *AMQP) Publish(ctx context.Context, n database.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, err := a.openChannel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return ch.Publish(
		Exchange,
		RoutingKey(n),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    n.ID,
			Timestamp:    n.CreatedAt,
			Body:         body,
		},
	)
}

func (a *AMQP) Close() error {
	if a.conn == nil {
		return nil
	}
	return a.conn.Close()
}
