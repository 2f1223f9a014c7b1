package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"gopherai-tutor/internal/model"
)

// ExchangePublisher queues answered exchanges for asynchronous persistence.
type ExchangePublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewExchangePublisher(conn *amqp.Connection, queueName string) *ExchangePublisher {
	return &ExchangePublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ExchangePublisher) Publish(ctx context.Context, record model.ExchangeRecord) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if _, err := DeclareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal exchange payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
			Type:         "tutor.exchange",
		},
	); err != nil {
		return fmt.Errorf("publish exchange failed: %w", err)
	}
	return nil
}

// DeadLetterQueue names the queue that receives rejected messages of name.
func DeadLetterQueue(name string) string {
	return name + ".dead"
}

// DeclareQueue declares the durable queue shared by publisher and worker,
// dead-lettering rejected messages into DeadLetterQueue(name).
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	dead := DeadLetterQueue(name)
	if _, err := ch.QueueDeclare(dead, true, false, false, false, nil); err != nil {
		return amqp.Queue{}, fmt.Errorf("declare queue %s failed: %w", dead, err)
	}
	q, err := ch.QueueDeclare(
		name,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": dead,
		},
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("declare queue %s failed: %w", name, err)
	}
	return q, nil
}
