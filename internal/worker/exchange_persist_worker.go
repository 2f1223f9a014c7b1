package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"gopherai-tutor/internal/logger"
	"gopherai-tutor/internal/model"
	"gopherai-tutor/internal/platform/rabbitmq"
)

var errMissingSessionID = errors.New("exchange without session id")

// ExchangeWriter is the durable sink for consumed exchanges.
type ExchangeWriter interface {
	Create(record *model.ExchangeRecord) error
}

// ExchangePersistWorker drains the exchange queue into the repository. A
// message that cannot be decoded is rejected to the dead-letter queue; a failed
// write is requeued once and dead-lettered if it fails again.
type ExchangePersistWorker struct {
	conn      *amqp.Connection
	repo      ExchangeWriter
	queueName string
	log       *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewExchangePersistWorker(conn *amqp.Connection, repo ExchangeWriter, queueName string, log *logger.Logger) *ExchangePersistWorker {
	return &ExchangePersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
		log:       logger.OrNop(log).With("component", "ExchangePersistWorker", "queue", queueName),
	}
}

func (w *ExchangePersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	ch, err := w.conn.Channel()
	if err != nil {
		return fmt.Errorf("open worker channel failed: %w", err)
	}
	if _, err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		return err
	}
	if err := ch.Qos(16, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.log.Warn("delivery channel closed")
					return
				}
				w.handle(d.Body, d.Redelivered, d.Ack, d.Nack)
			}
		}
	}()

	w.log.Info("exchange persist worker started")
	return nil
}

func (w *ExchangePersistWorker) handle(body []byte, redelivered bool, ack func(multiple bool) error, nack func(multiple, requeue bool) error) {
	record, err := decodeExchange(body)
	if err != nil {
		w.log.Error("decode exchange failed", "err", err)
		_ = nack(false, false)
		return
	}
	if err := w.repo.Create(&record); err != nil {
		requeue := !redelivered
		w.log.Error("persist exchange failed", "session_id", record.SessionID, "requeue", requeue, "err", err)
		_ = nack(false, requeue)
		return
	}
	_ = ack(false)
}

func decodeExchange(body []byte) (model.ExchangeRecord, error) {
	var record model.ExchangeRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return model.ExchangeRecord{}, fmt.Errorf("unmarshal exchange failed: %w", err)
	}
	if record.SessionID == "" {
		return model.ExchangeRecord{}, errMissingSessionID
	}
	// The queue may redeliver; let the database assign the key.
	record.ID = 0
	return record, nil
}

func (w *ExchangePersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
