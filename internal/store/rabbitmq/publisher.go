// Package rabbitmq enqueues asynchronous research jobs. The queue
// topology is owned here: the API publisher and the worker both declare
// it through DeclareTopology, so the two processes always assert
// identical queue arguments no matter which one starts first.
package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	retrySuffix = ".retry"
	dlqSuffix   = ".dlq"
)

// JobMessage is the wire payload for one research job. It carries only
// the job id; the worker re-reads prompt and session from the job row.
type JobMessage struct {
	JobID string `json:"job_id"`
}

// mainQueueArgs dead-letters rejected deliveries to the DLQ.
func mainQueueArgs(queue string) amqp.Table {
	return amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": queue + dlqSuffix,
	}
}

// retryQueueArgs dead-letters expired messages back onto the main queue.
func retryQueueArgs(queue string) amqp.Table {
	return amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": queue,
	}
}

// DeclareTopology declares the three research-job queues: <queue> for
// live work, <queue>.retry for delayed redelivery, <queue>.dlq for
// messages rejected by the worker. Declarations are idempotent only when
// the arguments match the existing queues, which is why every process
// goes through this function instead of declaring ad hoc.
func DeclareTopology(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(queue+dlqSuffix, true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(queue+retrySuffix, true, false, false, false, retryQueueArgs(queue)); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, mainQueueArgs(queue)); err != nil {
		return err
	}
	return nil
}

// Publisher enqueues research jobs for the worker. Constructed once at
// server start; a nil publisher in the handler disables the async
// endpoints without touching the synchronous path.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := DeclareTopology(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// PublishJob enqueues one job id as a persistent message, so queued
// research survives a broker restart alongside its job row.
func (p *Publisher) PublishJob(ctx context.Context, jobID string) error {
	body, err := json.Marshal(JobMessage{JobID: jobID})
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(cctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
}
