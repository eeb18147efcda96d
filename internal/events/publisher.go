package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/talx-hub/eisc-ledger/internal/ledger"
	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
)

const DefaultTopic = "eisc.ledger.changes"

// Event is the message published for every ledger change.
type Event struct {
	OccurredAt  time.Time                 `json:"occurred_at"`
	Milestone   *milestone.Milestone      `json:"milestone,omitempty"`
	Transaction *transaction.Transaction  `json:"transaction,omitempty"`
	Kind        ledger.ChangeKind         `json:"kind"`
	UserID      string                    `json:"user_id"`
	History     []transaction.Transaction `json:"history,omitempty"`
}

func NewEvent(ch ledger.Change) Event {
	e := Event{
		OccurredAt: ch.OccurredAt,
		Kind:       ch.Kind,
		UserID:     ch.UserID,
	}
	switch ch.Kind {
	case ledger.ChangeSeed:
		e.History = ch.Snapshot.Transactions
	case ledger.ChangeMilestone:
		m := ch.Milestone
		e.Milestone = &m
		fallthrough
	default:
		tx := ch.Transaction
		e.Transaction = &tx
	}
	return e
}

func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

// Publisher sends ledger changes to Kafka keyed by user id, so all events of
// one account land on the same partition.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewPublisher(producer sarama.SyncProducer, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{producer: producer, topic: topic}
}

func (p *Publisher) Name() string {
	return "kafka"
}

func (p *Publisher) Apply(_ context.Context, ch ledger.Change) error {
	data, err := json.Marshal(NewEvent(ch))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ch.UserID),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", ch.Kind, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}
