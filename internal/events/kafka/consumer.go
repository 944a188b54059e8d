package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	interfaces "github.com/sheikh-saqib/balance-alerts/internal/interfaces"
	"github.com/sheikh-saqib/balance-alerts/internal/logger"
	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

// Consumer reads account entries from the entry topic. Offsets are committed
// by the consumer group on an interval, so delivery is at-least-once.
type Consumer struct {
	reader *kafka.Reader
	topic  string
	log    zerolog.Logger
}

func NewConsumer(brokers string, topic string, groupID string) (*Consumer, error) {
	if brokers == "" {
		return nil, fmt.Errorf("brokers cannot be empty")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if groupID == "" {
		return nil, fmt.Errorf("groupID cannot be empty")
	}

	log := logger.WithComponent("entry-consumer")
	brokerList := ParseBrokers(brokers)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokerList,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        readTimeout,
		CommitInterval: commitInterval,
		StartOffset:    kafka.FirstOffset,
	})

	log.Info().
		Strs("brokers", brokerList).
		Str("topic", topic).
		Str("group_id", groupID).
		Msg("kafka consumer configured")

	return &Consumer{
		reader: reader,
		topic:  topic,
		log:    log,
	}, nil
}

// ReadEntry blocks until the next entry arrives. A message that is not a
// valid entry is returned as an error; it has already been consumed.
func (c *Consumer) ReadEntry(ctx context.Context) (*models.LedgerEntry, error) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read message from Kafka: %w", err)
	}
	return decodeEntry(msg)
}

func decodeEntry(msg kafka.Message) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	if err := json.Unmarshal(msg.Value, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account entry at offset %d: %w", msg.Offset, err)
	}
	if entry.AccountID == "" && len(msg.Key) > 0 {
		entry.AccountID = string(msg.Key)
	}
	return &entry, nil
}

func (c *Consumer) Close() error {
	c.log.Info().Str("topic", c.topic).Msg("closing kafka consumer")
	return c.reader.Close()
}

var _ interfaces.EntrySource = (*Consumer)(nil)
