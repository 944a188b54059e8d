package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	interfaces "github.com/sheikh-saqib/balance-alerts/internal/interfaces"
	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

// Topics names the output topic of every channel.
type Topics struct {
	Email string
	SMS   string
	Push  string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher routes addressed messages to the topic of their address channel.
// The message key is the address itself (email address, phone number or
// customer id), so the channel consumer knows where to deliver.
type Publisher struct {
	writers map[models.ChannelKind]messageWriter
}

func NewPublisher(brokers string, topics Topics) (*Publisher, error) {
	if brokers == "" {
		return nil, fmt.Errorf("brokers cannot be empty")
	}
	if topics.Email == "" || topics.SMS == "" || topics.Push == "" {
		return nil, fmt.Errorf("email, sms and push topics are required")
	}

	brokerList := ParseBrokers(brokers)
	newWriter := func(topic string) messageWriter {
		return &kafka.Writer{
			Addr:         kafka.TCP(brokerList...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			WriteTimeout: writeTimeout,
			RequiredAcks: kafka.RequireOne,
		}
	}

	return newPublisher(map[models.ChannelKind]messageWriter{
		models.ChannelEmail: newWriter(topics.Email),
		models.ChannelSMS:   newWriter(topics.SMS),
		models.ChannelPush:  newWriter(topics.Push),
	}), nil
}

func newPublisher(writers map[models.ChannelKind]messageWriter) *Publisher {
	return &Publisher{writers: writers}
}

// Publish writes the message (without its address) to the address's channel topic.
func (p *Publisher) Publish(ctx context.Context, customerID string, msg models.AddressedMessage) error {
	writer, ok := p.writers[msg.Address.Channel]
	if !ok {
		return fmt.Errorf("no topic for channel %q", msg.Address.Channel)
	}

	data, err := json.Marshal(msg.Message)
	if err != nil {
		return err
	}

	return writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Address.Value),
		Value: data,
		Headers: []kafka.Header{
			{Key: "message_id", Value: []byte(uuid.NewString())},
			{Key: "message_type", Value: []byte(msg.Message.MessageType)},
			{Key: "channel", Value: []byte(msg.Address.Channel)},
			{Key: "customer_id", Value: []byte(customerID)},
		},
	})
}

// Close closes every channel writer and returns the first error.
func (p *Publisher) Close() error {
	var first error
	for _, w := range p.writers {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var _ interfaces.MessagePublisher = (*Publisher)(nil)
