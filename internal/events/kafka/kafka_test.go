package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/sheikh-saqib/balance-alerts/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestParseBrokers(t *testing.T) {
	assert.Nil(t, ParseBrokers(""))
	assert.Equal(t, []string{"localhost:9092"}, ParseBrokers("localhost:9092"))
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers("a:9092, b:9092"))
}

func TestNewConsumer(t *testing.T) {
	tests := []struct {
		name    string
		brokers string
		topic   string
		groupID string
		errMsg  string
	}{
		{name: "valid consumer", brokers: "localhost:9092", topic: "accountentry", groupID: "balance-alerts"},
		{name: "empty brokers", topic: "accountentry", groupID: "balance-alerts", errMsg: "brokers cannot be empty"},
		{name: "empty topic", brokers: "localhost:9092", groupID: "balance-alerts", errMsg: "topic cannot be empty"},
		{name: "empty groupID", brokers: "localhost:9092", topic: "accountentry", errMsg: "groupID cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConsumer(tt.brokers, tt.topic, tt.groupID)
			if tt.errMsg != "" {
				assert.EqualError(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, c.Close())
		})
	}
}

func TestDecodeEntry(t *testing.T) {
	value := []byte(`{
		"account_currency": "EUR",
		"booking_amount": "20000",
		"booking_credit_debit_indicator": "CRDT",
		"balance_after_booking": "15000",
		"balance_after_booking_credit_debit_indicator": "CRDT"
	}`)

	entry, err := decodeEntry(kafka.Message{Key: []byte("acc-1"), Value: value})
	require.NoError(t, err)
	assert.Equal(t, "acc-1", entry.AccountID)
	assert.Equal(t, models.Credit, entry.BookingIndicator)
	assert.Equal(t, "15000", entry.BalanceAfterBooking)

	_, err = decodeEntry(kafka.Message{Value: []byte("not json")})
	assert.ErrorContains(t, err, "failed to unmarshal account entry")
}

func TestNewPublisher(t *testing.T) {
	topics := Topics{Email: "outboundemailmessage", SMS: "outboundsmsmessage", Push: "outboundcustomerpushmessage"}

	p, err := NewPublisher("localhost:9092", topics)
	require.NoError(t, err)
	assert.Len(t, p.writers, 3)

	_, err = NewPublisher("", topics)
	assert.EqualError(t, err, "brokers cannot be empty")

	_, err = NewPublisher("localhost:9092", Topics{Email: "e", SMS: "s"})
	assert.Error(t, err)
}

func TestPublisher_RoutesByChannel(t *testing.T) {
	email, sms, push := &fakeWriter{}, &fakeWriter{}, &fakeWriter{}
	p := newPublisher(map[models.ChannelKind]messageWriter{
		models.ChannelEmail: email,
		models.ChannelSMS:   sms,
		models.ChannelPush:  push,
	})

	msg := models.OutboundMessage{
		MessageType: models.AlertBalanceAboveThreshold,
		Timestamp:   1700000000000,
		Params:      map[string]string{"balance_amount": "150.00"},
	}
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, "cust-1", models.AddressedMessage{Address: models.EmailAddress("jan@example.com"), Message: msg}))
	require.NoError(t, p.Publish(ctx, "cust-1", models.AddressedMessage{Address: models.PushTarget("cust-1"), Message: msg}))

	require.Len(t, email.msgs, 1)
	assert.Empty(t, sms.msgs)
	require.Len(t, push.msgs, 1)

	written := email.msgs[0]
	assert.Equal(t, "jan@example.com", string(written.Key))
	assert.Equal(t, "cust-1", header(written, "customer_id"))
	assert.Equal(t, "EMAIL", header(written, "channel"))
	assert.Equal(t, "ALERT_BALANCE_ABOVE_THRESHOLD", header(written, "message_type"))
	assert.NotEmpty(t, header(written, "message_id"))

	var decoded models.OutboundMessage
	require.NoError(t, json.Unmarshal(written.Value, &decoded))
	assert.Equal(t, msg, decoded)

	require.NoError(t, p.Close())
	assert.True(t, email.closed)
	assert.True(t, sms.closed)
	assert.True(t, push.closed)
}

func TestPublisher_Errors(t *testing.T) {
	p := newPublisher(map[models.ChannelKind]messageWriter{
		models.ChannelEmail: &fakeWriter{err: errors.New("leader not available")},
	})
	ctx := context.Background()

	err := p.Publish(ctx, "cust-1", models.AddressedMessage{Address: models.EmailAddress("a@example.com")})
	assert.EqualError(t, err, "leader not available")

	err = p.Publish(ctx, "cust-1", models.AddressedMessage{Address: models.PhoneNumber("+31600000000")})
	assert.ErrorContains(t, err, "no topic for channel")
}
