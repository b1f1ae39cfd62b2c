package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/marketplace-next/internal/config"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestNewPublisherDisabledReturnsNop(t *testing.T) {
	if _, ok := NewPublisher(&config.KafkaConfig{Enabled: false}).(NopPublisher); !ok {
		t.Fatalf("disabled kafka should produce NopPublisher")
	}
	if _, ok := NewPublisher(nil).(NopPublisher); !ok {
		t.Fatalf("nil config should produce NopPublisher")
	}
}

func TestKafkaPublisherWritesKeyedMessage(t *testing.T) {
	writer := &fakeWriter{}
	publisher := &KafkaPublisher{writer: writer}
	event := NewEvent("order.created", OrderKey(42), map[string]interface{}{"order_id": 42})

	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(writer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(writer.messages))
	}
	msg := writer.messages[0]
	if string(msg.Key) != "order-42" {
		t.Fatalf("unexpected key: %s", msg.Key)
	}
	var decoded Event
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode message failed: %v", err)
	}
	if decoded.EventType != "order.created" || decoded.EventID == "" {
		t.Fatalf("unexpected decoded event: %+v", decoded)
	}
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	publisher := &KafkaPublisher{writer: &fakeWriter{err: boom}}
	err := publisher.Publish(context.Background(), NewEvent("order.created", "k", nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}
