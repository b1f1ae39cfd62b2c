package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/marketplace-next/internal/config"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Event 领域事件
type Event struct {
	EventID    string      `json:"event_id"`
	EventType  string      `json:"event_type"`
	Key        string      `json:"-"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NewEvent 创建事件，key 决定分区（同一订单事件保持有序）
func NewEvent(eventType, key string, payload interface{}) Event {
	return Event{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		Key:        key,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
}

// OrderKey 订单事件分区键
func OrderKey(orderID uint) string {
	return fmt.Sprintf("order-%d", orderID)
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// messageWriter 抽象 kafka.Writer，便于测试
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 基于 kafka-go 的发布者
type KafkaPublisher struct {
	writer messageWriter
}

// NewPublisher 根据配置创建发布者，未启用时返回空实现
func NewPublisher(cfg *config.KafkaConfig) Publisher {
	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 || strings.TrimSpace(cfg.Topic) == "" {
		return NopPublisher{}
	}
	timeout := time.Duration(cfg.WriteTimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        strings.TrimSpace(cfg.Topic),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: timeout,
		ReadTimeout:  timeout,
	}
	return &KafkaPublisher{writer: writer}
}

// Publish 发布事件
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.Key),
		Value: body,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

// Close 关闭发布者
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// NopPublisher 未启用事件投递时的空实现
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close 无操作
func (NopPublisher) Close() error { return nil }
