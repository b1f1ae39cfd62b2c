package queue

import (
	"testing"

	"github.com/marketplace-next/internal/config"
)

func TestOrderRevenueRecognizeTaskRoundTrip(t *testing.T) {
	task, err := NewOrderRevenueRecognizeTask(OrderRevenueRecognizePayload{OrderID: 42, Reason: "delivered"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskOrderRevenueRecognize {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseOrderRevenueRecognizePayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.OrderID != 42 || payload.Reason != "delivered" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestNewTaskRejectsZeroOrderID(t *testing.T) {
	if _, err := NewOrderRevenueRecognizeTask(OrderRevenueRecognizePayload{}); err == nil {
		t.Fatalf("expected error for zero order id")
	}
	if _, err := NewOrderExpireCancelTask(OrderExpireCancelPayload{}); err == nil {
		t.Fatalf("expected error for zero order id")
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueOrderRevenueRecognize(OrderRevenueRecognizePayload{OrderID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
	if err := client.EnqueueOrderExpireCancel(OrderExpireCancelPayload{OrderID: 1}, 0); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380})
	if opt.Addr != "redis:6380" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("unexpected concurrency: %d", cfg.Concurrency)
	}
	if cfg.Queues["critical"] == 0 || cfg.Queues["default"] == 0 {
		t.Fatalf("expected critical and default queues: %+v", cfg.Queues)
	}
}
