package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubService struct {
	name     string
	startErr error
	mu       sync.Mutex
	stopped  bool
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *stubService) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *stubService) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	boom := errors.New("listen failed")
	failing := &stubService{name: "http", startErr: boom}
	healthy := &stubService{name: "worker"}
	runner := NewRunner(failing, healthy)

	var order []string
	runner.OnStop(func() { order = append(order, "first") })
	runner.OnStop(func() { order = append(order, "second") })

	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}
	if !failing.isStopped() || !healthy.isStopped() {
		t.Fatalf("all services should be stopped")
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Fatalf("cleanups should run in reverse order, got %v", order)
	}
}

func TestRunnerCancelledContextIsCleanExit(t *testing.T) {
	svc := &stubService{name: "worker"}
	runner := NewRunner(svc)
	cleaned := false
	runner.OnStop(func() { cleaned = true })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancel should exit cleanly, got %v", err)
	}
	if !svc.isStopped() || !cleaned {
		t.Fatalf("service should stop and cleanup should run")
	}
}

func TestBuildRunnerRequiresConfig(t *testing.T) {
	if _, err := BuildRunner(nil, ModeAll); err == nil {
		t.Fatalf("nil config should fail")
	}
	if err := Run(Options{}); err == nil {
		t.Fatalf("run without config should fail")
	}
}
