package worker

import (
	"context"
	"time"

	"github.com/marketplace-next/internal/cache"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/metrics"
)

const defaultScheduleInterval = time.Hour

// Job 周期任务
type Job struct {
	Name string
	// Exclusive 为 true 时需持有分布式锁才执行
	Exclusive bool
	Run       func(ctx context.Context, now time.Time) error
}

// Scheduler 周期任务调度器
type Scheduler struct {
	jobs     []Job
	lock     cache.Lock
	interval time.Duration
	now      func() time.Time
}

// NewScheduler 创建调度器，lock 为空时互斥任务在本实例内直接执行
func NewScheduler(interval time.Duration, lock cache.Lock, jobs ...Job) *Scheduler {
	if interval <= 0 {
		interval = defaultScheduleInterval
	}
	return &Scheduler{
		jobs:     jobs,
		lock:     lock,
		interval: interval,
		now:      time.Now,
	}
}

// Run 立即执行一轮，之后按间隔执行，直到 ctx 结束
func (s *Scheduler) Run(ctx context.Context) {
	if s == nil || len(s.jobs) == 0 {
		return
	}
	s.RunCycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// RunCycle 执行一轮全部任务
func (s *Scheduler) RunCycle(ctx context.Context) {
	now := s.now()
	for _, job := range s.jobs {
		if ctx.Err() != nil {
			return
		}
		if job.Exclusive {
			s.runExclusive(ctx, job, now)
			continue
		}
		s.runJob(ctx, job, now)
	}
}

func (s *Scheduler) runExclusive(ctx context.Context, job Job, now time.Time) {
	if s.lock == nil {
		s.runJob(ctx, job, now)
		return
	}
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		logger.Warnw("worker_job_lock_acquire_failed", "job", job.Name, "error", err)
		return
	}
	if !locked {
		logger.Debugw("worker_job_skip_locked", "job", job.Name)
		return
	}
	defer func() {
		if err := s.lock.Release(ctx); err != nil {
			logger.Warnw("worker_job_lock_release_failed", "job", job.Name, "error", err)
		}
	}()
	s.runJob(ctx, job, now)
}

func (s *Scheduler) runJob(ctx context.Context, job Job, now time.Time) {
	started := time.Now()
	err := job.Run(ctx, now)
	metrics.ObserveJob(job.Name, started, err)
	if err != nil {
		logger.Warnw("worker_job_failed",
			"job", job.Name,
			"duration_ms", time.Since(started).Milliseconds(),
			"error", err,
		)
		return
	}
	logger.Debugw("worker_job_completed",
		"job", job.Name,
		"duration_ms", time.Since(started).Milliseconds(),
	)
}
