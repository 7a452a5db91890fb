package animation

import "time"

// Scheduler drives at most one timed job. Starting a job while another is
// running replaces it; a replaced or cancelled job never completes.
type Scheduler interface {
	Start(d time.Duration, onTick func(progress float64), onComplete func())
	Cancel()
}

type frameJob struct {
	duration   time.Duration
	started    time.Time
	onTick     func(float64)
	onComplete func()
}

// FrameScheduler is advanced by the host's per-frame callback. The first
// Advance after Start fixes the job's start time.
type FrameScheduler struct {
	job *frameJob
}

func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

func (s *FrameScheduler) Start(d time.Duration, onTick func(float64), onComplete func()) {
	s.job = &frameJob{duration: d, onTick: onTick, onComplete: onComplete}
}

func (s *FrameScheduler) Cancel() {
	s.job = nil
}

// Active reports whether a job is scheduled.
func (s *FrameScheduler) Active() bool {
	return s.job != nil
}

// Advance ticks the running job at time now and completes it once its
// duration has elapsed.
func (s *FrameScheduler) Advance(now time.Time) {
	job := s.job
	if job == nil {
		return
	}
	if job.started.IsZero() {
		job.started = now
	}

	progress := 1.0
	if job.duration > 0 {
		progress = min(1, float64(now.Sub(job.started))/float64(job.duration))
	}
	if job.onTick != nil {
		job.onTick(progress)
	}
	if progress < 1 {
		return
	}

	// A tick callback may have started a new job.
	if s.job == job {
		s.job = nil
	}
	if job.onComplete != nil {
		job.onComplete()
	}
}

// ImmediateScheduler finishes every job synchronously inside Start.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Start(_ time.Duration, onTick func(float64), onComplete func()) {
	if onTick != nil {
		onTick(1)
	}
	if onComplete != nil {
		onComplete()
	}
}

func (ImmediateScheduler) Cancel() {}
