package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/possync/internal/domain"
)

// Task is one periodic unit of work.
type Task struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// Scheduler triggers every task on its own interval. Tasks are not
// coordinated with each other, and a slow run does not delay the next
// trigger of the same task, so runs may overlap.
type Scheduler struct {
	cron  *cron.Cron
	ctx   context.Context
	stop  context.CancelFunc
	tasks []Task

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cronLogger{l: log.With().Str("component", "scheduler").Logger()})),
		ctx:  ctx,
		stop: cancel,
	}
}

func (s *Scheduler) Add(t Task) error {
	if t.Every <= 0 {
		return fmt.Errorf("task %s: interval must be positive", t.Name)
	}
	if t.Run == nil {
		return fmt.Errorf("task %s: nil run func", t.Name)
	}
	s.cron.Schedule(cron.Every(t.Every), cron.FuncJob(func() { s.run(t) }))
	s.tasks = append(s.tasks, t)
	return nil
}

// Trigger runs a registered task now, outside its schedule.
func (s *Scheduler) Trigger(name string) error {
	for _, t := range s.tasks {
		if t.Name == name {
			go s.run(t)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown task %q", domain.ErrNotFound, name)
}

func (s *Scheduler) run(t Task) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("task", t.Name).Msg("task panicked")
		}
	}()
	start := time.Now()
	if err := t.Run(s.ctx); err != nil {
		log.Error().Err(err).Str("task", t.Name).Dur("took", time.Since(start)).Msg("task failed")
		return
	}
	log.Debug().Str("task", t.Name).Dur("took", time.Since(start)).Msg("task done")
}

// Start begins triggering; runNow additionally fires every task once.
func (s *Scheduler) Start(runNow bool) {
	s.cron.Start()
	if runNow {
		for _, t := range s.tasks {
			go s.run(t)
		}
	}
	log.Info().Int("tasks", len(s.tasks)).Msg("scheduler started")
}

// Stop prevents new runs, cancels the context of running ones and waits for
// them to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	cronDone := s.cron.Stop()
	s.stop()
	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cronLogger struct{ l zerolog.Logger }

func (c cronLogger) Info(msg string, kv ...interface{}) { c.l.Debug().Fields(kv).Msg(msg) }

func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.l.Error().Err(err).Fields(kv).Msg(msg)
}
