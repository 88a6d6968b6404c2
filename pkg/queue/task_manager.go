package queue

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chlomaki1/project-loved/pkg/logger"
)

// TaskManager runs registered tasks on their cron schedules.
// Every firing runs in its own goroutine, so a slow task never delays the others.
type TaskManager struct {
	mu      sync.Mutex
	tasks   []*registeredTask
	started bool
	cron    *cron.Cron

	// Configuration
	location        *time.Location
	taskTimeout     time.Duration
	shutdownTimeout time.Duration
	allowOverlap    bool
	logger          *slog.Logger
}

type registeredTask struct {
	name     string
	schedule string
	parsed   cron.Schedule
	task     Task
	entryID  cron.EntryID
	running  atomic.Bool
}

// ScheduledEntry describes a registered task and when it fires next.
// Next is the zero time for a schedule that never matches.
type ScheduledEntry struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	Next     time.Time `json:"next"`
	Prev     time.Time `json:"prev,omitzero"`
}

// NewTaskManager creates an empty task manager
func NewTaskManager(opts ...TaskManagerOption) *TaskManager {
	options := &taskManagerOptions{
		location:        time.UTC,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(options)
	}

	return &TaskManager{
		location:        options.location,
		taskTimeout:     options.taskTimeout,
		shutdownTimeout: options.shutdownTimeout,
		allowOverlap:    options.allowOverlap,
		logger:          options.logger,
	}
}

// Register adds a task. The schedule is validated immediately.
func (m *TaskManager) Register(task Task) error {
	if task == nil {
		return nil
	}

	expr := task.Schedule()
	parsed, err := ParseSchedule(expr)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrManagerStarted
	}

	name := taskName(task)
	m.tasks = append(m.tasks, &registeredTask{
		name:     name,
		schedule: expr,
		parsed:   parsed,
		task:     task,
	})

	m.logger.Info("registered scheduled task",
		logger.Task(name),
		logger.Schedule(expr))

	return nil
}

// RegisterTasks registers multiple tasks in order
func (m *TaskManager) RegisterTasks(tasks ...Task) error {
	for _, t := range tasks {
		if err := m.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Start runs the scheduler and blocks until ctx is cancelled. The manager is consumed:
// further calls to Register or Start fail with ErrManagerStarted.
// On shutdown it waits up to the shutdown timeout for running firings to return.
func (m *TaskManager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrManagerStarted
	}
	if len(m.tasks) == 0 {
		m.mu.Unlock()
		return ErrNoTasks
	}

	c := cron.New(
		cron.WithParser(cronParser),
		cron.WithLocation(m.location),
		cron.WithLogger(cronLogger{m.logger}),
	)
	for _, t := range m.tasks {
		t.entryID = c.Schedule(t.parsed, m.job(ctx, t))
	}
	m.cron = c
	m.started = true
	m.mu.Unlock()

	c.Start()
	m.logger.InfoContext(ctx, "task scheduler started",
		slog.Int("tasks", len(m.tasks)),
		slog.String("location", m.location.String()))

	<-ctx.Done()
	m.logger.InfoContext(ctx, "task scheduler shutting down")

	done := c.Stop()
	timer := time.NewTimer(m.shutdownTimeout)
	defer timer.Stop()

	select {
	case <-done.Done():
		m.logger.InfoContext(ctx, "task scheduler stopped")
	case <-timer.C:
		m.logger.WarnContext(ctx, "task scheduler stopped with firings still running",
			slog.Duration("shutdown_timeout", m.shutdownTimeout))
	}

	return nil
}

// Run returns a function suitable for errgroup
func (m *TaskManager) Run(ctx context.Context) func() error {
	return func() error {
		return m.Start(ctx)
	}
}

// Entries lists registered tasks in registration order with their next fire time.
func (m *TaskManager) Entries() []ScheduledEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().In(m.location)
	entries := make([]ScheduledEntry, 0, len(m.tasks))
	for _, t := range m.tasks {
		e := ScheduledEntry{
			Name:     t.name,
			Schedule: t.schedule,
			Next:     t.parsed.Next(now),
		}
		if m.cron != nil {
			ce := m.cron.Entry(t.entryID)
			if ce.Valid() {
				e.Next, e.Prev = ce.Next, ce.Prev
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// Names returns registered task names sorted alphabetically
func (m *TaskManager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.tasks))
	for _, t := range m.tasks {
		names = append(names, t.name)
	}
	slices.Sort(names)
	return names
}

// job builds the cron body for a task. Failures and panics are logged and never
// unschedule the task.
func (m *TaskManager) job(ctx context.Context, t *registeredTask) cron.FuncJob {
	log := m.logger.With(logger.Task(t.name), logger.Schedule(t.schedule))

	return func() {
		if !m.allowOverlap {
			if !t.running.CompareAndSwap(false, true) {
				log.WarnContext(ctx, "skipping scheduled run, previous run still in progress")
				return
			}
			defer t.running.Store(false)
		}

		start := time.Now()
		if err := m.execute(ctx, t.task); err != nil {
			log.ErrorContext(ctx, "scheduled task failed",
				logger.Duration(time.Since(start)),
				logger.Error(err))
			return
		}

		log.InfoContext(ctx, "scheduled task completed", logger.Duration(time.Since(start)))
	}
}

func (m *TaskManager) execute(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	if m.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.taskTimeout)
		defer cancel()
	}

	return task.Execute(ctx)
}

// cronLogger routes the cron library's own diagnostics into slog.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, logger.Error(err))...)
}
