package queue

import (
	"log/slog"
	"time"
)

// TaskManagerOption is a functional option for configuring a task manager
type TaskManagerOption func(*taskManagerOptions)

type taskManagerOptions struct {
	location        *time.Location
	taskTimeout     time.Duration
	shutdownTimeout time.Duration
	allowOverlap    bool
	logger          *slog.Logger
}

// WithLocation sets the time zone cron expressions are evaluated in
func WithLocation(loc *time.Location) TaskManagerOption {
	return func(o *taskManagerOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithTaskTimeout bounds every task execution. Zero means no deadline.
func WithTaskTimeout(d time.Duration) TaskManagerOption {
	return func(o *taskManagerOptions) {
		if d >= 0 {
			o.taskTimeout = d
		}
	}
}

// WithShutdownTimeout sets how long Start waits for running firings after cancellation
func WithShutdownTimeout(d time.Duration) TaskManagerOption {
	return func(o *taskManagerOptions) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithOverlap allows a task to fire while its previous run is still in progress.
// By default such firings are skipped.
func WithOverlap(allow bool) TaskManagerOption {
	return func(o *taskManagerOptions) {
		o.allowOverlap = allow
	}
}

// WithTaskManagerLogger sets the logger for the task manager
func WithTaskManagerLogger(logger *slog.Logger) TaskManagerOption {
	return func(o *taskManagerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
