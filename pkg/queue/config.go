package queue

import "time"

// Config holds the env-driven tunables for the handler registry and task manager.
type Config struct {
	PopTimeout        time.Duration `env:"QUEUE_POP_TIMEOUT" envDefault:"5s"`
	HandlerTimeout    time.Duration `env:"QUEUE_HANDLER_TIMEOUT" envDefault:"0s"`
	RetryBaseInterval time.Duration `env:"QUEUE_RETRY_BASE_INTERVAL" envDefault:"100ms"`
	RetryMaxInterval  time.Duration `env:"QUEUE_RETRY_MAX_INTERVAL" envDefault:"30s"`
	MaxRetrievalRetry uint64        `env:"QUEUE_MAX_RETRIEVAL_RETRY" envDefault:"10"`
	TaskTimeout       time.Duration `env:"SCHEDULER_TASK_TIMEOUT" envDefault:"0s"`
	AllowOverlap      bool          `env:"SCHEDULER_ALLOW_OVERLAP" envDefault:"false"`
	ShutdownTimeout   time.Duration `env:"SCHEDULER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	Timezone          string        `env:"SCHEDULER_TIMEZONE" envDefault:"UTC"`
}

// RegistryOptions converts the config into handler registry options.
func (c Config) RegistryOptions() []RegistryOption {
	return []RegistryOption{
		WithPopTimeout(c.PopTimeout),
		WithHandlerTimeout(c.HandlerTimeout),
		WithRetrievalBackoff(c.RetryBaseInterval, c.RetryMaxInterval, c.MaxRetrievalRetry),
	}
}

// TaskManagerOptions converts the config into task manager options.
// An unknown timezone falls back to UTC.
func (c Config) TaskManagerOptions() []TaskManagerOption {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return []TaskManagerOption{
		WithTaskTimeout(c.TaskTimeout),
		WithOverlap(c.AllowOverlap),
		WithShutdownTimeout(c.ShutdownTimeout),
		WithLocation(loc),
	}
}
