package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// Handler consumes messages from exactly one named queue.
	Handler interface {
		QueueName() string
		HandleMessage(ctx context.Context, message string) error
	}

	// Task is a unit of work fired by the TaskManager whenever its cron expression matches.
	Task interface {
		Schedule() string
		Execute(ctx context.Context) error
	}

	// Named lets a Task pick its own label for logs and listings.
	// Tasks that don't implement it are labelled with their Go type name.
	Named interface {
		Name() string
	}

	HandlerFunc            func(ctx context.Context, message string) error
	JSONHandlerFunc[T any] func(ctx context.Context, payload T) error
	TaskFunc               func(ctx context.Context) error
)

// NewHandler binds a plain function to a queue name.
func NewHandler(queue string, fn HandlerFunc) Handler {
	return &funcHandler{queue: queue, fn: fn}
}

// NewJSONHandler binds a function to a queue name and decodes every message as JSON into T
// before calling it. Malformed messages fail without reaching fn.
func NewJSONHandler[T any](queue string, fn JSONHandlerFunc[T]) Handler {
	return &jsonHandler[T]{queue: queue, fn: fn}
}

// NewTask binds a function to a cron expression under the given name.
func NewTask(name, schedule string, fn TaskFunc) Task {
	return &funcTask{name: name, schedule: schedule, fn: fn}
}

type funcHandler struct {
	queue string
	fn    HandlerFunc
}

func (h *funcHandler) QueueName() string {
	return h.queue
}

func (h *funcHandler) HandleMessage(ctx context.Context, message string) error {
	return h.fn(ctx, message)
}

type jsonHandler[T any] struct {
	queue string
	fn    JSONHandlerFunc[T]
}

func (h *jsonHandler[T]) QueueName() string {
	return h.queue
}

func (h *jsonHandler[T]) HandleMessage(ctx context.Context, message string) error {
	var payload T
	if err := json.Unmarshal([]byte(message), &payload); err != nil {
		return err
	}
	return h.fn(ctx, payload)
}

type funcTask struct {
	name     string
	schedule string
	fn       TaskFunc
}

func (t *funcTask) Name() string {
	return t.name
}

func (t *funcTask) Schedule() string {
	return t.schedule
}

func (t *funcTask) Execute(ctx context.Context) error {
	return t.fn(ctx)
}

// taskName returns the label used for a task in logs and listings.
func taskName(t Task) string {
	if n, ok := t.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return qualifiedStructName(t)
}

// qualifiedStructName returns the package-qualified type name of v without pointer markers
func qualifiedStructName(v any) string {
	return strings.TrimLeft(fmt.Sprintf("%T", v), "*")
}
