package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chlomaki1/project-loved/pkg/logger"
)

// DefaultSessionCleanupSchedule runs the cleanup every fifteen minutes.
const DefaultSessionCleanupSchedule = "0 */15 * * * *"

// SessionStore removes expired sessions.
type SessionStore interface {
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// SessionCleanupTask deletes sessions whose expiry has passed.
type SessionCleanupTask struct {
	store    SessionStore
	schedule string
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionCleanupTask creates the task. An empty schedule selects DefaultSessionCleanupSchedule.
func NewSessionCleanupTask(store SessionStore, schedule string, log *slog.Logger) *SessionCleanupTask {
	if schedule == "" {
		schedule = DefaultSessionCleanupSchedule
	}
	if log == nil {
		log = slog.Default()
	}
	return &SessionCleanupTask{
		store:    store,
		schedule: schedule,
		logger:   log.With(logger.Component("session_cleanup")),
		now:      time.Now,
	}
}

func (t *SessionCleanupTask) Name() string {
	return "session_cleanup"
}

func (t *SessionCleanupTask) Schedule() string {
	return t.schedule
}

func (t *SessionCleanupTask) Execute(ctx context.Context) error {
	deleted, err := t.store.DeleteExpiredSessions(ctx, t.now().UTC())
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}

	if deleted > 0 {
		t.logger.InfoContext(ctx, "expired sessions removed", slog.Int64("deleted", deleted))
	}
	return nil
}
