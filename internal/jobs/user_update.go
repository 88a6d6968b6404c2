package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chlomaki1/project-loved/pkg/logger"
	"github.com/chlomaki1/project-loved/pkg/queue"
	"github.com/chlomaki1/project-loved/pkg/validator"
)

// UserUpdateQueue is the Redis list user refreshes are pushed to.
const UserUpdateQueue = "loved:queues:user_update"

// UserUpdate is the message body of UserUpdateQueue.
type UserUpdate struct {
	UserID   int32  `json:"user_id"`
	Username string `json:"username"`
	Country  string `json:"country"`
	Banned   bool   `json:"banned"`
}

// Validate reports every malformed field of u.
func (u UserUpdate) Validate() error {
	return validator.Apply(
		validator.MinNum("user_id", u.UserID, 1),
		validator.RequiredString("username", u.Username),
		validator.MaxLenString("username", u.Username, 32),
		validator.CountryCode("country", u.Country),
	)
}

// UserStore persists user refreshes.
type UserStore interface {
	UpsertUser(ctx context.Context, u UserUpdate) error
}

// NewUserUpdateHandler returns the handler for UserUpdateQueue.
// Malformed and invalid payloads are rejected before reaching the store.
func NewUserUpdateHandler(store UserStore, log *slog.Logger) queue.Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &userUpdater{
		store:  store,
		logger: log.With(logger.Component("user_update")),
	}
	return queue.NewJSONHandler(UserUpdateQueue, h.apply)
}

type userUpdater struct {
	store  UserStore
	logger *slog.Logger
}

func (h *userUpdater) apply(ctx context.Context, u UserUpdate) error {
	u.Username = strings.TrimSpace(u.Username)
	u.Country = strings.ToUpper(strings.TrimSpace(u.Country))

	if err := u.Validate(); err != nil {
		return err
	}

	if err := h.store.UpsertUser(ctx, u); err != nil {
		return fmt.Errorf("upsert user %d: %w", u.UserID, err)
	}

	h.logger.DebugContext(ctx, "user updated",
		slog.Int("user_id", int(u.UserID)),
		slog.String("username", u.Username))
	return nil
}
