package jobs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chlomaki1/project-loved/internal/jobs"
	"github.com/chlomaki1/project-loved/pkg/logger"
	"github.com/chlomaki1/project-loved/pkg/validator"
)

func TestUserUpdateHandler_QueueName(t *testing.T) {
	t.Parallel()

	h := jobs.NewUserUpdateHandler(&MockUserStore{}, logger.Discard())
	assert.Equal(t, "loved:queues:user_update", h.QueueName())
}

func TestUserUpdateHandler_HandleMessage(t *testing.T) {
	t.Parallel()

	t.Run("valid update is upserted", func(t *testing.T) {
		t.Parallel()

		store := &MockUserStore{}
		store.On("UpsertUser", mock.Anything, jobs.UserUpdate{
			UserID:   3,
			Username: "RandomJo",
			Country:  "NL",
		}).Return(nil)

		h := jobs.NewUserUpdateHandler(store, logger.Discard())
		err := h.HandleMessage(context.Background(), `{"user_id":3,"username":" RandomJo ","country":"nl","banned":false}`)
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()

		store := &MockUserStore{}
		h := jobs.NewUserUpdateHandler(store, logger.Discard())

		assert.Error(t, h.HandleMessage(context.Background(), `user 3 changed`))
		store.AssertNotCalled(t, "UpsertUser", mock.Anything, mock.Anything)
	})

	t.Run("invalid payload", func(t *testing.T) {
		t.Parallel()

		store := &MockUserStore{}
		h := jobs.NewUserUpdateHandler(store, logger.Discard())

		err := h.HandleMessage(context.Background(), `{"user_id":0,"username":"","country":"Netherlands"}`)
		require.True(t, validator.IsValidationError(err))
		assert.Equal(t, []string{"user_id", "username", "country"}, validator.ExtractValidationErrors(err).Fields())
		store.AssertNotCalled(t, "UpsertUser", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("connection reset")
		store := &MockUserStore{}
		store.On("UpsertUser", mock.Anything, mock.Anything).Return(dbErr)

		h := jobs.NewUserUpdateHandler(store, logger.Discard())
		err := h.HandleMessage(context.Background(), `{"user_id":7,"username":"Banned","country":"US","banned":true}`)
		require.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "upsert user 7")
		store.AssertExpectations(t)
	})
}
