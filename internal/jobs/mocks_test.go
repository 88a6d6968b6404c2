package jobs_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/chlomaki1/project-loved/internal/jobs"
)

// MockUserStore is a mock implementation of jobs.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) UpsertUser(ctx context.Context, u jobs.UserUpdate) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// MockSessionStore is a mock implementation of jobs.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockDB is a mock implementation of jobs.DBTX.
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	called := m.Called(ctx, sql, args)
	return called.Get(0).(pgconn.CommandTag), called.Error(1)
}
