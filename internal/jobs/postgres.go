package jobs

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool used by Postgres.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres implements UserStore and SessionStore.
type Postgres struct {
	db DBTX
}

func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// timestamps are stored as UTC wall clock in timestamp columns
const upsertUserSQL = `
INSERT INTO users (id, username, country, banned, api_fetched_at)
VALUES ($1, $2, $3, $4, now() AT TIME ZONE 'utc')
ON CONFLICT (id) DO UPDATE SET
	username = EXCLUDED.username,
	country = EXCLUDED.country,
	banned = EXCLUDED.banned,
	api_fetched_at = EXCLUDED.api_fetched_at`

const deleteExpiredSessionsSQL = `DELETE FROM sessions WHERE expires_at < $1`

func (p *Postgres) UpsertUser(ctx context.Context, u UserUpdate) error {
	_, err := p.db.Exec(ctx, upsertUserSQL, u.UserID, u.Username, u.Country, u.Banned)
	return err
}

func (p *Postgres) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := p.db.Exec(ctx, deleteExpiredSessionsSQL, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
