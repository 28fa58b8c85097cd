package services

import (
	"path/filepath"
	"testing"

	"gallery-backend/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const testSchema = `
create table users (
    id text primary key,
    username text not null unique,
    password_hash text not null,
    created_at timestamp not null default current_timestamp
);

create table images (
    id integer primary key autoincrement,
    filename text not null unique,
    owner_id text not null references users (id),
    created_at timestamp not null default current_timestamp
);
`

// newTestDB opens a throwaway sqlite database with the same shape as the
// postgres schema in internal/database/migrations.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return &database.DB{DB: db}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return mr, rdb
}
