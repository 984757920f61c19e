package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpenMigratedIsRepeatable(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "photopicker.db")

	db, err := OpenMigrated(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenMigrated(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('consents','consent_events')").Scan(&n))
	require.Equal(t, 2, n)
}

func TestRunMigrationsKeepsHandleOpen(t *testing.T) {
	t.Parallel()
	db, err := Open(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))
	require.NoError(t, db.Ping())
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	db, err := OpenMigrated(filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	boom := context.Canceled
	err = WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO consents(id, scope, status) VALUES ('1','s','denied')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM consents`).Scan(&n))
	require.Zero(t, n)
}

func TestWithTxCommits(t *testing.T) {
	t.Parallel()
	db, err := OpenMigrated(filepath.Join(t.TempDir(), "commit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO consents(id, scope, status, created_at, updated_at) VALUES ('1','s','limited',?,?)`, Now(), Now())
		return err
	}))

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM consents WHERE scope = 's'`).Scan(&status))
	require.Equal(t, "limited", status)
}

func TestNowIsUTCSeconds(t *testing.T) {
	t.Parallel()
	now := Now()
	require.Equal(t, time.UTC, now.Location())
	require.Zero(t, now.Nanosecond())
}
