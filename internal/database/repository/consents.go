package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/photopicker/internal/database"
)

// ConsentRepo handles authorization decisions.
type ConsentRepo struct {
	db *sql.DB
}

func NewConsentRepo(db *sql.DB) *ConsentRepo { return &ConsentRepo{db: db} }

// Get returns the decision for scope, or nil when none was ever stored.
func (r *ConsentRepo) Get(ctx context.Context, scope string) (*Consent, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, scope, status, created_at, updated_at FROM consents WHERE scope = ?`, scope)
	var c Consent
	if err := row.Scan(&c.ID, &c.Scope, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Set stores status for scope and appends it to the scope's history, both
// in one transaction.
func (r *ConsentRepo) Set(ctx context.Context, scope, status string) error {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("consent:"+scope)).String()
	now := database.Now()
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
	INSERT INTO consents(id, scope, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(scope) DO UPDATE SET
	 status=excluded.status,
	 updated_at=excluded.updated_at;
	`, id, scope, status, now, now); err != nil {
			return fmt.Errorf("upsert consent: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
	INSERT INTO consent_events(id, scope, status, created_at) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), scope, status, now); err != nil {
			return fmt.Errorf("record consent event: %w", err)
		}
		return nil
	})
}

// Delete forgets the decision for scope. History is kept.
func (r *ConsentRepo) Delete(ctx context.Context, scope string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM consents WHERE scope = ?`, scope)
	return err
}

// History lists every decision stored for scope, oldest first.
func (r *ConsentRepo) History(ctx context.Context, scope string) ([]ConsentEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, scope, status, created_at FROM consent_events
	WHERE scope = ? ORDER BY created_at, rowid`, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ConsentEvent
	for rows.Next() {
		var e ConsentEvent
		if err := rows.Scan(&e.ID, &e.Scope, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
