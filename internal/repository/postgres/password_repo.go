package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/vrushal09/passnext/internal/errs"
	"github.com/vrushal09/passnext/internal/model"
)

// PasswordRepo implements PasswordRepository using PostgreSQL.
type PasswordRepo struct{ db *DB }

// NewPasswordRepo constructs a password repository.
func NewPasswordRepo(db *DB) *PasswordRepo { return &PasswordRepo{db: db} }

// Create inserts a new record. created_at and updated_at come from the caller
// so that the invariant created_at <= updated_at is decided in one place.
func (r *PasswordRepo) Create(ctx context.Context, rec *model.PasswordRecord) error {
	const q = `
INSERT INTO passwords (id, owner_id, service, account, secret, notes, created_at, updated_at, expiry_date)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.db.Pool.Exec(ctx, q,
		rec.ID, rec.OwnerID, rec.Service, rec.Account, rec.Secret, rec.Notes,
		rec.CreatedAt, rec.UpdatedAt, rec.ExpiryDate)
	return err
}

// GetByID returns a single record scoped to its owner.
func (r *PasswordRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*model.PasswordRecord, error) {
	const q = `
SELECT id, owner_id, service, account, secret, notes, created_at, updated_at, expiry_date
FROM passwords WHERE owner_id=$1 AND id=$2`
	row := r.db.Pool.QueryRow(ctx, q, ownerID, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ListByOwner returns the owner's records newest-first.
func (r *PasswordRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.PasswordRecord, error) {
	const q = `
SELECT id, owner_id, service, account, secret, notes, created_at, updated_at, expiry_date
FROM passwords
WHERE owner_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PasswordRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Update mutates the mutable fields and refreshes updated_at. id/owner/created_at
// are never touched.
func (r *PasswordRepo) Update(ctx context.Context, rec *model.PasswordRecord) error {
	const q = `
UPDATE passwords
SET service=$3, account=$4, secret=$5, notes=$6, updated_at=$7, expiry_date=$8
WHERE owner_id=$1 AND id=$2`
	tag, err := r.db.Pool.Exec(ctx, q,
		rec.OwnerID, rec.ID, rec.Service, rec.Account, rec.Secret, rec.Notes,
		rec.UpdatedAt, rec.ExpiryDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the record outright.
func (r *PasswordRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `DELETE FROM passwords WHERE owner_id=$1 AND id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.PasswordRecord, error) {
	var (
		rec    model.PasswordRecord
		expiry *time.Time
	)
	if err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Service, &rec.Account,
		&rec.Secret, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt, &expiry); err != nil {
		return nil, err
	}
	rec.ExpiryDate = expiry
	return &rec, nil
}
