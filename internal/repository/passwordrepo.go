// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/vrushal09/passnext/internal/model"
)

// PasswordRepository provides owner-scoped CRUD access to password records.
// Secret and Notes are stored in their encrypted wire form; encryption and
// decryption happen in the vault service, not here.
type PasswordRepository interface {
	// Create inserts a new record.
	Create(ctx context.Context, rec *model.PasswordRecord) error

	// GetByID loads one record scoped to its owner.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*model.PasswordRecord, error)

	// ListByOwner returns all records for an owner ordered by creation time descending.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.PasswordRecord, error)

	// Update mutates service/account/secret/notes/expiry and refreshes updated_at.
	// ID, owner, and created_at never change.
	Update(ctx context.Context, rec *model.PasswordRecord) error

	// Delete removes a record. No soft-delete or versioning.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// SentLogRepository tracks scheduled notifications so that re-raising the
// same alert within the cooldown window is suppressed by the caller.
type SentLogRepository interface {
	// WasSentSince reports whether an alert of this type for this record was
	// logged after the given time.
	WasSentSince(ctx context.Context, ownerID uuid.UUID, alertType model.AlertType, passwordID uuid.UUID, since time.Time) (bool, error)

	// MarkSent records a scheduled alert at the given time.
	MarkSent(ctx context.Context, ownerID uuid.UUID, alertType model.AlertType, passwordID uuid.UUID, at time.Time) error
}
