package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/vrushal09/passnext/internal/model"
)

// SentLogRepo implements SentLogRepository using PostgreSQL. One row per
// (owner, alert type, record); re-sends overwrite sent_at.
type SentLogRepo struct{ db *DB }

// NewSentLogRepo constructs a notification sent-log repository.
func NewSentLogRepo(db *DB) *SentLogRepo { return &SentLogRepo{db: db} }

// WasSentSince reports whether this alert was logged after the given time.
func (r *SentLogRepo) WasSentSince(ctx context.Context, ownerID uuid.UUID, alertType model.AlertType, passwordID uuid.UUID, since time.Time) (bool, error) {
	const q = `
SELECT sent_at FROM notification_log
WHERE owner_id=$1 AND alert_type=$2 AND password_id=$3`
	var sentAt time.Time
	err := r.db.Pool.QueryRow(ctx, q, ownerID, string(alertType), passwordID).Scan(&sentAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return sentAt.After(since), nil
}

// MarkSent records a scheduled alert, overwriting any previous timestamp.
func (r *SentLogRepo) MarkSent(ctx context.Context, ownerID uuid.UUID, alertType model.AlertType, passwordID uuid.UUID, at time.Time) error {
	const q = `
INSERT INTO notification_log (owner_id, alert_type, password_id, sent_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (owner_id, alert_type, password_id) DO UPDATE SET sent_at=EXCLUDED.sent_at`
	_, err := r.db.Pool.Exec(ctx, q, ownerID, string(alertType), passwordID, at)
	return err
}
