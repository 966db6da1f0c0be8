// Package backup exports vault snapshots to S3-compatible object storage
// and restores them. Records travel in their encrypted at-rest form; the
// bucket never sees plaintext secrets.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/vrushal09/passnext/internal/model"
	"github.com/vrushal09/passnext/internal/repository"
)

const snapshotVersion = 1

// Config holds object-storage connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Snapshot is the serialized form of one owner's vault.
type Snapshot struct {
	Version   int                    `json:"version"`
	OwnerID   uuid.UUID              `json:"owner_id"`
	CreatedAt time.Time              `json:"created_at"`
	Records   []model.PasswordRecord `json:"records"`
}

// ObjectStore is the subset of the minio client the service needs.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, r *bytes.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

type minioStore struct {
	client *minio.Client
}

func (s *minioStore) PutObject(ctx context.Context, bucket, key string, r *bytes.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return s.client.PutObject(ctx, bucket, key, r, size, opts)
}

func (s *minioStore) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return s.client.GetObject(ctx, bucket, key, opts)
}

// Service exports and restores vault snapshots.
type Service struct {
	store  ObjectStore
	bucket string
	repo   repository.PasswordRepository
	now    func() time.Time
	log    *zap.Logger
}

// New connects to the object store and constructs the service.
func New(cfg Config, repo repository.PasswordRepository, log *zap.Logger) (*Service, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}
	return NewWithStore(&minioStore{client: client}, cfg.Bucket, repo, log), nil
}

// NewWithStore constructs the service over an existing store.
func NewWithStore(store ObjectStore, bucket string, repo repository.PasswordRepository, log *zap.Logger) *Service {
	return &Service{store: store, bucket: bucket, repo: repo, now: time.Now, log: log}
}

func objectKey(ownerID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("vaults/%s/%s.json", ownerID, at.UTC().Format("20060102T150405Z"))
}

// Export snapshots the owner's vault and uploads it, returning the object key.
func (s *Service) Export(ctx context.Context, ownerID uuid.UUID) (string, error) {
	recs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("list vault: %w", err)
	}

	snap := Snapshot{
		Version:   snapshotVersion,
		OwnerID:   ownerID,
		CreatedAt: s.now().UTC(),
		Records:   recs,
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	key := objectKey(ownerID, snap.CreatedAt)
	_, err = s.store.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	s.log.Info("vault exported",
		zap.String("owner", ownerID.String()),
		zap.String("key", key),
		zap.Int("records", len(recs)),
	)
	return key, nil
}

// Restore downloads a snapshot and re-creates its records. Records whose
// IDs already exist are skipped and counted; the returned number is how
// many records were inserted.
func (s *Service) Restore(ctx context.Context, ownerID uuid.UUID, key string) (int, error) {
	obj, err := s.store.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("download snapshot: %w", err)
	}
	defer obj.Close()

	var snap Snapshot
	if err := json.NewDecoder(obj).Decode(&snap); err != nil {
		return 0, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.OwnerID != ownerID {
		return 0, fmt.Errorf("snapshot belongs to another owner")
	}

	restored := 0
	for i := range snap.Records {
		rec := snap.Records[i]
		if _, err := s.repo.GetByID(ctx, ownerID, rec.ID); err == nil {
			continue
		}
		if err := s.repo.Create(ctx, &rec); err != nil {
			return restored, fmt.Errorf("restore record %s: %w", rec.ID, err)
		}
		restored++
	}

	s.log.Info("vault restored",
		zap.String("owner", ownerID.String()),
		zap.String("key", key),
		zap.Int("restored", restored),
		zap.Int("skipped", len(snap.Records)-restored),
	)
	return restored, nil
}
