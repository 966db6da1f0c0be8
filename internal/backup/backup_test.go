package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/vrushal09/passnext/internal/errs"
	"github.com/vrushal09/passnext/internal/model"
)

type fakeStore struct {
	objects map[string][]byte
	putErr  error
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (f *fakeStore) PutObject(_ context.Context, _, key string, r *bytes.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[key] = b
	return minio.UploadInfo{Key: key, Size: int64(len(b))}, nil
}

func (f *fakeStore) GetObject(_ context.Context, _, key string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	b, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type memRepo struct {
	records map[uuid.UUID]model.PasswordRecord
	order   []uuid.UUID
}

func newMemRepo() *memRepo { return &memRepo{records: map[uuid.UUID]model.PasswordRecord{}} }

func (m *memRepo) Create(_ context.Context, rec *model.PasswordRecord) error {
	m.records[rec.ID] = *rec
	m.order = append(m.order, rec.ID)
	return nil
}
func (m *memRepo) GetByID(_ context.Context, _, id uuid.UUID) (*model.PasswordRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &rec, nil
}
func (m *memRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.PasswordRecord, error) {
	var out []model.PasswordRecord
	for _, id := range m.order {
		if m.records[id].OwnerID == ownerID {
			out = append(out, m.records[id])
		}
	}
	return out, nil
}
func (m *memRepo) Update(_ context.Context, rec *model.PasswordRecord) error {
	m.records[rec.ID] = *rec
	return nil
}
func (m *memRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(m.records, id)
	return nil
}

func seedRecord(t *testing.T, repo *memRepo, owner uuid.UUID, service string) model.PasswordRecord {
	t.Helper()
	rec := model.PasswordRecord{
		ID:        uuid.Must(uuid.NewV4()),
		OwnerID:   owner,
		Service:   service,
		Secret:    "ZW5jcnlwdGVk", // stored form, opaque here
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), &rec); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return rec
}

func TestExportUploadsSnapshot(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	repo := newMemRepo()
	owner := uuid.Must(uuid.NewV4())
	seedRecord(t, repo, owner, "github")
	seedRecord(t, repo, owner, "mail")
	seedRecord(t, repo, uuid.Must(uuid.NewV4()), "other-owner")

	s := NewWithStore(store, "vault-backups", repo, zap.NewNop())
	key, err := s.Export(context.Background(), owner)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(key, "vaults/"+owner.String()+"/") {
		t.Fatalf("key layout: %q", key)
	}

	var snap Snapshot
	if err := json.Unmarshal(store.objects[key], &snap); err != nil {
		t.Fatalf("snapshot not json: %v", err)
	}
	if snap.Version != snapshotVersion || snap.OwnerID != owner || len(snap.Records) != 2 {
		t.Fatalf("snapshot contents: %+v", snap)
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	src := newMemRepo()
	owner := uuid.Must(uuid.NewV4())
	a := seedRecord(t, src, owner, "github")
	b := seedRecord(t, src, owner, "mail")

	key, err := NewWithStore(store, "b", src, zap.NewNop()).Export(context.Background(), owner)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := newMemRepo()
	n, err := NewWithStore(store, "b", dst, zap.NewNop()).Restore(context.Background(), owner, key)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if n != 2 {
		t.Fatalf("want 2 restored, got %d", n)
	}
	for _, want := range []model.PasswordRecord{a, b} {
		got, err := dst.GetByID(context.Background(), owner, want.ID)
		if err != nil {
			t.Fatalf("record %s missing after restore", want.ID)
		}
		if got.Service != want.Service || got.Secret != want.Secret {
			t.Fatalf("record mismatch: %+v != %+v", got, want)
		}
	}
}

func TestRestoreSkipsExisting(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	repo := newMemRepo()
	owner := uuid.Must(uuid.NewV4())
	seedRecord(t, repo, owner, "github")

	s := NewWithStore(store, "b", repo, zap.NewNop())
	key, err := s.Export(context.Background(), owner)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	// restoring into the same repo inserts nothing
	n, err := s.Restore(context.Background(), owner, key)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if n != 0 {
		t.Fatalf("want 0 restored, got %d", n)
	}
}

func TestRestoreRejectsForeignSnapshot(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	repo := newMemRepo()
	owner := uuid.Must(uuid.NewV4())
	seedRecord(t, repo, owner, "github")

	s := NewWithStore(store, "b", repo, zap.NewNop())
	key, err := s.Export(context.Background(), owner)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if _, err := s.Restore(context.Background(), uuid.Must(uuid.NewV4()), key); err == nil {
		t.Fatalf("want owner mismatch error")
	}
}

func TestExportPutFailure(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.putErr = errors.New("bucket gone")
	repo := newMemRepo()
	owner := uuid.Must(uuid.NewV4())
	seedRecord(t, repo, owner, "github")

	if _, err := NewWithStore(store, "b", repo, zap.NewNop()).Export(context.Background(), owner); err == nil {
		t.Fatalf("want upload error")
	}
}
