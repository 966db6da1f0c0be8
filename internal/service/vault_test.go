package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/vrushal09/passnext/internal/crypto/fieldcrypto"
	"github.com/vrushal09/passnext/internal/errs"
	"github.com/vrushal09/passnext/internal/model"
	"github.com/vrushal09/passnext/internal/repository"
)

type fakePasswordRepo struct {
	createIn  *model.PasswordRecord
	createErr error

	getInOwner uuid.UUID
	getInID    uuid.UUID
	getOut     *model.PasswordRecord
	getErr     error

	listInOwner uuid.UUID
	listOut     []model.PasswordRecord
	listErr     error

	updateIn  *model.PasswordRecord
	updateErr error

	delInOwner uuid.UUID
	delInID    uuid.UUID
	delErr     error
}

var _ repository.PasswordRepository = (*fakePasswordRepo)(nil)

func (f *fakePasswordRepo) Create(_ context.Context, rec *model.PasswordRecord) error {
	cp := *rec
	f.createIn = &cp
	return f.createErr
}
func (f *fakePasswordRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (*model.PasswordRecord, error) {
	f.getInOwner, f.getInID = ownerID, id
	if f.getOut == nil {
		return nil, f.getErr
	}
	cp := *f.getOut
	return &cp, f.getErr
}
func (f *fakePasswordRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.PasswordRecord, error) {
	f.listInOwner = ownerID
	return append([]model.PasswordRecord(nil), f.listOut...), f.listErr
}
func (f *fakePasswordRepo) Update(_ context.Context, rec *model.PasswordRecord) error {
	cp := *rec
	f.updateIn = &cp
	return f.updateErr
}
func (f *fakePasswordRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	f.delInOwner, f.delInID = ownerID, id
	return f.delErr
}

func newTestCryptor(t *testing.T) *fieldcrypto.Cryptor {
	t.Helper()
	key, err := fieldcrypto.RandBytes(fieldcrypto.KeyLen)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	c, err := fieldcrypto.New(key)
	if err != nil {
		t.Fatalf("fieldcrypto.New: %v", err)
	}
	return c
}

func TestVaultService_Add(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := &fakePasswordRepo{}
	c := newTestCryptor(t)
	s := NewVaultService(repo, c)
	owner := uuid.Must(uuid.NewV4())

	got, err := s.Add(ctx, owner, model.PasswordRecord{Service: "github", Account: "dev", Secret: "hunter2", Notes: "work"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got.ID == uuid.Nil || got.OwnerID != owner {
		t.Fatalf("id/owner not assigned: %+v", got)
	}
	if got.Secret != "hunter2" {
		t.Fatalf("returned record must stay plaintext, got %q", got.Secret)
	}
	if got.CreatedAt.IsZero() || !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("timestamps: %v %v", got.CreatedAt, got.UpdatedAt)
	}

	if repo.createIn == nil {
		t.Fatalf("repo.Create not called")
	}
	if repo.createIn.Secret == "hunter2" || repo.createIn.Notes == "work" {
		t.Fatalf("stored record must be encrypted: %+v", repo.createIn)
	}
	if repo.createIn.Service != "github" {
		t.Fatalf("service must be stored as-is")
	}
}

func TestVaultService_Add_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewVaultService(&fakePasswordRepo{}, newTestCryptor(t))
	owner := uuid.Must(uuid.NewV4())

	if _, err := s.Add(ctx, uuid.Nil, model.PasswordRecord{Service: "a", Secret: "b"}); err == nil {
		t.Fatalf("want validation error on empty ownerID")
	}
	if _, err := s.Add(ctx, owner, model.PasswordRecord{Secret: "b"}); err == nil {
		t.Fatalf("want validation error on empty service")
	}
	if _, err := s.Add(ctx, owner, model.PasswordRecord{Service: "a"}); err == nil {
		t.Fatalf("want validation error on empty secret")
	}
}

func TestVaultService_GetDecrypts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newTestCryptor(t)
	owner := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	stored := model.PasswordRecord{ID: id, OwnerID: owner, Service: "mail", Secret: "s3cret", Notes: "n"}
	if err := c.EncryptRecord(&stored); err != nil {
		t.Fatalf("EncryptRecord: %v", err)
	}
	repo := &fakePasswordRepo{getOut: &stored}
	s := NewVaultService(repo, c)

	got, err := s.Get(ctx, owner, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Secret != "s3cret" || got.Notes != "n" {
		t.Fatalf("not decrypted: %+v", got)
	}
	if repo.getInOwner != owner || repo.getInID != id {
		t.Fatalf("repo args: %s %s", repo.getInOwner, repo.getInID)
	}
}

func TestVaultService_GetNotFound(t *testing.T) {
	t.Parallel()
	repo := &fakePasswordRepo{getErr: errs.ErrNotFound}
	s := NewVaultService(repo, newTestCryptor(t))

	_, err := s.Get(context.Background(), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()))
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestVaultService_ListDecryptsAll(t *testing.T) {
	t.Parallel()
	c := newTestCryptor(t)
	owner := uuid.Must(uuid.NewV4())

	var stored []model.PasswordRecord
	for _, secret := range []string{"one", "two"} {
		rec := model.PasswordRecord{ID: uuid.Must(uuid.NewV4()), OwnerID: owner, Service: "svc", Secret: secret}
		if err := c.EncryptRecord(&rec); err != nil {
			t.Fatalf("EncryptRecord: %v", err)
		}
		stored = append(stored, rec)
	}
	repo := &fakePasswordRepo{listOut: stored}
	s := NewVaultService(repo, c)

	got, err := s.List(context.Background(), owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].Secret != "one" || got[1].Secret != "two" {
		t.Fatalf("list not decrypted: %+v", got)
	}
}

func TestVaultService_Update(t *testing.T) {
	t.Parallel()
	repo := &fakePasswordRepo{}
	c := newTestCryptor(t)
	s := NewVaultService(repo, c)
	owner := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	created := time.Now().Add(-24 * time.Hour).UTC()
	got, err := s.Update(context.Background(), owner, model.PasswordRecord{ID: id, Service: "svc", Secret: "new", CreatedAt: created})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.OwnerID != owner || !got.UpdatedAt.After(created) {
		t.Fatalf("owner/updatedAt: %+v", got)
	}
	if repo.updateIn == nil || repo.updateIn.Secret == "new" {
		t.Fatalf("stored update must be encrypted: %+v", repo.updateIn)
	}

	if _, err := s.Update(context.Background(), owner, model.PasswordRecord{Service: "svc", Secret: "x"}); err == nil {
		t.Fatalf("want validation error on empty id")
	}
}

func TestVaultService_Delete(t *testing.T) {
	t.Parallel()
	repo := &fakePasswordRepo{delErr: errs.ErrNotFound}
	s := NewVaultService(repo, newTestCryptor(t))
	owner := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	if err := s.Delete(context.Background(), owner, id); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if repo.delInOwner != owner || repo.delInID != id {
		t.Fatalf("repo args: %s %s", repo.delInOwner, repo.delInID)
	}
	if err := s.Delete(context.Background(), uuid.Nil, id); err == nil {
		t.Fatalf("want validation error on empty ownerID")
	}
}

