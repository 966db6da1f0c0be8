// Package service contains application services over the password vault.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/vrushal09/passnext/internal/crypto/fieldcrypto"
	"github.com/vrushal09/passnext/internal/model"
	"github.com/vrushal09/passnext/internal/repository"
)

// VaultService defines CRUD operations over encrypted password records.
type VaultService interface {
	// Add stores a new record, encrypting sensitive fields at rest.
	Add(ctx context.Context, ownerID uuid.UUID, rec model.PasswordRecord) (model.PasswordRecord, error)
	// Get returns a single decrypted record by ID.
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.PasswordRecord, error)
	// List returns all decrypted records for an owner, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]model.PasswordRecord, error)
	// Update replaces mutable fields of an existing record.
	Update(ctx context.Context, ownerID uuid.UUID, rec model.PasswordRecord) (model.PasswordRecord, error)
	// Delete removes a record permanently.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type VaultServiceImpl struct {
	repo    repository.PasswordRepository
	cryptor *fieldcrypto.Cryptor
}

// NewVaultService constructs VaultService with required dependencies.
func NewVaultService(repo repository.PasswordRepository, cryptor *fieldcrypto.Cryptor) *VaultServiceImpl {
	return &VaultServiceImpl{repo: repo, cryptor: cryptor}
}

// Add validates input, assigns ID and timestamps, and stores the record.
// Validation rules:
// - ownerID != uuid.Nil
// - Service not empty
// - Secret not empty
func (s *VaultServiceImpl) Add(ctx context.Context, ownerID uuid.UUID, rec model.PasswordRecord) (model.PasswordRecord, error) {
	if ownerID == uuid.Nil {
		return model.PasswordRecord{}, errors.New("validation: empty ownerID")
	}
	if rec.Service == "" {
		return model.PasswordRecord{}, errors.New("validation: empty service")
	}
	if rec.Secret == "" {
		return model.PasswordRecord{}, errors.New("validation: empty secret")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return model.PasswordRecord{}, err
	}
	now := time.Now().UTC()
	rec.ID = id
	rec.OwnerID = ownerID
	rec.CreatedAt = now
	rec.UpdatedAt = now

	stored := rec
	if err := s.cryptor.EncryptRecord(&stored); err != nil {
		return model.PasswordRecord{}, fmt.Errorf("encrypt record: %w", err)
	}
	if err := s.repo.Create(ctx, &stored); err != nil {
		return model.PasswordRecord{}, err
	}
	return rec, nil
}

// Get fetches and decrypts a single record by id.
func (s *VaultServiceImpl) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.PasswordRecord, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, errors.New("validation: empty ownerID/id")
	}
	rec, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.cryptor.DecryptRecord(rec); err != nil {
		return nil, fmt.Errorf("decrypt record %s: %w", rec.ID, err)
	}
	return rec, nil
}

// List returns all records for the owner, decrypted, ordered newest first.
func (s *VaultServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]model.PasswordRecord, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New("validation: empty ownerID")
	}
	recs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if err := s.cryptor.DecryptRecord(&recs[i]); err != nil {
			return nil, fmt.Errorf("decrypt record %s: %w", recs[i].ID, err)
		}
	}
	return recs, nil
}

// Update replaces mutable fields and bumps UpdatedAt. CreatedAt is preserved
// by the repository; the record must already exist for this owner.
func (s *VaultServiceImpl) Update(ctx context.Context, ownerID uuid.UUID, rec model.PasswordRecord) (model.PasswordRecord, error) {
	if ownerID == uuid.Nil || rec.ID == uuid.Nil {
		return model.PasswordRecord{}, errors.New("validation: empty ownerID/id")
	}
	if rec.Service == "" {
		return model.PasswordRecord{}, errors.New("validation: empty service")
	}
	if rec.Secret == "" {
		return model.PasswordRecord{}, errors.New("validation: empty secret")
	}

	rec.OwnerID = ownerID
	rec.UpdatedAt = time.Now().UTC()

	stored := rec
	if err := s.cryptor.EncryptRecord(&stored); err != nil {
		return model.PasswordRecord{}, fmt.Errorf("encrypt record: %w", err)
	}
	if err := s.repo.Update(ctx, &stored); err != nil {
		return model.PasswordRecord{}, err
	}
	return rec, nil
}

// Delete removes the record by id.
func (s *VaultServiceImpl) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return errors.New("validation: empty ownerID/id")
	}
	return s.repo.Delete(ctx, ownerID, id)
}
