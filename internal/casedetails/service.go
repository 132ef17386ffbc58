package casedetails

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/justice-gov/casedata/internal/shared/errors"
	"github.com/justice-gov/casedata/internal/shared/types"
)

// Repository reads and writes case records.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*CaseDetails, error)
	FindByReference(ctx context.Context, reference types.CaseReference) (*CaseDetails, error)
	Save(ctx context.Context, details *CaseDetails) error
	Update(ctx context.Context, details *CaseDetails) error
}

// Service answers case lookups and owns the data hashing rule.
type Service struct {
	repo Repository
}

// NewService creates a case details service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewCaseDetails builds a fresh record. Nil data is normalised to an
// empty map so every case carries a usable data document.
func NewCaseDetails(jurisdictionID, caseTypeID string, data map[string]json.RawMessage) *CaseDetails {
	if data == nil {
		data = map[string]json.RawMessage{}
	}
	return &CaseDetails{
		JurisdictionID:     jurisdictionID,
		CaseTypeID:         caseTypeID,
		Data:               data,
		DataClassification: map[string]json.RawMessage{},
	}
}

// HashData returns the hex SHA1 of the case data's JSON encoding.
// Callback consumers compare it to detect data tampered with in
// flight.
func HashData(data map[string]json.RawMessage) (string, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode case data: %w", err)
	}
	sum := sha1.Sum(encoded)
	return hex.EncodeToString(sum[:]), nil
}

// GetCase returns the case behind a reference. A reference that fails
// the check digit is rejected before the store is consulted.
func (s *Service) GetCase(ctx context.Context, reference string) (*CaseDetails, error) {
	ref, err := types.ParseCaseReference(reference)
	if err != nil {
		return nil, errors.BadRequest(fmt.Sprintf("invalid case reference %q", reference))
	}
	details, err := s.repo.FindByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	return details, nil
}
