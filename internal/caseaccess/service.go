// Package caseaccess decides which cases a user may see. Users whose
// roles are all unrestricted see every case; users holding a
// restricted role see only the cases they have been granted.
package caseaccess

import (
	"context"

	"github.com/justice-gov/casedata/internal/accesscontrol"
	"github.com/justice-gov/casedata/internal/shared/errors"
	"github.com/justice-gov/casedata/internal/shared/metrics"
)

// GrantRepository stores explicit case grants.
type GrantRepository interface {
	GrantAccess(ctx context.Context, caseID int64, userID string, role accesscontrol.Role) error
	RevokeAccess(ctx context.Context, caseID int64, userID string) error
	GrantedCaseIDs(ctx context.Context, userID string) ([]int64, error)
	CaseRoles(ctx context.Context, caseID int64, userID string) ([]accesscontrol.Role, error)
}

// Service answers case visibility questions for a user.
type Service struct {
	grants GrantRepository
}

// NewService creates a case access service.
func NewService(grants GrantRepository) *Service {
	return &Service{grants: grants}
}

// CanAccess reports whether the user may see the case. A nil role set
// means the upstream identity data is broken and is rejected outright;
// an empty role set is a valid user with no restrictions.
func (s *Service) CanAccess(ctx context.Context, userID string, roles []accesscontrol.Role, caseID int64) (bool, error) {
	if roles == nil {
		return false, errors.DataIntegrity("user roles are undefined")
	}
	if accesscontrol.AccessLevelFor(roles) == accesscontrol.AccessLevelAll {
		return true, nil
	}

	granted, err := s.grants.CaseRoles(ctx, caseID, userID)
	if err != nil {
		return false, err
	}
	metrics.RecordGrantLookup(len(granted) > 0)
	return len(granted) > 0, nil
}

// GrantedCaseIDs returns the IDs of the cases explicitly granted to
// the user. Only meaningful for users at the granted access level.
func (s *Service) GrantedCaseIDs(ctx context.Context, userID string) ([]int64, error) {
	return s.grants.GrantedCaseIDs(ctx, userID)
}

// CaseRoles returns the case roles granted to the user on one case.
// No grants is a normal answer, not an error.
func (s *Service) CaseRoles(ctx context.Context, caseID int64, userID string) ([]accesscontrol.Role, error) {
	roles, err := s.grants.CaseRoles(ctx, caseID, userID)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []accesscontrol.Role{}
	}
	return roles, nil
}

// CreationRoles returns the roles to evaluate when the user creates a
// case: their own roles plus the implicit creator role.
func (s *Service) CreationRoles(roles []accesscontrol.Role) []accesscontrol.Role {
	creation := make([]accesscontrol.Role, 0, len(roles)+1)
	creation = append(creation, roles...)
	creation = append(creation, accesscontrol.CreatorRole)
	return creation
}

// GrantAccess records a grant for the user on a case.
func (s *Service) GrantAccess(ctx context.Context, caseID int64, userID string, role accesscontrol.Role) error {
	return s.grants.GrantAccess(ctx, caseID, userID, role)
}

// RevokeAccess removes every grant the user holds on a case.
func (s *Service) RevokeAccess(ctx context.Context, caseID int64, userID string) error {
	return s.grants.RevokeAccess(ctx, caseID, userID)
}
