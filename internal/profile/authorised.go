package profile

import (
	"context"

	"github.com/justice-gov/casedata/internal/accesscontrol"
	"github.com/justice-gov/casedata/internal/definition"
)

// AuthorisedOperation narrows a profile to what the user's roles
// allow. Case types the user cannot read are removed, and within the
// survivors the states and events are filtered the same way. A
// jurisdiction stays in the profile even when every one of its case
// types is removed, so the user can still see where they work.
type AuthorisedOperation struct {
	inner    Operation
	roles    accesscontrol.RoleSource
	required accesscontrol.Capability
}

// NewAuthorisedOperation decorates an operation with ACL filtering.
func NewAuthorisedOperation(inner Operation, roles accesscontrol.RoleSource, required accesscontrol.Capability) *AuthorisedOperation {
	return &AuthorisedOperation{inner: inner, roles: roles, required: required}
}

// Execute returns the narrowed profile.
func (o *AuthorisedOperation) Execute(ctx context.Context) (*UserProfile, error) {
	userProfile, err := o.inner.Execute(ctx)
	if err != nil {
		return nil, err
	}

	roles, err := o.roles.UserRoles(ctx)
	if err != nil {
		return nil, err
	}

	for i := range userProfile.Jurisdictions {
		userProfile.Jurisdictions[i].CaseTypes = o.filterCaseTypes(userProfile.Jurisdictions[i].CaseTypes, roles)
	}
	return userProfile, nil
}

func (o *AuthorisedOperation) filterCaseTypes(caseTypes []definition.CaseType, roles []accesscontrol.Role) []definition.CaseType {
	granted := accesscontrol.FilterByAccess(caseTypes, roles, o.required)

	// Each kept case type is reworked in place on its own copy, the
	// definitions behind the inner operation must stay intact.
	filtered := make([]definition.CaseType, 0, len(granted))
	for _, ct := range granted {
		ct.States = accesscontrol.FilterByAccess(ct.States, roles, o.required)
		ct.Events = accesscontrol.FilterByAccess(ct.Events, roles, o.required)
		ct.Fields = accesscontrol.FilterByAccess(ct.Fields, roles, o.required)
		filtered = append(filtered, ct)
	}
	return filtered
}
