package profile

import (
	"context"

	"github.com/justice-gov/casedata/internal/definition"
)

// Operation assembles a user profile.
type Operation interface {
	Execute(ctx context.Context) (*UserProfile, error)
}

// IdentitySource supplies the authenticated user behind the request.
type IdentitySource interface {
	CurrentUser(ctx context.Context) (User, error)
}

// DefaultOperation builds the profile straight from the definition
// store, without narrowing it to the user's roles. It is always
// wrapped before being exposed to callers.
type DefaultOperation struct {
	definitions definition.Repository
	identity    IdentitySource
}

// NewDefaultOperation creates the unfiltered operation.
func NewDefaultOperation(definitions definition.Repository, identity IdentitySource) *DefaultOperation {
	return &DefaultOperation{definitions: definitions, identity: identity}
}

// Execute returns the profile over every jurisdiction.
func (o *DefaultOperation) Execute(ctx context.Context) (*UserProfile, error) {
	user, err := o.identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	jurisdictions, err := o.definitions.Jurisdictions(ctx)
	if err != nil {
		return nil, err
	}

	return &UserProfile{User: user, Jurisdictions: jurisdictions}, nil
}
