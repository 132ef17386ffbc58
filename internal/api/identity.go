package api

import (
	"context"

	"github.com/justice-gov/casedata/internal/profile"
	"github.com/justice-gov/casedata/internal/shared/auth"
	"github.com/justice-gov/casedata/internal/shared/errors"
)

// AuthIdentity adapts the authenticated request user to the profile
// module.
type AuthIdentity struct{}

// CurrentUser returns the user behind the request.
func (AuthIdentity) CurrentUser(ctx context.Context) (profile.User, error) {
	user := auth.GetUser(ctx)
	if user == nil {
		return profile.User{}, errors.Unauthorized("authentication required")
	}
	return profile.User{ID: user.ID, Email: user.Email}, nil
}
