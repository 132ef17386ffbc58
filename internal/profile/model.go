// Package profile assembles a user's working view of the platform:
// the jurisdictions and case types they act in, narrowed to what
// their roles allow.
package profile

import (
	"github.com/justice-gov/casedata/internal/definition"
)

// User identifies the profile's owner.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// UserProfile is the assembled profile.
type UserProfile struct {
	User          User                      `json:"user"`
	Jurisdictions []definition.Jurisdiction `json:"jurisdictions"`
}
