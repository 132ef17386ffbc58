// Package accesscontrol holds the authorization primitives shared by the
// case data services: role matching, capability ACLs and security
// classification levels.
package accesscontrol

import "regexp"

// Role is an opaque role token issued by the identity provider.
// Roles are case-sensitive and carry no structure beyond the
// restricted-role pattern below.
type Role string

// CreatorRole is the implicit case role granted to whoever creates a
// case. It exists only for case-creation authorization and is never
// persisted as a grant.
const CreatorRole Role = "[CREATOR]"

// Users holding any of the following roles may only see cases they
// have been explicitly granted access to:
//   - *-solicitor: solicitors
//   - *-panelmember: panel members
//   - citizen(-*): citizens, including levels of assurance suffixes
//   - letter-holder: citizen with a temporary account
//   - caseworker-*-localAuthority: local authority caseworkers
var restrictedRolePattern = regexp.MustCompile(
	`^(.+-solicitor|.+-panelmember|citizen(-.*)?|letter-holder|caseworker-.+-localAuthority)$`,
)

// IsRestricted reports whether the role forces granted-only access.
func IsRestricted(role Role) bool {
	return restrictedRolePattern.MatchString(string(role))
}

// AccessLevel determines how a user's reachable case set is computed.
type AccessLevel string

const (
	// AccessLevelAll means every case is reachable, subject to ACL and
	// classification checks.
	AccessLevelAll AccessLevel = "ALL"
	// AccessLevelGranted means only explicitly granted cases are reachable.
	AccessLevelGranted AccessLevel = "GRANTED"
)

// AccessLevelFor derives the access level from a role set. It is a pure
// function of the roles and must be recomputed per request.
func AccessLevelFor(roles []Role) AccessLevel {
	for _, r := range roles {
		if IsRestricted(r) {
			return AccessLevelGranted
		}
	}
	return AccessLevelAll
}
