package accesscontrol

// Capability is one of the four operations an ACL can grant.
type Capability uint8

const (
	CanCreate Capability = 1 << iota
	CanRead
	CanUpdate
	CanDelete
)

// String returns the capability name for logs and metrics.
func (c Capability) String() string {
	switch c {
	case CanCreate:
		return "create"
	case CanRead:
		return "read"
	case CanUpdate:
		return "update"
	case CanDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ACL maps a role to the capabilities it is granted on one item
// (a case type, state, event or field). A role with no entry has no
// capability on the item; an absent or nil ACL denies everything.
type ACL map[Role]Capability

// Effective returns the union of the capabilities granted to any of
// the given roles.
func (a ACL) Effective(roles []Role) Capability {
	var caps Capability
	for _, r := range roles {
		caps |= a[r]
	}
	return caps
}

// Grants reports whether at least one of the roles is granted the
// required capability.
func (a ACL) Grants(roles []Role, required Capability) bool {
	return a.Effective(roles)&required != 0
}

// Controlled is implemented by definition entities that carry an ACL.
type Controlled interface {
	AccessControl() ACL
}

// CanAccess reports whether the roles hold the required capability on
// the entity's own ACL. A nil entity is never accessible.
func CanAccess(entity Controlled, roles []Role, required Capability) bool {
	if entity == nil {
		return false
	}
	return entity.AccessControl().Grants(roles, required)
}

// FilterByAccess retains exactly the entities whose ACL grants the
// required capability to at least one of the roles. The input is never
// mutated; relative order is preserved and an empty input yields an
// empty, non-nil result.
func FilterByAccess[T Controlled](entities []T, roles []Role, required Capability) []T {
	filtered := make([]T, 0, len(entities))
	for _, e := range entities {
		if e.AccessControl().Grants(roles, required) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
