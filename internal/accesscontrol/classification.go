package accesscontrol

import (
	"context"
	"fmt"
)

// SecurityClassification is an ordered sensitivity tier. An item is
// visible only to users whose own classification is at least as high.
type SecurityClassification int

const (
	ClassificationPublic SecurityClassification = iota
	ClassificationPrivate
	ClassificationRestricted
)

var classificationNames = map[SecurityClassification]string{
	ClassificationPublic:     "PUBLIC",
	ClassificationPrivate:    "PRIVATE",
	ClassificationRestricted: "RESTRICTED",
}

// ParseClassification parses the wire representation of a classification.
func ParseClassification(s string) (SecurityClassification, error) {
	for level, name := range classificationNames {
		if name == s {
			return level, nil
		}
	}
	return ClassificationPublic, fmt.Errorf("unknown security classification %q", s)
}

func (c SecurityClassification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalJSON encodes the classification as its name.
func (c SecurityClassification) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON decodes a classification name.
func (c *SecurityClassification) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("security classification must be a JSON string")
	}
	level, err := ParseClassification(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*c = level
	return nil
}

// Covers reports whether a user at this level may see an item at the
// given level. Visibility is monotonic: anything visible at level L is
// visible at every level above L.
func (c SecurityClassification) Covers(item SecurityClassification) bool {
	return c >= item
}

// Classified is implemented by items that carry a security classification.
type Classified interface {
	Classification() SecurityClassification
}

// FilterVisible retains the items whose classification the user level
// covers. The input is never mutated; relative order is preserved and
// an empty input yields an empty, non-nil result.
func FilterVisible[T Classified](userLevel SecurityClassification, items []T) []T {
	visible := make([]T, 0, len(items))
	for _, item := range items {
		if userLevel.Covers(item.Classification()) {
			visible = append(visible, item)
		}
	}
	return visible
}

// RoleSource supplies the authenticated user's roles for the current
// request.
type RoleSource interface {
	UserRoles(ctx context.Context) ([]Role, error)
}

// RoleClassificationSource maps a role to the maximum classification it
// may see within a jurisdiction. A role unknown to the source
// contributes nothing. Sources may hit a backing store, so lookups
// carry the request context and can fail.
type RoleClassificationSource interface {
	RoleClassification(ctx context.Context, jurisdictionID string, role Role) (SecurityClassification, bool, error)
}

// ClassificationService resolves a user's effective classification and
// applies it to classified collections.
type ClassificationService struct {
	roles           RoleSource
	classifications RoleClassificationSource
}

// NewClassificationService creates a classification service.
func NewClassificationService(roles RoleSource, classifications RoleClassificationSource) *ClassificationService {
	return &ClassificationService{roles: roles, classifications: classifications}
}

// MaxClassification folds each role's mapped classification with the
// running maximum. An empty role set, or one where no role maps to
// anything, yields the lowest level rather than no access.
func (s *ClassificationService) MaxClassification(ctx context.Context, jurisdictionID string, roles []Role) (SecurityClassification, error) {
	highest := ClassificationPublic
	for _, r := range roles {
		level, ok, err := s.classifications.RoleClassification(ctx, jurisdictionID, r)
		if err != nil {
			return ClassificationPublic, err
		}
		if ok && level > highest {
			highest = level
		}
	}
	return highest, nil
}

// UserClassification resolves the current user's effective
// classification for a jurisdiction. Resolved once per filtering pass,
// not once per item.
func (s *ClassificationService) UserClassification(ctx context.Context, jurisdictionID string) (SecurityClassification, error) {
	roles, err := s.roles.UserRoles(ctx)
	if err != nil {
		return ClassificationPublic, err
	}
	return s.MaxClassification(ctx, jurisdictionID, roles)
}
