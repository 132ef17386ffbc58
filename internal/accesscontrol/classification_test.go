package accesscontrol

import (
	"context"
	"testing"
)

type classifiedItem struct {
	name  string
	level SecurityClassification
}

func (i classifiedItem) Classification() SecurityClassification { return i.level }

type stubRoleSource struct {
	roles []Role
	err   error
}

func (s stubRoleSource) UserRoles(ctx context.Context) ([]Role, error) {
	return s.roles, s.err
}

type stubClassifications map[Role]SecurityClassification

func (s stubClassifications) RoleClassification(ctx context.Context, jurisdictionID string, role Role) (SecurityClassification, bool, error) {
	level, ok := s[role]
	return level, ok, nil
}

// TestClassificationOrdering tests the level ordering and visibility rule
func TestClassificationOrdering(t *testing.T) {
	if !(ClassificationPublic < ClassificationPrivate && ClassificationPrivate < ClassificationRestricted) {
		t.Fatal("Classification levels are not ordered")
	}

	tests := []struct {
		user    SecurityClassification
		item    SecurityClassification
		visible bool
	}{
		{ClassificationPublic, ClassificationPublic, true},
		{ClassificationPublic, ClassificationPrivate, false},
		{ClassificationPrivate, ClassificationPublic, true},
		{ClassificationPrivate, ClassificationRestricted, false},
		{ClassificationRestricted, ClassificationRestricted, true},
		{ClassificationRestricted, ClassificationPublic, true},
	}

	for _, tt := range tests {
		if got := tt.user.Covers(tt.item); got != tt.visible {
			t.Errorf("%v.Covers(%v) = %v, want %v", tt.user, tt.item, got, tt.visible)
		}
	}
}

// TestParseClassification tests the wire representation round trip
func TestParseClassification(t *testing.T) {
	for _, name := range []string{"PUBLIC", "PRIVATE", "RESTRICTED"} {
		level, err := ParseClassification(name)
		if err != nil {
			t.Fatalf("ParseClassification(%q): %v", name, err)
		}
		if level.String() != name {
			t.Errorf("Round trip of %q gave %q", name, level.String())
		}
	}

	if _, err := ParseClassification("TOP_SECRET"); err == nil {
		t.Error("Expected error for unknown classification")
	}
}

// TestMaxClassification tests folding role classifications
func TestMaxClassification(t *testing.T) {
	svc := NewClassificationService(stubRoleSource{}, stubClassifications{
		"caseworker-probate":        ClassificationPrivate,
		"caseworker-probate-issuer": ClassificationRestricted,
	})

	tests := []struct {
		name  string
		roles []Role
		want  SecurityClassification
	}{
		{"Empty role set", nil, ClassificationPublic},
		{"Single mapped role", []Role{"caseworker-probate"}, ClassificationPrivate},
		{"Maximum over roles", []Role{"caseworker-probate", "caseworker-probate-issuer"}, ClassificationRestricted},
		{"Unmapped roles ignored", []Role{"unknown-role"}, ClassificationPublic},
		{"Mapped and unmapped", []Role{"unknown-role", "caseworker-probate"}, ClassificationPrivate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.MaxClassification(context.Background(), "PROBATE", tt.roles)
			if err != nil {
				t.Fatalf("MaxClassification(%v): %v", tt.roles, err)
			}
			if got != tt.want {
				t.Errorf("MaxClassification(%v) = %v, want %v", tt.roles, got, tt.want)
			}
		})
	}
}

// TestUserClassification tests resolving the current user's level
func TestUserClassification(t *testing.T) {
	svc := NewClassificationService(
		stubRoleSource{roles: []Role{"caseworker-probate"}},
		stubClassifications{"caseworker-probate": ClassificationRestricted},
	)

	level, err := svc.UserClassification(context.Background(), "PROBATE")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if level != ClassificationRestricted {
		t.Errorf("Expected RESTRICTED, got %v", level)
	}
}

// TestFilterVisible tests classification filtering of collections
func TestFilterVisible(t *testing.T) {
	items := []classifiedItem{
		{"a", ClassificationPublic},
		{"b", ClassificationRestricted},
		{"c", ClassificationPrivate},
		{"d", ClassificationPublic},
	}

	visible := FilterVisible(ClassificationPrivate, items)

	if len(visible) != 3 {
		t.Fatalf("Expected 3 visible items, got %d", len(visible))
	}
	if visible[0].name != "a" || visible[1].name != "c" || visible[2].name != "d" {
		t.Errorf("Order not preserved: got %v", visible)
	}

	// Idempotent at the same level
	again := FilterVisible(ClassificationPrivate, visible)
	if len(again) != len(visible) {
		t.Errorf("Second filter changed result size: %d != %d", len(again), len(visible))
	}

	// Monotonic: everything visible at PRIVATE is visible at RESTRICTED
	atRestricted := FilterVisible(ClassificationRestricted, items)
	if len(atRestricted) < len(visible) {
		t.Error("Higher level should never see fewer items")
	}

	// Empty input yields empty, non-nil output
	empty := FilterVisible(ClassificationRestricted, []classifiedItem{})
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil result, got %v", empty)
	}
}
