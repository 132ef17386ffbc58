package accesscontrol

import "testing"

type aclItem struct {
	name string
	acl  ACL
}

func (i aclItem) AccessControl() ACL { return i.acl }

// TestACLEffective tests the union of capabilities across roles
func TestACLEffective(t *testing.T) {
	acl := ACL{
		"caseworker-probate":        CanRead | CanUpdate,
		"caseworker-probate-issuer": CanCreate,
	}

	tests := []struct {
		name  string
		roles []Role
		want  Capability
	}{
		{"Single role", []Role{"caseworker-probate"}, CanRead | CanUpdate},
		{"Union over roles", []Role{"caseworker-probate", "caseworker-probate-issuer"}, CanRead | CanUpdate | CanCreate},
		{"Role absent from ACL", []Role{"caseworker-divorce"}, 0},
		{"No roles", nil, 0},
		{"Malformed role", []Role{"!!not-a-role!!"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := acl.Effective(tt.roles); got != tt.want {
				t.Errorf("Effective(%v) = %b, want %b", tt.roles, got, tt.want)
			}
		})
	}
}

// TestACLGrantsDenyByDefault tests that absent ACLs deny everything
func TestACLGrantsDenyByDefault(t *testing.T) {
	var acl ACL

	if acl.Grants([]Role{"caseworker-probate"}, CanRead) {
		t.Error("Nil ACL should grant nothing")
	}

	if CanAccess(nil, []Role{"caseworker-probate"}, CanRead) {
		t.Error("Nil entity should not be accessible")
	}
}

// TestFilterByAccess tests collection filtering by capability
func TestFilterByAccess(t *testing.T) {
	roles := []Role{"caseworker-probate"}

	readable := ACL{"caseworker-probate": CanRead}
	createOnly := ACL{"caseworker-probate": CanCreate}

	items := []aclItem{
		{"first", readable},
		{"second", createOnly},
		{"third", readable},
		{"fourth", nil},
	}

	filtered := FilterByAccess(items, roles, CanRead)

	if len(filtered) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(filtered))
	}

	// Relative order preserved
	if filtered[0].name != "first" || filtered[1].name != "third" {
		t.Errorf("Expected [first third], got [%s %s]", filtered[0].name, filtered[1].name)
	}

	// Source not mutated
	if len(items) != 4 {
		t.Errorf("Source collection was mutated, len %d", len(items))
	}

	// Idempotent
	again := FilterByAccess(filtered, roles, CanRead)
	if len(again) != len(filtered) {
		t.Errorf("Filtering a filtered collection changed its size: %d != %d", len(again), len(filtered))
	}
}

// TestFilterByAccessEmptyInput tests that empty input yields empty output
func TestFilterByAccessEmptyInput(t *testing.T) {
	filtered := FilterByAccess([]aclItem{}, []Role{"caseworker-probate"}, CanRead)

	if filtered == nil {
		t.Fatal("Expected non-nil result for empty input")
	}
	if len(filtered) != 0 {
		t.Errorf("Expected 0 items, got %d", len(filtered))
	}
}
