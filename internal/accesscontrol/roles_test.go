package accesscontrol

import "testing"

// TestIsRestricted tests the restricted-role pattern
func TestIsRestricted(t *testing.T) {
	tests := []struct {
		role       Role
		restricted bool
	}{
		{"caseworker-divorce-solicitor", true},
		{"caseworker-sscs-panelmember", true},
		{"citizen", true},
		{"citizen-loa1", true},
		{"citizen-loa3", true},
		{"letter-holder", true},
		{"caseworker-cmc-localAuthority", true},
		{"caseworker-probate", false},
		{"caseworker-probate-issuer", false},
		{"caseworker", false},
		{"solicitor", false},
		{"xcitizen", false},
		{"citizenx", false},
		{"letter-holder-x", false},
		{"Citizen", false},
		{"caseworker-cmc-localauthority", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := IsRestricted(tt.role); got != tt.restricted {
				t.Errorf("IsRestricted(%q) = %v, want %v", tt.role, got, tt.restricted)
			}
		})
	}
}

// TestAccessLevelFor tests access level derivation from role sets
func TestAccessLevelFor(t *testing.T) {
	tests := []struct {
		name  string
		roles []Role
		level AccessLevel
	}{
		{"No roles", nil, AccessLevelAll},
		{"Empty roles", []Role{}, AccessLevelAll},
		{"Unrestricted roles", []Role{"caseworker-probate", "caseworker-divorce"}, AccessLevelAll},
		{"Single restricted role", []Role{"letter-holder"}, AccessLevelGranted},
		{"Mixed roles", []Role{"caseworker-probate", "caseworker-divorce-solicitor"}, AccessLevelGranted},
		{"Citizen with suffix", []Role{"citizen-loa2"}, AccessLevelGranted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AccessLevelFor(tt.roles); got != tt.level {
				t.Errorf("AccessLevelFor(%v) = %v, want %v", tt.roles, got, tt.level)
			}
		})
	}
}
