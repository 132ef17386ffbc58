package types

import "testing"

// TestParseCaseReference tests reference validation before lookup
func TestParseCaseReference(t *testing.T) {
	tests := []struct {
		name        string
		reference   string
		expectError bool
	}{
		{"Valid reference", "1614249749110028", false},
		{"Another valid reference", "1614249749110119", false},
		{"Bad check digit", "1614249749110029", true},
		{"Too short", "161424974911002", true},
		{"Too long", "16142497491100280", true},
		{"Non-numeric", "16142497491100aa", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseCaseReference(tt.reference)

			if tt.expectError && err == nil {
				t.Errorf("Expected error for %q but got none", tt.reference)
			}
			if !tt.expectError {
				if err != nil {
					t.Fatalf("Expected no error but got: %v", err)
				}
				if ref.String() != tt.reference {
					t.Errorf("Expected %q, got %q", tt.reference, ref.String())
				}
			}
		})
	}
}

// TestCaseReferenceIsZero tests the zero check
func TestCaseReferenceIsZero(t *testing.T) {
	if !CaseReference("").IsZero() {
		t.Error("Empty reference should be zero")
	}
	if CaseReference("1614249749110028").IsZero() {
		t.Error("Non-empty reference should not be zero")
	}
}
