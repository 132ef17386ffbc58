package types

import (
	"fmt"
	"regexp"
)

// CaseReference is the 16-digit public identifier of a case.
// The last digit is a Luhn check digit over the first fifteen, so a
// mistyped reference is rejected before any lookup is attempted.
type CaseReference string

var caseReferenceRegex = regexp.MustCompile(`^\d{16}$`)

// ParseCaseReference validates and parses a case reference string
func ParseCaseReference(s string) (CaseReference, error) {
	if !caseReferenceRegex.MatchString(s) {
		return "", fmt.Errorf("case reference must be exactly 16 digits")
	}

	ref := CaseReference(s)
	if !ref.IsValid() {
		return "", fmt.Errorf("invalid case reference check digit")
	}

	return ref, nil
}

// String returns the string representation
func (r CaseReference) String() string {
	return string(r)
}

// IsValid validates the Luhn check digit
func (r CaseReference) IsValid() bool {
	if len(r) != 16 {
		return false
	}

	sum := 0
	double := false
	for i := len(r) - 1; i >= 0; i-- {
		d := int(r[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	return sum%10 == 0
}

// IsZero checks if the reference is empty
func (r CaseReference) IsZero() bool {
	return r == ""
}
