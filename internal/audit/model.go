// Package audit records what happened to a case: each submitted event
// is written to the case's audit trail with a snapshot of the data,
// the user who acted, and the classification the record carries.
package audit

import (
	"encoding/json"
	"time"

	"github.com/justice-gov/casedata/internal/accesscontrol"
	"github.com/justice-gov/casedata/internal/shared/types"
)

// AuditEvent is one entry in a case's audit trail.
type AuditEvent struct {
	ID             types.ID                             `json:"id"`
	CaseID         int64                                `json:"case_id"`
	EventID        string                               `json:"event_id"`
	EventName      string                               `json:"event_name"`
	Summary        string                               `json:"summary"`
	Description    string                               `json:"description"`
	UserID         string                               `json:"user_id"`
	UserFirstName  string                               `json:"user_first_name"`
	UserLastName   string                               `json:"user_last_name"`
	JurisdictionID string                               `json:"jurisdiction_id"`
	CaseTypeID     string                               `json:"case_type_id"`
	StateID        string                               `json:"state_id"`
	StateName      string                               `json:"state_name"`
	Data           map[string]json.RawMessage           `json:"data"`
	SecurityLevel  accesscontrol.SecurityClassification `json:"security_classification"`
	CreatedAt      time.Time                            `json:"created_at"`
}

// Classification returns the entry's classification.
func (e *AuditEvent) Classification() accesscontrol.SecurityClassification {
	return e.SecurityLevel
}
