// Package casedetails holds the runtime case record: the data a case
// has accumulated, its current state, and the classification attached
// to the record and to each field.
package casedetails

import (
	"encoding/json"
	"time"

	"github.com/justice-gov/casedata/internal/accesscontrol"
	"github.com/justice-gov/casedata/internal/shared/types"
)

// CaseDetails is one case as stored in the case data store. ID is the
// internal database identity; Reference is the public 16 digit number
// users quote.
type CaseDetails struct {
	ID                 int64                                 `json:"id"`
	Reference          types.CaseReference                   `json:"case_reference"`
	JurisdictionID     string                                `json:"jurisdiction_id"`
	CaseTypeID         string                                `json:"case_type_id"`
	State              string                                `json:"state"`
	SecurityLevel      accesscontrol.SecurityClassification  `json:"security_classification"`
	Data               map[string]json.RawMessage            `json:"case_data"`
	DataClassification map[string]json.RawMessage            `json:"data_classification"`
	Version            int                                   `json:"version"`
	CreatedAt          time.Time                             `json:"created_at"`
	LastModified       time.Time                             `json:"last_modified"`
}

// Classification returns the record level classification.
func (c *CaseDetails) Classification() accesscontrol.SecurityClassification {
	return c.SecurityLevel
}

// Clone returns a deep copy. The data maps are copied so callbacks and
// filters can rework a copy without touching the stored record.
func (c *CaseDetails) Clone() *CaseDetails {
	clone := *c
	clone.Data = cloneData(c.Data)
	clone.DataClassification = cloneData(c.DataClassification)
	return &clone
}

func cloneData(data map[string]json.RawMessage) map[string]json.RawMessage {
	copied := make(map[string]json.RawMessage, len(data))
	for k, v := range data {
		raw := make(json.RawMessage, len(v))
		copy(raw, v)
		copied[k] = raw
	}
	return copied
}
