// Package getevents serves a case's audit trail. The plain operation
// reads the trail; decorators narrow it to what the caller may see.
package getevents

import (
	"context"

	"github.com/justice-gov/casedata/internal/audit"
	"github.com/justice-gov/casedata/internal/casedetails"
	"github.com/justice-gov/casedata/internal/shared/types"
)

// Operation fetches audit events for a case.
type Operation interface {
	ForCase(ctx context.Context, details *casedetails.CaseDetails) ([]*audit.AuditEvent, error)
	ForCaseReference(ctx context.Context, reference string) ([]*audit.AuditEvent, error)
	ByID(ctx context.Context, id types.ID) (*audit.AuditEvent, error)
}

// EventSource reads the stored audit trail.
type EventSource interface {
	CaseEvents(ctx context.Context, caseID int64) ([]*audit.AuditEvent, error)
	FindEvent(ctx context.Context, id types.ID) (*audit.AuditEvent, error)
}

// CaseSource resolves case references to case records.
type CaseSource interface {
	GetCase(ctx context.Context, reference string) (*casedetails.CaseDetails, error)
}

// DefaultOperation reads the trail without any filtering. It is always
// wrapped before being exposed to callers.
type DefaultOperation struct {
	events EventSource
	cases  CaseSource
}

// NewDefaultOperation creates the unfiltered operation.
func NewDefaultOperation(events EventSource, cases CaseSource) *DefaultOperation {
	return &DefaultOperation{events: events, cases: cases}
}

// ForCase returns the case's audit trail.
func (o *DefaultOperation) ForCase(ctx context.Context, details *casedetails.CaseDetails) ([]*audit.AuditEvent, error) {
	return o.events.CaseEvents(ctx, details.ID)
}

// ForCaseReference resolves the reference and returns the trail.
func (o *DefaultOperation) ForCaseReference(ctx context.Context, reference string) ([]*audit.AuditEvent, error) {
	details, err := o.cases.GetCase(ctx, reference)
	if err != nil {
		return nil, err
	}
	return o.ForCase(ctx, details)
}

// ByID returns one audit event.
func (o *DefaultOperation) ByID(ctx context.Context, id types.ID) (*audit.AuditEvent, error) {
	return o.events.FindEvent(ctx, id)
}
