package getevents

import (
	"context"

	"github.com/justice-gov/casedata/internal/accesscontrol"
	"github.com/justice-gov/casedata/internal/audit"
	"github.com/justice-gov/casedata/internal/casedetails"
	"github.com/justice-gov/casedata/internal/shared/errors"
	"github.com/justice-gov/casedata/internal/shared/metrics"
	"github.com/justice-gov/casedata/internal/shared/types"
)

// ClassifiedOperation narrows the trail to the entries the user's
// classification covers. An empty trail is answered without resolving
// the user's classification at all.
type ClassifiedOperation struct {
	inner           Operation
	classifications *accesscontrol.ClassificationService
}

// NewClassifiedOperation decorates an operation with classification
// filtering.
func NewClassifiedOperation(inner Operation, classifications *accesscontrol.ClassificationService) *ClassifiedOperation {
	return &ClassifiedOperation{inner: inner, classifications: classifications}
}

// ForCase returns the entries of the case's trail the user may see.
func (o *ClassifiedOperation) ForCase(ctx context.Context, details *casedetails.CaseDetails) ([]*audit.AuditEvent, error) {
	events, err := o.inner.ForCase(ctx, details)
	if err != nil {
		return nil, err
	}
	return o.filter(ctx, details.JurisdictionID, events)
}

// ForCaseReference returns the visible entries for a case reference.
func (o *ClassifiedOperation) ForCaseReference(ctx context.Context, reference string) ([]*audit.AuditEvent, error) {
	events, err := o.inner.ForCaseReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []*audit.AuditEvent{}, nil
	}
	// Every entry of one trail shares the case's jurisdiction.
	return o.filter(ctx, events[0].JurisdictionID, events)
}

// ByID returns the event when the user's classification covers it, and
// not found when it does not. The caller cannot distinguish an entry
// that does not exist from one it may not see.
func (o *ClassifiedOperation) ByID(ctx context.Context, id types.ID) (*audit.AuditEvent, error) {
	event, err := o.inner.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, nil
	}

	level, err := o.classifications.UserClassification(ctx, event.JurisdictionID)
	if err != nil {
		return nil, err
	}
	if !level.Covers(event.Classification()) {
		return nil, errors.NotFound("audit event", id.String())
	}
	return event, nil
}

func (o *ClassifiedOperation) filter(ctx context.Context, jurisdictionID string, events []*audit.AuditEvent) ([]*audit.AuditEvent, error) {
	if len(events) == 0 {
		return []*audit.AuditEvent{}, nil
	}

	level, err := o.classifications.UserClassification(ctx, jurisdictionID)
	if err != nil {
		return nil, err
	}
	visible := accesscontrol.FilterVisible(level, events)
	metrics.RecordClassificationFiltered("audit_event", len(events)-len(visible))
	return visible, nil
}
