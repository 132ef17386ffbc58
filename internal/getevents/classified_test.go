package getevents

import (
	"context"
	"testing"

	"github.com/justice-gov/casedata/internal/accesscontrol"
	"github.com/justice-gov/casedata/internal/audit"
	"github.com/justice-gov/casedata/internal/casedetails"
	"github.com/justice-gov/casedata/internal/shared/errors"
	"github.com/justice-gov/casedata/internal/shared/types"
)

type stubInner struct {
	events []*audit.AuditEvent
	event  *audit.AuditEvent
	err    error
}

func (s *stubInner) ForCase(ctx context.Context, details *casedetails.CaseDetails) ([]*audit.AuditEvent, error) {
	return s.events, s.err
}

func (s *stubInner) ForCaseReference(ctx context.Context, reference string) ([]*audit.AuditEvent, error) {
	return s.events, s.err
}

func (s *stubInner) ByID(ctx context.Context, id types.ID) (*audit.AuditEvent, error) {
	return s.event, s.err
}

type countingRoleSource struct {
	roles []accesscontrol.Role
	calls int
}

func (c *countingRoleSource) UserRoles(ctx context.Context) ([]accesscontrol.Role, error) {
	c.calls++
	return c.roles, nil
}

type fixedClassifications map[accesscontrol.Role]accesscontrol.SecurityClassification

func (f fixedClassifications) RoleClassification(ctx context.Context, jurisdictionID string, role accesscontrol.Role) (accesscontrol.SecurityClassification, bool, error) {
	level, ok := f[role]
	return level, ok, nil
}

func newTestService(roleSource *countingRoleSource) *accesscontrol.ClassificationService {
	return accesscontrol.NewClassificationService(roleSource, fixedClassifications{
		"caseworker-probate": accesscontrol.ClassificationPrivate,
	})
}

func probateCase() *casedetails.CaseDetails {
	return &casedetails.CaseDetails{ID: 100, JurisdictionID: "PROBATE"}
}

func TestForCaseEmptyTrailSkipsClassification(t *testing.T) {
	roleSource := &countingRoleSource{roles: []accesscontrol.Role{"caseworker-probate"}}
	op := NewClassifiedOperation(&stubInner{events: nil}, newTestService(roleSource))

	events, err := op.ForCase(context.Background(), probateCase())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if events == nil {
		t.Fatal("Expected empty non-nil trail")
	}
	if len(events) != 0 {
		t.Errorf("Expected no events, got %d", len(events))
	}
	if roleSource.calls != 0 {
		t.Errorf("Classification should not be resolved for an empty trail, %d calls", roleSource.calls)
	}
}

func TestForCaseFiltersByClassification(t *testing.T) {
	visible := &audit.AuditEvent{
		ID:             types.NewID(),
		JurisdictionID: "PROBATE",
		SecurityLevel:  accesscontrol.ClassificationPublic,
	}
	hidden := &audit.AuditEvent{
		ID:             types.NewID(),
		JurisdictionID: "PROBATE",
		SecurityLevel:  accesscontrol.ClassificationRestricted,
	}

	roleSource := &countingRoleSource{roles: []accesscontrol.Role{"caseworker-probate"}}
	op := NewClassifiedOperation(&stubInner{events: []*audit.AuditEvent{visible, hidden}}, newTestService(roleSource))

	events, err := op.ForCase(context.Background(), probateCase())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}

	// The surviving entry is the stored instance, not a copy
	if events[0] != visible {
		t.Error("Expected the surviving event to be the same instance")
	}

	if roleSource.calls != 1 {
		t.Errorf("Classification should be resolved once per trail, %d calls", roleSource.calls)
	}
}

func TestForCaseReferenceUsesEventJurisdiction(t *testing.T) {
	event := &audit.AuditEvent{
		ID:             types.NewID(),
		JurisdictionID: "PROBATE",
		SecurityLevel:  accesscontrol.ClassificationPrivate,
	}

	roleSource := &countingRoleSource{roles: []accesscontrol.Role{"caseworker-probate"}}
	op := NewClassifiedOperation(&stubInner{events: []*audit.AuditEvent{event}}, newTestService(roleSource))

	events, err := op.ForCaseReference(context.Background(), "1614249749110028")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(events) != 1 || events[0] != event {
		t.Errorf("Expected the event to survive, got %v", events)
	}
}

func TestByID(t *testing.T) {
	t.Run("Visible event is returned unchanged", func(t *testing.T) {
		event := &audit.AuditEvent{
			ID:             types.NewID(),
			JurisdictionID: "PROBATE",
			SecurityLevel:  accesscontrol.ClassificationPrivate,
		}
		roleSource := &countingRoleSource{roles: []accesscontrol.Role{"caseworker-probate"}}
		op := NewClassifiedOperation(&stubInner{event: event}, newTestService(roleSource))

		got, err := op.ByID(context.Background(), event.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != event {
			t.Error("Expected the same instance back")
		}
	})

	t.Run("Covered up as not found", func(t *testing.T) {
		event := &audit.AuditEvent{
			ID:             types.NewID(),
			JurisdictionID: "PROBATE",
			SecurityLevel:  accesscontrol.ClassificationRestricted,
		}
		roleSource := &countingRoleSource{roles: []accesscontrol.Role{"caseworker-probate"}}
		op := NewClassifiedOperation(&stubInner{event: event}, newTestService(roleSource))

		_, err := op.ByID(context.Background(), event.ID)
		if !errors.Is(err, errors.ErrNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
	})

	t.Run("Missing event passes through", func(t *testing.T) {
		roleSource := &countingRoleSource{}
		op := NewClassifiedOperation(&stubInner{}, newTestService(roleSource))

		got, err := op.ByID(context.Background(), types.NewID())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil, got %v", got)
		}
		if roleSource.calls != 0 {
			t.Error("Classification should not be resolved for a missing event")
		}
	})
}
