package definition

import (
	"context"
	"errors"
	"testing"

	"github.com/justice-gov/casedata/internal/accesscontrol"
)

func probateCaseType() CaseType {
	return CaseType{
		ID:             "GrantOfRepresentation",
		JurisdictionID: "PROBATE",
		States: []CaseState{
			{ID: "CaseCreated", Name: "Case created"},
			{ID: "CaseIssued", Name: "Case issued"},
		},
		Events: []CaseEvent{
			{
				ID:   "applyForGrant",
				Name: "Apply for grant",
				WizardPages: []WizardPage{
					{ID: "applicantDetails", CallbackURLMidEvent: "http://callbacks/applicant"},
					{ID: "deceasedDetails"},
				},
			},
			{ID: "issueGrant", Name: "Issue grant"},
		},
	}
}

func TestFindEvent(t *testing.T) {
	ct := probateCaseType()

	event := ct.FindEvent("issueGrant")
	if event == nil {
		t.Fatal("Expected to find event")
	}
	if event.Name != "Issue grant" {
		t.Errorf("Expected 'Issue grant', got %q", event.Name)
	}

	if ct.FindEvent("unknownEvent") != nil {
		t.Error("Expected nil for unknown event")
	}
}

func TestFindWizardPage(t *testing.T) {
	ct := probateCaseType()
	event := ct.FindEvent("applyForGrant")

	page := event.FindWizardPage("applicantDetails")
	if page == nil {
		t.Fatal("Expected to find wizard page")
	}
	if page.CallbackURLMidEvent != "http://callbacks/applicant" {
		t.Errorf("Unexpected callback URL %q", page.CallbackURLMidEvent)
	}

	if event.FindWizardPage("missingPage") != nil {
		t.Error("Expected nil for unknown page")
	}
}

type stubDefinitionRepo struct {
	Repository
	userRoles map[string][]UserRole
	err       error
	calls     int
}

func (s *stubDefinitionRepo) UserRoles(ctx context.Context, jurisdictionID string) ([]UserRole, error) {
	s.calls++
	return s.userRoles[jurisdictionID], s.err
}

func probateRoles() map[string][]UserRole {
	return map[string][]UserRole{
		"PROBATE": {
			{Role: "caseworker-probate", Classification: accesscontrol.ClassificationPrivate},
			{Role: "caseworker-probate-issuer", Classification: accesscontrol.ClassificationRestricted},
		},
	}
}

func TestClassificationDirectory(t *testing.T) {
	t.Run("Loads a jurisdiction on first lookup", func(t *testing.T) {
		repo := &stubDefinitionRepo{userRoles: probateRoles()}
		dir := NewClassificationDirectory(repo)

		level, ok, err := dir.RoleClassification(context.Background(), "PROBATE", "caseworker-probate")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !ok || level != accesscontrol.ClassificationPrivate {
			t.Errorf("Expected PRIVATE, got %v (ok=%v)", level, ok)
		}
		if repo.calls != 1 {
			t.Errorf("Expected 1 store fetch, got %d", repo.calls)
		}
	})

	t.Run("Serves later lookups from the snapshot", func(t *testing.T) {
		repo := &stubDefinitionRepo{userRoles: probateRoles()}
		dir := NewClassificationDirectory(repo)

		dir.RoleClassification(context.Background(), "PROBATE", "caseworker-probate")
		if _, ok, _ := dir.RoleClassification(context.Background(), "PROBATE", "citizen"); ok {
			t.Error("Expected no classification for unmapped role")
		}
		if repo.calls != 1 {
			t.Errorf("Expected the jurisdiction to be fetched once, got %d fetches", repo.calls)
		}

		// A second jurisdiction triggers its own fetch
		if _, ok, _ := dir.RoleClassification(context.Background(), "DIVORCE", "caseworker-probate"); ok {
			t.Error("Expected no classification for a jurisdiction with no mappings")
		}
		if repo.calls != 2 {
			t.Errorf("Expected 2 store fetches, got %d", repo.calls)
		}
	})

	t.Run("Store failure surfaces", func(t *testing.T) {
		repo := &stubDefinitionRepo{err: errDefinitionStore}
		dir := NewClassificationDirectory(repo)

		if _, _, err := dir.RoleClassification(context.Background(), "PROBATE", "caseworker-probate"); err == nil {
			t.Error("Expected the store error to surface")
		}
	})
}

type fixedRoleSource []accesscontrol.Role

func (f fixedRoleSource) UserRoles(ctx context.Context) ([]accesscontrol.Role, error) {
	return f, nil
}

var errDefinitionStore = errors.New("definition store unavailable")

// The directory feeds the classification service without any explicit
// preload step, exactly as the production wiring uses it.
func TestClassificationDirectoryServesUserClassification(t *testing.T) {
	repo := &stubDefinitionRepo{userRoles: probateRoles()}
	svc := accesscontrol.NewClassificationService(
		fixedRoleSource{"caseworker-probate-issuer"},
		NewClassificationDirectory(repo),
	)

	level, err := svc.UserClassification(context.Background(), "PROBATE")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if level != accesscontrol.ClassificationRestricted {
		t.Errorf("Expected RESTRICTED, got %v", level)
	}
}
