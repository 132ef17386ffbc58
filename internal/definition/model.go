// Package definition holds the configuration model that drives the
// platform: jurisdictions, their case types, and the states, events,
// fields and wizard pages each case type is made of. Definitions are
// authored in the definition store and read-only at runtime.
package definition

import (
	"github.com/justice-gov/casedata/internal/accesscontrol"
)

// Jurisdiction groups the case types administered by one organisation.
type Jurisdiction struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CaseTypes   []CaseType `json:"case_types"`
}

// CaseType defines one kind of case within a jurisdiction.
type CaseType struct {
	ID                 string                                `json:"id"`
	Name               string                                `json:"name"`
	Description        string                                `json:"description"`
	JurisdictionID     string                                `json:"jurisdiction_id"`
	Classification     accesscontrol.SecurityClassification `json:"security_classification"`
	States             []CaseState                           `json:"states"`
	Events             []CaseEvent                           `json:"events"`
	Fields             []CaseField                           `json:"case_fields"`
	ACL                accesscontrol.ACL                     `json:"acl"`
}

// AccessControl returns the case type's ACL.
func (ct CaseType) AccessControl() accesscontrol.ACL { return ct.ACL }

// FindEvent returns the event with the given ID, or nil when the case
// type defines no such event.
func (ct *CaseType) FindEvent(eventID string) *CaseEvent {
	for i := range ct.Events {
		if ct.Events[i].ID == eventID {
			return &ct.Events[i]
		}
	}
	return nil
}

// CaseState is one state in a case type's lifecycle.
type CaseState struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Order       int               `json:"order"`
	ACL         accesscontrol.ACL `json:"acl"`
}

// AccessControl returns the state's ACL.
func (s CaseState) AccessControl() accesscontrol.ACL { return s.ACL }

// CaseEvent defines one transition a case type allows, including the
// wizard pages shown while the event is being submitted and the
// callbacks fired around submission.
type CaseEvent struct {
	ID                       string                                `json:"id"`
	Name                     string                                `json:"name"`
	Description              string                                `json:"description"`
	Classification           accesscontrol.SecurityClassification `json:"security_classification"`
	PreStates                []string                              `json:"pre_states"`
	PostState                string                                `json:"post_state"`
	CallbackURLAboutToStart  string                                `json:"callback_url_about_to_start"`
	CallbackURLAboutToSubmit string                                `json:"callback_url_about_to_submit"`
	WizardPages              []WizardPage                          `json:"wizard_pages"`
	ACL                      accesscontrol.ACL                     `json:"acl"`
}

// AccessControl returns the event's ACL.
func (e CaseEvent) AccessControl() accesscontrol.ACL { return e.ACL }

// FindWizardPage returns the wizard page with the given ID, or nil
// when the event defines no such page.
func (e *CaseEvent) FindWizardPage(pageID string) *WizardPage {
	for i := range e.WizardPages {
		if e.WizardPages[i].ID == pageID {
			return &e.WizardPages[i]
		}
	}
	return nil
}

// WizardPage is one screen of an event's submission journey.
type WizardPage struct {
	ID                  string   `json:"id"`
	Label               string   `json:"label"`
	Order               int      `json:"order"`
	FieldIDs            []string `json:"field_ids"`
	CallbackURLMidEvent string   `json:"callback_url_mid_event"`
}

// CaseField defines one data field of a case type.
type CaseField struct {
	ID             string                                `json:"id"`
	Label          string                                `json:"label"`
	FieldType      string                                `json:"field_type"`
	Classification accesscontrol.SecurityClassification `json:"security_classification"`
	ACL            accesscontrol.ACL                     `json:"acl"`
}

// AccessControl returns the field's ACL.
func (f CaseField) AccessControl() accesscontrol.ACL { return f.ACL }

// UserRole maps a role to the highest classification it may see within
// a jurisdiction.
type UserRole struct {
	Role           accesscontrol.Role                    `json:"role"`
	Classification accesscontrol.SecurityClassification `json:"security_classification"`
}

// Banner is a notice displayed for a jurisdiction.
type Banner struct {
	JurisdictionID string `json:"jurisdiction_id"`
	Description    string `json:"description"`
	Enabled        bool   `json:"enabled"`
	URL            string `json:"url"`
	URLText        string `json:"url_text"`
}
