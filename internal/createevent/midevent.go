package createevent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/justice-gov/casedata/internal/definition"
	"github.com/justice-gov/casedata/internal/shared/errors"
	"github.com/justice-gov/casedata/internal/shared/metrics"
)

// MidEventCallback runs the callback a wizard page declares while the
// user is part way through submitting an event.
type MidEventCallback struct {
	definitions definition.Repository
	invoker     Invoker
}

// NewMidEventCallback creates the callback runner.
func NewMidEventCallback(definitions definition.Repository, invoker Invoker) *MidEventCallback {
	return &MidEventCallback{definitions: definitions, invoker: invoker}
}

// Invoke runs the mid event callback for one wizard page and returns
// the data to continue with. No page means no callback: the data is
// returned untouched and nothing is looked up. A page that names no
// callback URL passes the data through unchanged. Naming a page the
// event does not have is a caller mistake and is rejected.
func (c *MidEventCallback) Invoke(ctx context.Context, caseTypeID, eventID, pageID string, data map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	if pageID == "" {
		return data, nil
	}

	caseType, err := c.definitions.CaseType(ctx, caseTypeID)
	if err != nil {
		return nil, err
	}

	event := caseType.FindEvent(eventID)
	if event == nil {
		return nil, errors.NotFound("event", eventID)
	}

	page := event.FindWizardPage(pageID)
	if page == nil {
		return nil, errors.BadRequest(fmt.Sprintf("event %s has no wizard page %s", eventID, pageID))
	}

	if page.CallbackURLMidEvent == "" {
		return data, nil
	}

	request, err := NewCallbackRequest(eventID, caseType.ID, caseType.JurisdictionID, pageID, data)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	response, err := c.invoker.Invoke(ctx, page.CallbackURLMidEvent, request)
	if err != nil {
		metrics.RecordCallback("mid_event", "error", time.Since(start))
		return nil, err
	}
	metrics.RecordCallback("mid_event", "ok", time.Since(start))

	if response.Data == nil {
		return data, nil
	}
	return response.Data, nil
}
