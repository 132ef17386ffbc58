// Package createevent drives the submission of a case event: wizard
// page callbacks while the user fills the event in, and the bookwork
// around accepting the submitted data.
package createevent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/justice-gov/casedata/internal/casedetails"
	"github.com/justice-gov/casedata/internal/shared/errors"
)

// CallbackRequest is the payload sent to a definition's callback URL.
// CaseDetails is the not-yet-persisted record the event would produce,
// so the callback sees the case as it will look, not as it is stored.
type CallbackRequest struct {
	EventID        string                     `json:"event_id"`
	CaseTypeID     string                     `json:"case_type_id"`
	JurisdictionID string                     `json:"jurisdiction_id"`
	PageID         string                     `json:"page_id,omitempty"`
	CaseReference  string                     `json:"case_reference,omitempty"`
	CaseDetails    *casedetails.CaseDetails   `json:"case_details"`
	Data           map[string]json.RawMessage `json:"data"`
	DataHash       string                     `json:"data_hash"`
}

// CallbackResponse is what a callback service answers with. Data, when
// present, replaces the submitted data; Errors abort the event.
type CallbackResponse struct {
	Data     map[string]json.RawMessage `json:"data,omitempty"`
	Errors   []string                   `json:"errors,omitempty"`
	Warnings []string                   `json:"warnings,omitempty"`
}

// Invoker posts callback requests to definition-configured URLs.
type Invoker interface {
	Invoke(ctx context.Context, url string, request CallbackRequest) (*CallbackResponse, error)
}

// HTTPInvoker is the production invoker.
type HTTPInvoker struct {
	httpClient *http.Client
}

// NewHTTPInvoker creates an invoker with the given timeout.
func NewHTTPInvoker(timeout time.Duration) *HTTPInvoker {
	return &HTTPInvoker{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Invoke posts the request and decodes the response. A callback that
// answers with errors fails the invocation.
func (i *HTTPInvoker) Invoke(ctx context.Context, url string, request CallbackRequest) (*CallbackResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal callback request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("callback request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.BadRequest(fmt.Sprintf("callback %s answered %d", url, resp.StatusCode))
	}

	var callbackResp CallbackResponse
	if err := json.NewDecoder(resp.Body).Decode(&callbackResp); err != nil {
		return nil, fmt.Errorf("failed to decode callback response: %w", err)
	}

	if len(callbackResp.Errors) > 0 {
		return nil, errors.Validation("callback rejected the data", map[string]string{
			"callback": url,
			"errors":   fmt.Sprintf("%v", callbackResp.Errors),
		})
	}
	return &callbackResp, nil
}

// NewCallbackRequest builds the payload for a case: a fresh unsaved
// case details value over the submitted data, hashed so the callback
// consumer can verify the data was not tampered with in flight.
func NewCallbackRequest(eventID, caseTypeID, jurisdictionID, pageID string, data map[string]json.RawMessage) (CallbackRequest, error) {
	details := casedetails.NewCaseDetails(jurisdictionID, caseTypeID, data)
	hash, err := casedetails.HashData(details.Data)
	if err != nil {
		return CallbackRequest{}, err
	}
	return CallbackRequest{
		EventID:        eventID,
		CaseTypeID:     caseTypeID,
		JurisdictionID: jurisdictionID,
		PageID:         pageID,
		CaseDetails:    details,
		Data:           details.Data,
		DataHash:       hash,
	}, nil
}
