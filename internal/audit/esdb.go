package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"
	"github.com/google/uuid"

	"github.com/justice-gov/casedata/internal/shared/errors"
	"github.com/justice-gov/casedata/internal/shared/metrics"
	"github.com/justice-gov/casedata/internal/shared/types"
)

const eventType = "case-audit-entry"

// Store keeps the audit trail in EventStore. Each case has its own
// stream; every entry is also written to a per-entry stream so it can
// be fetched by ID without scanning the case stream.
type Store struct {
	client *esdb.Client
}

// NewStore creates a store over the client.
func NewStore(client *esdb.Client) *Store {
	return &Store{client: client}
}

// NewClient connects to EventStore using a connection string.
func NewClient(connectionString string) (*esdb.Client, error) {
	settings, err := esdb.ParseConnectionString(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	client, err := esdb.NewClient(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func caseStream(caseID int64) string {
	return fmt.Sprintf("case-%d", caseID)
}

func entryStream(id types.ID) string {
	return fmt.Sprintf("audit-entry-%s", id)
}

// Append writes an entry to the case stream and to its own entry
// stream. The entry is assigned an ID when it has none.
func (s *Store) Append(ctx context.Context, entry *AuditEvent) error {
	if entry.ID.IsZero() {
		entry.ID = types.NewID()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	eventID, err := uuid.Parse(entry.ID.String())
	if err != nil {
		return fmt.Errorf("invalid audit entry id: %w", err)
	}

	eventData := esdb.EventData{
		EventID:     eventID,
		EventType:   eventType,
		ContentType: esdb.ContentTypeJson,
		Data:        data,
	}

	_, err = s.client.AppendToStream(ctx, caseStream(entry.CaseID), esdb.AppendToStreamOptions{
		ExpectedRevision: esdb.Any{},
	}, eventData)
	if err != nil {
		return fmt.Errorf("failed to append to case stream: %w", err)
	}

	// The entry stream reuses the payload but needs a fresh event ID,
	// EventStore deduplicates appends by event ID within a stream scope.
	indexCopy := eventData
	indexCopy.EventID = uuid.New()
	_, err = s.client.AppendToStream(ctx, entryStream(entry.ID), esdb.AppendToStreamOptions{
		ExpectedRevision: esdb.NoStream{},
	}, indexCopy)
	if err != nil {
		return fmt.Errorf("failed to append to entry stream: %w", err)
	}
	metrics.RecordAuditEntry()
	return nil
}

// CaseEvents returns the case's audit trail, most recent first. A case
// without a stream has an empty trail.
func (s *Store) CaseEvents(ctx context.Context, caseID int64) ([]*AuditEvent, error) {
	stream, err := s.client.ReadStream(ctx, caseStream(caseID), esdb.ReadStreamOptions{
		From:      esdb.Start{},
		Direction: esdb.Forwards,
	}, 1000)
	if err != nil {
		if esdbErr, ok := esdb.FromError(err); ok && esdbErr.Code() == esdb.ErrorCodeResourceNotFound {
			return []*AuditEvent{}, nil
		}
		return nil, fmt.Errorf("failed to read case stream: %w", err)
	}
	defer stream.Close()

	var entries []*AuditEvent
	for {
		resolved, err := stream.Recv()
		if err != nil {
			if esdbErr, ok := esdb.FromError(err); ok && esdbErr.Code() == esdb.ErrorCodeResourceNotFound {
				break
			}
			break
		}
		entry, err := decodeEntry(resolved)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	// Stored oldest first, served newest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if entries == nil {
		entries = []*AuditEvent{}
	}
	return entries, nil
}

// FindEvent returns one entry by ID.
func (s *Store) FindEvent(ctx context.Context, id types.ID) (*AuditEvent, error) {
	stream, err := s.client.ReadStream(ctx, entryStream(id), esdb.ReadStreamOptions{
		From:      esdb.Start{},
		Direction: esdb.Forwards,
	}, 1)
	if err != nil {
		if esdbErr, ok := esdb.FromError(err); ok && esdbErr.Code() == esdb.ErrorCodeResourceNotFound {
			return nil, errors.NotFound("audit event", id.String())
		}
		return nil, fmt.Errorf("failed to read entry stream: %w", err)
	}
	defer stream.Close()

	resolved, err := stream.Recv()
	if err != nil {
		if esdbErr, ok := esdb.FromError(err); ok && esdbErr.Code() == esdb.ErrorCodeResourceNotFound {
			return nil, errors.NotFound("audit event", id.String())
		}
		return nil, fmt.Errorf("failed to read audit entry: %w", err)
	}
	return decodeEntry(resolved)
}

func decodeEntry(resolved *esdb.ResolvedEvent) (*AuditEvent, error) {
	var entry AuditEvent
	if err := json.Unmarshal(resolved.Event.Data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit entry: %w", err)
	}
	return &entry, nil
}
