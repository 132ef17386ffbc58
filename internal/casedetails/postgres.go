package casedetails

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justice-gov/casedata/internal/accesscontrol"
	"github.com/justice-gov/casedata/internal/shared/errors"
	"github.com/justice-gov/casedata/internal/shared/types"
)

// PostgresRepository stores case records in the case_data table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository over the pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const caseColumns = `id, case_reference, jurisdiction_id, case_type_id, state,
	security_classification, case_data, data_classification, version,
	created_at, last_modified`

// FindByID returns the case with the internal ID.
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*CaseDetails, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+caseColumns+` FROM case_data WHERE id = $1`, id)
	details, err := scanCase(row)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("case", fmt.Sprintf("%d", id))
	}
	return details, err
}

// FindByReference returns the case with the public reference.
func (r *PostgresRepository) FindByReference(ctx context.Context, reference types.CaseReference) (*CaseDetails, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+caseColumns+` FROM case_data WHERE case_reference = $1`,
		reference.String())
	details, err := scanCase(row)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("case", reference.String())
	}
	return details, err
}

// Save inserts a new case record.
func (r *PostgresRepository) Save(ctx context.Context, details *CaseDetails) error {
	now := time.Now().UTC()
	details.CreatedAt = now
	details.LastModified = now
	details.Version = 1

	dataJSON, classJSON, err := encodeDataColumns(details)
	if err != nil {
		return err
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO case_data (case_reference, jurisdiction_id, case_type_id, state,
			security_classification, case_data, data_classification, version,
			created_at, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		details.Reference.String(), details.JurisdictionID, details.CaseTypeID,
		details.State, details.SecurityLevel.String(), dataJSON, classJSON,
		details.Version, details.CreatedAt, details.LastModified,
	).Scan(&details.ID)
	if err != nil {
		return fmt.Errorf("failed to save case: %w", err)
	}
	return nil
}

// Update writes a modified case record back, guarded by optimistic
// locking on the version column.
func (r *PostgresRepository) Update(ctx context.Context, details *CaseDetails) error {
	dataJSON, classJSON, err := encodeDataColumns(details)
	if err != nil {
		return err
	}

	details.LastModified = time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `
		UPDATE case_data
		   SET state = $1, security_classification = $2, case_data = $3,
		       data_classification = $4, version = version + 1, last_modified = $5
		 WHERE id = $6 AND version = $7`,
		details.State, details.SecurityLevel.String(), dataJSON, classJSON,
		details.LastModified, details.ID, details.Version)
	if err != nil {
		return fmt.Errorf("failed to update case: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Conflict("case was modified concurrently")
	}
	details.Version++
	return nil
}

func encodeDataColumns(details *CaseDetails) ([]byte, []byte, error) {
	dataJSON, err := json.Marshal(details.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode case data: %w", err)
	}
	classJSON, err := json.Marshal(details.DataClassification)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode data classification: %w", err)
	}
	return dataJSON, classJSON, nil
}

func scanCase(row pgx.Row) (*CaseDetails, error) {
	var (
		details        CaseDetails
		reference      string
		classification string
		dataJSON       []byte
		classJSON      []byte
	)
	err := row.Scan(&details.ID, &reference, &details.JurisdictionID,
		&details.CaseTypeID, &details.State, &classification,
		&dataJSON, &classJSON, &details.Version,
		&details.CreatedAt, &details.LastModified)
	if err != nil {
		return nil, err
	}

	details.Reference = types.CaseReference(reference)
	details.SecurityLevel, err = accesscontrol.ParseClassification(classification)
	if err != nil {
		return nil, fmt.Errorf("case %d: %w", details.ID, err)
	}
	if err := json.Unmarshal(dataJSON, &details.Data); err != nil {
		return nil, fmt.Errorf("case %d: failed to decode data: %w", details.ID, err)
	}
	if err := json.Unmarshal(classJSON, &details.DataClassification); err != nil {
		return nil, fmt.Errorf("case %d: failed to decode data classification: %w", details.ID, err)
	}
	return &details, nil
}
