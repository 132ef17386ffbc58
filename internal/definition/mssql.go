package definition

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/justice-gov/casedata/internal/accesscontrol"
	"github.com/justice-gov/casedata/internal/shared/errors"
)

// SQLServerRepository reads definitions from the SQL Server definition
// store. Structured parts of a definition (states, events, fields,
// ACLs) are stored as JSON blobs next to the scalar columns.
type SQLServerRepository struct {
	db *sql.DB
}

// NewSQLServerRepository creates a repository over an open connection
// pool.
func NewSQLServerRepository(db *sql.DB) *SQLServerRepository {
	return &SQLServerRepository{db: db}
}

// Jurisdictions returns every jurisdiction with its case types.
func (r *SQLServerRepository) Jurisdictions(ctx context.Context) ([]Jurisdiction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description FROM jurisdiction ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query jurisdictions: %w", err)
	}
	defer rows.Close()

	var jurisdictions []Jurisdiction
	for rows.Next() {
		var j Jurisdiction
		if err := rows.Scan(&j.ID, &j.Name, &j.Description); err != nil {
			return nil, fmt.Errorf("failed to scan jurisdiction: %w", err)
		}
		jurisdictions = append(jurisdictions, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range jurisdictions {
		caseTypes, err := r.caseTypesFor(ctx, jurisdictions[i].ID)
		if err != nil {
			return nil, err
		}
		jurisdictions[i].CaseTypes = caseTypes
	}
	return jurisdictions, nil
}

// Jurisdiction returns one jurisdiction with its case types.
func (r *SQLServerRepository) Jurisdiction(ctx context.Context, jurisdictionID string) (*Jurisdiction, error) {
	var j Jurisdiction
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM jurisdiction WHERE id = @p1`,
		jurisdictionID).Scan(&j.ID, &j.Name, &j.Description)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("jurisdiction", jurisdictionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query jurisdiction: %w", err)
	}

	j.CaseTypes, err = r.caseTypesFor(ctx, j.ID)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CaseType returns one case type by ID.
func (r *SQLServerRepository) CaseType(ctx context.Context, caseTypeID string) (*CaseType, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, jurisdiction_id, security_classification,
		        states, events, case_fields, acl
		   FROM case_type WHERE id = @p1`, caseTypeID)

	ct, err := scanCaseType(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("case type", caseTypeID)
	}
	if err != nil {
		return nil, err
	}
	return ct, nil
}

func (r *SQLServerRepository) caseTypesFor(ctx context.Context, jurisdictionID string) ([]CaseType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, jurisdiction_id, security_classification,
		        states, events, case_fields, acl
		   FROM case_type WHERE jurisdiction_id = @p1 ORDER BY id`, jurisdictionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query case types: %w", err)
	}
	defer rows.Close()

	var caseTypes []CaseType
	for rows.Next() {
		ct, err := scanCaseType(rows)
		if err != nil {
			return nil, err
		}
		caseTypes = append(caseTypes, *ct)
	}
	return caseTypes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCaseType(row rowScanner) (*CaseType, error) {
	var (
		ct             CaseType
		classification string
		statesJSON     []byte
		eventsJSON     []byte
		fieldsJSON     []byte
		aclJSON        []byte
	)
	err := row.Scan(&ct.ID, &ct.Name, &ct.Description, &ct.JurisdictionID,
		&classification, &statesJSON, &eventsJSON, &fieldsJSON, &aclJSON)
	if err != nil {
		return nil, err
	}

	ct.Classification, err = accesscontrol.ParseClassification(classification)
	if err != nil {
		return nil, fmt.Errorf("case type %s: %w", ct.ID, err)
	}
	if err := json.Unmarshal(statesJSON, &ct.States); err != nil {
		return nil, fmt.Errorf("case type %s: failed to decode states: %w", ct.ID, err)
	}
	if err := json.Unmarshal(eventsJSON, &ct.Events); err != nil {
		return nil, fmt.Errorf("case type %s: failed to decode events: %w", ct.ID, err)
	}
	if err := json.Unmarshal(fieldsJSON, &ct.Fields); err != nil {
		return nil, fmt.Errorf("case type %s: failed to decode fields: %w", ct.ID, err)
	}
	if len(aclJSON) > 0 {
		if err := json.Unmarshal(aclJSON, &ct.ACL); err != nil {
			return nil, fmt.Errorf("case type %s: failed to decode acl: %w", ct.ID, err)
		}
	}
	return &ct, nil
}

// UserRoles returns the role classification mapping for a jurisdiction.
func (r *SQLServerRepository) UserRoles(ctx context.Context, jurisdictionID string) ([]UserRole, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role, security_classification
		   FROM user_role WHERE jurisdiction_id = @p1`, jurisdictionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer rows.Close()

	var userRoles []UserRole
	for rows.Next() {
		var (
			role           string
			classification string
		)
		if err := rows.Scan(&role, &classification); err != nil {
			return nil, fmt.Errorf("failed to scan user role: %w", err)
		}
		level, err := accesscontrol.ParseClassification(classification)
		if err != nil {
			return nil, fmt.Errorf("role %s: %w", role, err)
		}
		userRoles = append(userRoles, UserRole{
			Role:           accesscontrol.Role(role),
			Classification: level,
		})
	}
	return userRoles, rows.Err()
}

// Banners returns the enabled banners for the given jurisdictions.
func (r *SQLServerRepository) Banners(ctx context.Context, jurisdictionIDs []string) ([]Banner, error) {
	if len(jurisdictionIDs) == 0 {
		return []Banner{}, nil
	}

	placeholders := make([]string, len(jurisdictionIDs))
	args := make([]interface{}, len(jurisdictionIDs))
	for i, id := range jurisdictionIDs {
		placeholders[i] = fmt.Sprintf("@p%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT jurisdiction_id, description, enabled, url, url_text
		   FROM banner WHERE enabled = 1 AND jurisdiction_id IN (%s)`,
		strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query banners: %w", err)
	}
	defer rows.Close()

	banners := []Banner{}
	for rows.Next() {
		var b Banner
		if err := rows.Scan(&b.JurisdictionID, &b.Description, &b.Enabled, &b.URL, &b.URLText); err != nil {
			return nil, fmt.Errorf("failed to scan banner: %w", err)
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}
