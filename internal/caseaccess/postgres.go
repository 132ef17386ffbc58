package caseaccess

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justice-gov/casedata/internal/accesscontrol"
)

// PostgresGrantRepository stores grants in the case_users table.
type PostgresGrantRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresGrantRepository creates a repository over the pool.
func NewPostgresGrantRepository(pool *pgxpool.Pool) *PostgresGrantRepository {
	return &PostgresGrantRepository{pool: pool}
}

// GrantAccess records a grant. Granting the same role twice is a
// no-op.
func (r *PostgresGrantRepository) GrantAccess(ctx context.Context, caseID int64, userID string, role accesscontrol.Role) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO case_users (case_id, user_id, case_role)
		VALUES ($1, $2, $3)
		ON CONFLICT (case_id, user_id, case_role) DO NOTHING`,
		caseID, userID, string(role))
	if err != nil {
		return fmt.Errorf("failed to grant access: %w", err)
	}
	return nil
}

// RevokeAccess removes every grant the user holds on the case.
func (r *PostgresGrantRepository) RevokeAccess(ctx context.Context, caseID int64, userID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM case_users WHERE case_id = $1 AND user_id = $2`,
		caseID, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke access: %w", err)
	}
	return nil
}

// GrantedCaseIDs returns the distinct case IDs granted to the user.
func (r *PostgresGrantRepository) GrantedCaseIDs(ctx context.Context, userID string) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT case_id FROM case_users WHERE user_id = $1 ORDER BY case_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query granted cases: %w", err)
	}
	defer rows.Close()

	var caseIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan case id: %w", err)
		}
		caseIDs = append(caseIDs, id)
	}
	return caseIDs, rows.Err()
}

// CaseRoles returns the case roles granted to the user on one case.
func (r *PostgresGrantRepository) CaseRoles(ctx context.Context, caseID int64, userID string) ([]accesscontrol.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT case_role FROM case_users WHERE case_id = $1 AND user_id = $2`,
		caseID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query case roles: %w", err)
	}
	defer rows.Close()

	var roles []accesscontrol.Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan case role: %w", err)
		}
		roles = append(roles, accesscontrol.Role(role))
	}
	return roles, rows.Err()
}
