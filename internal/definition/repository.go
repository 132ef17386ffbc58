package definition

import (
	"context"
	"sync"

	"github.com/justice-gov/casedata/internal/accesscontrol"
)

// Repository reads definitions from the definition store.
type Repository interface {
	Jurisdictions(ctx context.Context) ([]Jurisdiction, error)
	Jurisdiction(ctx context.Context, jurisdictionID string) (*Jurisdiction, error)
	CaseType(ctx context.Context, caseTypeID string) (*CaseType, error)
	UserRoles(ctx context.Context, jurisdictionID string) ([]UserRole, error)
	Banners(ctx context.Context, jurisdictionIDs []string) ([]Banner, error)
}

// ClassificationDirectory serves role classifications from an
// in-memory snapshot, loading each jurisdiction's mapping on first
// use. Definitions change rarely, so the snapshot lives for the
// process lifetime.
type ClassificationDirectory struct {
	repo Repository

	mu     sync.RWMutex
	loaded map[string]map[accesscontrol.Role]accesscontrol.SecurityClassification
}

// NewClassificationDirectory creates a directory over the repository.
func NewClassificationDirectory(repo Repository) *ClassificationDirectory {
	return &ClassificationDirectory{
		repo:   repo,
		loaded: make(map[string]map[accesscontrol.Role]accesscontrol.SecurityClassification),
	}
}

// Load fetches and caches the role classifications for a jurisdiction.
func (d *ClassificationDirectory) Load(ctx context.Context, jurisdictionID string) error {
	roles, err := d.repo.UserRoles(ctx, jurisdictionID)
	if err != nil {
		return err
	}

	mapping := make(map[accesscontrol.Role]accesscontrol.SecurityClassification, len(roles))
	for _, r := range roles {
		mapping[r.Role] = r.Classification
	}

	d.mu.Lock()
	d.loaded[jurisdictionID] = mapping
	d.mu.Unlock()
	return nil
}

// RoleClassification returns the classification for a role within a
// jurisdiction, fetching the jurisdiction's mapping from the store the
// first time it is asked about. Unmapped roles report false.
func (d *ClassificationDirectory) RoleClassification(ctx context.Context, jurisdictionID string, role accesscontrol.Role) (accesscontrol.SecurityClassification, bool, error) {
	d.mu.RLock()
	mapping, ok := d.loaded[jurisdictionID]
	d.mu.RUnlock()

	if !ok {
		if err := d.Load(ctx, jurisdictionID); err != nil {
			return accesscontrol.ClassificationPublic, false, err
		}
		d.mu.RLock()
		mapping = d.loaded[jurisdictionID]
		d.mu.RUnlock()
	}

	level, ok := mapping[role]
	return level, ok, nil
}
