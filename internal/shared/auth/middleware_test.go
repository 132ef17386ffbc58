package auth

import (
	"context"
	"testing"

	"github.com/justice-gov/casedata/internal/accesscontrol"
	"github.com/justice-gov/casedata/internal/shared/errors"
)

func contextWithUser(user *User) context.Context {
	return context.WithValue(context.Background(), UserContextKey, user)
}

func TestContextRoleSource(t *testing.T) {
	source := ContextRoleSource{}

	t.Run("No user is unauthorized", func(t *testing.T) {
		_, err := source.UserRoles(context.Background())
		if !errors.Is(err, errors.ErrUnauthorized) {
			t.Errorf("Expected unauthorized, got %v", err)
		}
	})

	t.Run("Missing roles claim is broken identity data", func(t *testing.T) {
		ctx := contextWithUser(&User{ID: "user-1"})

		_, err := source.UserRoles(ctx)
		if !errors.Is(err, errors.ErrDataIntegrity) {
			t.Errorf("Expected data integrity error, got %v", err)
		}
	})

	t.Run("Empty roles claim is a valid user", func(t *testing.T) {
		ctx := contextWithUser(&User{ID: "user-1", Roles: []accesscontrol.Role{}})

		roles, err := source.UserRoles(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if roles == nil || len(roles) != 0 {
			t.Errorf("Expected empty non-nil roles, got %v", roles)
		}
	})

	t.Run("Roles pass through", func(t *testing.T) {
		ctx := contextWithUser(&User{ID: "user-1", Roles: []accesscontrol.Role{"caseworker-probate"}})

		roles, err := source.UserRoles(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(roles) != 1 || roles[0] != "caseworker-probate" {
			t.Errorf("Unexpected roles %v", roles)
		}
	})
}
