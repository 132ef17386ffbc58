package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/justice-gov/casedata/internal/accesscontrol"
	"github.com/justice-gov/casedata/internal/shared/config"
	"github.com/justice-gov/casedata/internal/shared/errors"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// User represents the authenticated user from JWT claims
type User struct {
	ID        string               `json:"sub"`
	Email     string               `json:"email"`
	FirstName string               `json:"given_name"`
	LastName  string               `json:"family_name"`
	Roles     []accesscontrol.Role `json:"roles"`
}

// Claims extends JWT claims with platform-specific data
type Claims struct {
	jwt.RegisteredClaims
	Email     string   `json:"email"`
	FirstName string   `json:"given_name"`
	LastName  string   `json:"family_name"`
	Roles     []string `json:"roles"`
}

// Middleware creates JWT authentication middleware
func Middleware(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
				// For development, use symmetric key
				// In production, use the IdP's public key
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			claims, ok := token.Claims.(*Claims)
			if !ok || !token.Valid {
				writeError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			// A token with no roles claim at all stays nil so the
			// authorization layer can reject it as broken identity data.
			var roles []accesscontrol.Role
			if claims.Roles != nil {
				roles = make([]accesscontrol.Role, 0, len(claims.Roles))
				for _, r := range claims.Roles {
					roles = append(roles, accesscontrol.Role(r))
				}
			}

			user := &User{
				ID:        claims.Subject,
				Email:     claims.Email,
				FirstName: claims.FirstName,
				LastName:  claims.LastName,
				Roles:     roles,
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser extracts the user from request context
func GetUser(ctx context.Context) *User {
	user, ok := ctx.Value(UserContextKey).(*User)
	if !ok {
		return nil
	}
	return user
}

// HasRole checks if user has a specific role
func (u *User) HasRole(role accesscontrol.Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ContextRoleSource serves the request user's roles to the
// authorization layer.
type ContextRoleSource struct{}

// UserRoles returns the authenticated user's roles. A token that
// carries no roles claim at all is broken identity data and is
// rejected here, so no policy decision mistakes it for a user with
// nothing granted. An empty roles claim is a valid user.
func (ContextRoleSource) UserRoles(ctx context.Context) ([]accesscontrol.Role, error) {
	user := GetUser(ctx)
	if user == nil {
		return nil, errors.Unauthorized("authentication required")
	}
	if user.Roles == nil {
		return nil, errors.DataIntegrity("user roles are undefined")
	}
	return user.Roles, nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
