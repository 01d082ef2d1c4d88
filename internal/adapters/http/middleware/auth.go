package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/errtranslate/internal/adapters/http/dto"
	"github.com/jsamuelsen/errtranslate/internal/domain"
	"github.com/jsamuelsen/errtranslate/internal/platform/config"
)

const (
	// ContextKeyClaims is the gin context key for storing extracted claims.
	ContextKeyClaims = "claims"

	// Default header names if not configured.
	defaultSubjectHeader     = "X-User-ID"
	defaultRolesHeader       = "X-User-Roles"
	defaultScopesHeader      = "X-User-Scopes"
	defaultPermissionsHeader = "X-User-Permissions"
)

// Claims represents user claims passed by an authenticating gateway.
type Claims struct {
	// Subject is the user ID (sub claim).
	Subject string

	// Roles is the list of roles assigned to the user.
	Roles []string

	// Scopes is the list of OAuth2 scopes granted.
	Scopes []string

	// Permissions is the list of fine-grained permissions.
	Permissions []string
}

// HasRole checks if the user has the specified role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasScope checks if the user has the specified scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// HasAllScopes checks if the user has ALL specified scopes.
func (c *Claims) HasAllScopes(scopes ...string) bool {
	for _, scope := range scopes {
		if !c.HasScope(scope) {
			return false
		}
	}

	return true
}

// HasPermission checks if the user has the specified permission.
func (c *Claims) HasPermission(perm string) bool {
	return slices.Contains(c.Permissions, perm)
}

// ExtractClaims extracts user claims from request headers.
// Header names are configurable via AuthConfig.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subjectHeader := headerOr(cfg, func(a *config.AuthConfig) string { return a.SubjectHeader }, defaultSubjectHeader)
	rolesHeader := headerOr(cfg, func(a *config.AuthConfig) string { return a.RolesHeader }, defaultRolesHeader)
	scopesHeader := headerOr(cfg, func(a *config.AuthConfig) string { return a.ScopesHeader }, defaultScopesHeader)
	permsHeader := headerOr(cfg, func(a *config.AuthConfig) string { return a.PermissionsHeader }, defaultPermissionsHeader)

	claims := &Claims{
		Subject: c.GetHeader(subjectHeader),
	}

	// Roles and permissions are comma-separated
	if rolesStr := c.GetHeader(rolesHeader); rolesStr != "" {
		claims.Roles = parseCommaSeparated(rolesStr)
	}

	if permsStr := c.GetHeader(permsHeader); permsStr != "" {
		claims.Permissions = parseCommaSeparated(permsStr)
	}

	// Scopes are space-separated per OAuth2
	if scopesStr := c.GetHeader(scopesHeader); scopesStr != "" {
		claims.Scopes = strings.Fields(scopesStr)
	}

	return claims
}

// GetClaims retrieves claims from the gin context.
// Returns nil if claims are not present.
func GetClaims(c *gin.Context) *Claims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		if cl, ok := claims.(*Claims); ok {
			return cl
		}
	}

	return nil
}

// RequireAuth returns middleware that requires an authenticated subject.
// Requests without one get a CredentialsError (401) carrying the configured
// WWW-Authenticate challenge.
func RequireAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	challenge := config.DefaultChallenge
	if cfg != nil && cfg.Challenge != "" {
		challenge = cfg.Challenge
	}

	return func(c *gin.Context) {
		claims := ExtractClaims(c, cfg)

		if claims.Subject == "" {
			dto.AbortWithError(c, domain.NewCredentialsError("", challenge))
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRole returns middleware that requires a specific role.
func RequireRole(cfg *config.AuthConfig, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := getOrExtractClaims(c, cfg)

		if !claims.HasRole(role) {
			abortWithForbidden(c, "insufficient permissions: role "+role+" required")
			return
		}

		c.Next()
	}
}

// RequireScopes returns middleware that requires ALL specified scopes.
func RequireScopes(cfg *config.AuthConfig, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := getOrExtractClaims(c, cfg)

		if !claims.HasAllScopes(scopes...) {
			abortWithForbidden(c, "insufficient permissions: scopes ["+strings.Join(scopes, ", ")+"] required")
			return
		}

		c.Next()
	}
}

// RequirePermission returns middleware that requires a specific permission.
func RequirePermission(cfg *config.AuthConfig, perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := getOrExtractClaims(c, cfg)

		if !claims.HasPermission(perm) {
			abortWithForbidden(c, "insufficient permissions: permission "+perm+" required")
			return
		}

		c.Next()
	}
}

// getOrExtractClaims gets claims from context or extracts them.
func getOrExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	if claims := GetClaims(c); claims != nil {
		return claims
	}

	claims := ExtractClaims(c, cfg)
	c.Set(ContextKeyClaims, claims)

	return claims
}

// abortWithForbidden aborts with an UnauthorizedError (403).
func abortWithForbidden(c *gin.Context, message string) {
	dto.AbortWithError(c, domain.NewUnauthorizedError(message))
}

func headerOr(cfg *config.AuthConfig, field func(*config.AuthConfig) string, fallback string) string {
	if cfg == nil {
		return fallback
	}

	if h := field(cfg); h != "" {
		return h
	}

	return fallback
}

// parseCommaSeparated splits a comma-separated string into trimmed values.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")

	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
