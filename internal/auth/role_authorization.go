package auth

import (
	"log/slog"
	"net/http"
)

// RoleAuthorization provides chi middleware enforcing the role
// hierarchy on routes. It expects AuthMiddleware to have resolved the
// principal already.
type RoleAuthorization struct {
	logger *slog.Logger
}

func NewRoleAuthorization(logger *slog.Logger) *RoleAuthorization {
	return &RoleAuthorization{logger: logger}
}

func (ra *RoleAuthorization) Require(min Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.Role.AtLeast(min) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", user.ID,
					"user_role", user.Role,
					"required_role", min)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RoleAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.Require(RoleAdmin)
}

func (ra *RoleAuthorization) RequireSuperadmin() func(http.Handler) http.Handler {
	return ra.Require(RoleSuperadmin)
}
