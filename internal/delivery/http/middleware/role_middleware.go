package middleware

import (
	"net/http"
	"strings"

	"doctor-booking/internal/domain/entity"
	"doctor-booking/pkg/response"

	"github.com/gorilla/mux"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoleIDs ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get role ID from context (set by AuthMiddleware)
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			// Check if user's role is in allowed roles
			allowed := false
			for _, allowedRoleID := range allowedRoleIDs {
				if roleID == allowedRoleID {
					allowed = true
					break
				}
			}

			if !allowed {
				names := make([]string, 0, len(allowedRoleIDs))
				for _, id := range allowedRoleIDs {
					names = append(names, entity.RoleName(id))
				}
				response.Forbidden(w, "This resource requires role: "+strings.Join(names, " or "))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin)(next)
}

// RequirePatient is a convenience middleware for patient-only endpoints
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDPatient)(next)
}

// RequireScheduleOwner lets admins manage any grid and doctors only their own,
// identified by the {doctorId} route variable.
func RequireScheduleOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		roleID, _ := GetRoleIDFromContext(r.Context())
		if roleID == entity.RoleIDAdmin {
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := GetUserIDFromContext(r.Context())
		if roleID != entity.RoleIDDoctor || !ok || userID.String() != mux.Vars(r)["doctorId"] {
			response.Forbidden(w, "You can only manage your own schedule")
			return
		}
		next.ServeHTTP(w, r)
	})
}
