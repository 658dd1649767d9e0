package middleware

import (
	"context"
	"net/http"
	"strings"

	"doctor-booking/pkg/jwt"
	"doctor-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	RoleIDKey  contextKey = "role_id"
	TokenIDKey contextKey = "token_id"
)

// RevokedTokenKeyPrefix marks access tokens revoked by the identity service.
const RevokedTokenKeyPrefix = "revoked_token:"

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient *redis.Client
}

// NewAuthMiddleware builds the bearer-token middleware. redisClient may be nil,
// in which case revocation is not checked.
func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if m.redisClient != nil && claims.TokenID != "" {
			revoked, err := m.redisClient.Exists(r.Context(), RevokedTokenKeyPrefix+claims.TokenID).Result()
			if err != nil {
				response.InternalServerError(w, "Failed to validate token")
				return
			}
			if revoked > 0 {
				response.Unauthorized(w, "Token has been revoked")
				return
			}
		}

		ctx := WithIdentity(r.Context(), claims.UserID, claims.RoleID)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithIdentity stores the caller's identity in ctx.
func WithIdentity(ctx context.Context, userID uuid.UUID, roleID int) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, RoleIDKey, roleID)
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetRoleIDFromContext extracts role ID from context
func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	roleID, ok := ctx.Value(RoleIDKey).(int)
	return roleID, ok
}
