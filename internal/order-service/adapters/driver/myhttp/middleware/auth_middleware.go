package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"freightflow/internal/order-service/adapters/driver/myhttp/handle"
	"freightflow/internal/order-service/core/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// Roles the external auth service issues tokens for.
const (
	RoleAdmin    = "ADMIN"
	RoleSupplier = "SUPPLIER"
	RoleBuyer    = "BUYER"
)

type AuthMiddleware struct {
	accessSecret string
}

func NewAuthMiddleware(accessSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		accessSecret: accessSecret,
	}
}

// Wrap verifies the bearer token and stamps the request with the user
// id, role and derived audience scope headers the handlers read.
func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("empty JWT-Token"))
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return []byte(am.accessSecret), nil
		})
		if err != nil || !token.Valid {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("invalid JWT-Token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("invalid claims"))
			return
		}

		userId, ok := claims["user_id"].(string)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("user id not found in token"))
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("role not found in token"))
			return
		}

		r.Header.Set("X-UserId", userId)
		r.Header.Set("X-Role", role)
		r.Header.Set("X-Audience", audienceFor(role, userId))

		next.ServeHTTP(w, r)
	})
}

// RequireRole guards a route group for one role.
func (am *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Role") != role {
				handle.JsonError(w, http.StatusForbidden, fmt.Errorf("only %s allowed to use this endpoint", strings.ToLower(role)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func audienceFor(role, userId string) string {
	switch role {
	case RoleSupplier:
		return model.SupplierAudience(userId)
	case RoleBuyer:
		return model.BuyerAudience(userId)
	default:
		return model.AudienceAdmin
	}
}
