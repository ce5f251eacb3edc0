package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const adminEmailKey ctxKey = iota

// AdminEmail returns the email claim of the authenticated admin, if any.
func AdminEmail(ctx context.Context) string {
	email, _ := ctx.Value(adminEmailKey).(string)
	return email
}

// AdminAuthMiddleware accepts requests carrying a valid HS256 bearer token
// signed with secret.
func AdminAuthMiddleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if len(key) == 0 || !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}

			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
				func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
					}
					return key, nil
				},
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithExpirationRequired(),
			)
			if err != nil {
				unauthorized(w)
				return
			}

			email, _ := claims["email"].(string)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminEmailKey, email)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "Unauthorized"})
}
