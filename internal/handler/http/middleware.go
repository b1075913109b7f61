package http

import (
	"errors"
	"net/http"

	"github.com/maisonarte/catalog-service/pkg/middleware"
)

var errInvalidToken = errors.New("invalid token")

// ContentTypeJSON sets the JSON content type on every response in the group.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// StaticTokenValidator validates admin requests against a single configured
// token. Every accepted token maps to the admin role.
func StaticTokenValidator(adminToken string) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		if adminToken == "" || token != adminToken {
			return nil, errInvalidToken
		}
		return &middleware.Claims{UserID: "admin", Role: "admin"}, nil
	}
}
