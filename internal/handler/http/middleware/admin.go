package middleware

import (
	"net/http"

	"github.com/pastcare/pastcare-billing-go/internal/handler/http/response"
)

// AdminRequired gates operator endpoints. Authentication happens at the
// API gateway, which forwards the operator's identity in X-Admin-ID.
func AdminRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Admin-ID") == "" {
			response.Unauthorized(w, "operator identity required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
