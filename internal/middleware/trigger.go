package middleware

import (
	"crypto/subtle"
	"net/http"
)

// TriggerAuth guards the externally invoked trigger endpoints with a shared
// secret. An empty secret disables the check.
func TriggerAuth(secret string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				http.Error(w, "Invalid trigger secret", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}
