package middleware

import (
	"crypto/subtle"
	"net/http"
)

// HeaderAPIToken is the header callers put the shared secret in.
const HeaderAPIToken = "api_token"

const accessDeniedBody = `{"error":"Invalid or missing Access_Key"}`

// AccessGuard validates the api_token header against the configured secret
// (constant-time comparison to prevent timing attacks). An empty secret can
// never match, so the guarded endpoint fails closed when API_TOKEN is unset.
func AccessGuard(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(HeaderAPIToken)
			if provided == "" || secret == "" ||
				subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(accessDeniedBody))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
