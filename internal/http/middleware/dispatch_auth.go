package middleware

import (
	"crypto/subtle"
	"net/http"
)

// DispatchSecretHeader carries the shared secret for the dispatch trigger.
const DispatchSecretHeader = "X-Dispatch-Secret"

// DispatchSecret gates the dispatch trigger endpoint behind a shared secret.
// An empty configured secret leaves the endpoint open; deployments that rely
// only on the interval sweep run without one.
func DispatchSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" {
				presented := r.Header.Get(DispatchSecretHeader)
				if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
					http.Error(w, "invalid dispatch secret", http.StatusUnauthorized)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
