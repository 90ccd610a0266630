package chi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// AuthParam is the query parameter carrying the API key.
const AuthParam = "auth_token"

const unauthorizedMessage = "You need to sign in or sign up before continuing."

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// AuthMiddleware returns a middleware that validates the auth_token query
// parameter, falling back to a Bearer Authorization header.
// If apiKeys is empty, authentication is disabled (pass-through).
func AuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := validKeys[requestToken(r)]; !ok {
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requestToken(r *http.Request) string {
	if token := r.URL.Query().Get(AuthParam); token != "" {
		return token
	}
	const bearerPrefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		return auth[len(bearerPrefix):]
	}
	return ""
}

// writeUnauthorized uses the singular {"error": "..."} shape App Search returns for 401.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": unauthorizedMessage})
}
