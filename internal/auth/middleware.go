package auth

import (
	"net/http"
)

// Authenticator authenticates admin requests. It accepts either the plain
// admin key from the environment (compared in constant time) or any of the
// configured bcrypt key hashes.
type Authenticator struct {
	adminKey  string
	keyHashes []string
}

// NewAuthenticator creates a new Authenticator. adminKey may be empty when
// only hashed keys are configured.
func NewAuthenticator(adminKey string, keyHashes []string) *Authenticator {
	return &Authenticator{
		adminKey:  adminKey,
		keyHashes: keyHashes,
	}
}

// Authenticate checks the Authorization header for a valid bearer token.
func (a *Authenticator) Authenticate(authHeader string) bool {
	token := ExtractBearerToken(authHeader)
	if token == "" {
		return false
	}

	if a.adminKey != "" && VerifyAPIKeyConstantTime(token, a.adminKey) {
		return true
	}

	// bcrypt hashes are non-deterministic, so each hash is checked in turn
	for _, hash := range a.keyHashes {
		if VerifyAPIKey(token, hash) {
			return true
		}
	}

	return false
}

// RequireAuth is a middleware that rejects unauthenticated requests.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Authenticate(r.Header.Get("Authorization")) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
