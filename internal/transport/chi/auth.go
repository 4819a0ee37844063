package chi

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/ftwire/internal/logger"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// apiKey is a configured key kept only as its digest.
type apiKey struct {
	sum [sha256.Size]byte
	id  string
}

func newAPIKeys(raw []string) []apiKey {
	keys := make([]apiKey, 0, len(raw))
	seen := make(map[[sha256.Size]byte]struct{}, len(raw))
	for _, k := range raw {
		if k == "" {
			continue
		}
		sum := sha256.Sum256([]byte(k))
		if _, dup := seen[sum]; dup {
			continue
		}
		seen[sum] = struct{}{}
		keys = append(keys, apiKey{sum: sum, id: hex.EncodeToString(sum[:4])})
	}
	return keys
}

// match returns the fingerprint of the key equal to token. Every key is
// compared so timing does not depend on which one matched.
func match(keys []apiKey, token string) (string, bool) {
	sum := sha256.Sum256([]byte(token))
	id := ""
	for i := range keys {
		if subtle.ConstantTimeCompare(keys[i].sum[:], sum[:]) == 1 {
			id = keys[i].id
		}
	}
	return id, id != ""
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
// Authenticated requests carry the key fingerprint on the context logger.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := newAPIKeys(apiKeys)

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
				return
			}

			scheme, token, found := strings.Cut(auth, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			id, ok := match(keys, token)
			if !ok {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid api key")
				return
			}

			ctx := r.Context()
			log := logpkg.FromContext(ctx).With(zap.String("api_key", id))
			next.ServeHTTP(w, r.WithContext(logpkg.ContextWithLogger(ctx, log)))
		})
	}
}
