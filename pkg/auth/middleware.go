package auth

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/flowdeck/pkg/handlers"
)

// RequireAuth rejects requests without a verifiable bearer token with 401
// and injects the verified principal into the request context.
func RequireAuth(v Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := BearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="flowdeck"`)
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			principal, err := v.Verify(r.Context(), raw)
			if err != nil {
				logger.Debug("token rejected", "error", err)
				w.Header().Set("WWW-Authenticate", `Bearer realm="flowdeck", error="invalid_token"`)
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
