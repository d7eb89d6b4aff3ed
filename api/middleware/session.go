package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/markberon/sari-store-backend/api/responses"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
	"github.com/markberon/sari-store-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-ID"

type sessionContextKey struct{}

// Session extracts the storefront session id header and binds it to the
// request context. Cart and checkout routes cannot work without one.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))
			if sessionID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "X-Session-ID header required"))
				return
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSessionID injects the session identifier into the context for
// downstream handlers.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionContextKey{}, sessionID)
}

// SessionIDFromContext returns the session id bound by Session, or "".
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionContextKey{}).(string); ok {
		return v
	}
	return ""
}
