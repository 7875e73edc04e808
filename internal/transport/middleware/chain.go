package middleware

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/flipflop-backend/internal/config"
)

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middleware into a single Middleware.
// Middleware are applied in the order given: Chain(mw1, mw2)(handler)
// results in mw1(mw2(handler)), so mw1 executes first (outermost).
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}

// Standard is the stack every API request passes through. Panics are
// recovered inside the request log so they are logged with their request id,
// and CORS runs before Auth so a preflight never needs a token.
func Standard(logger *slog.Logger, cors config.CORSConfig, a authenticator) Middleware {
	return Chain(
		RequestID,
		Logger(logger),
		Recovery(logger),
		CORS(cors),
		Auth(a),
	)
}
