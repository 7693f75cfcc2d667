package httpapi

import (
	"net/http"

	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

type middleware func(http.Handler) http.Handler

// chain applies mws so that the first one listed is outermost.
func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// NewRouter wires every route. A nil verifier leaves team routes open; the
// share resolution route and the probes are public either way.
func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	logger *logging.Logger,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicRoutes(mux, handler)
	registerTeamRoutes(mux, handler, verifier)

	return chain(mux,
		RequestTracing,
		func(next http.Handler) http.Handler { return RequestLogging(logger, next) },
		func(next http.Handler) http.Handler { return CORS(corsAllowedOrigins, next) },
		func(next http.Handler) http.Handler { return recoverPanic(logger, next) },
	)
}

// recoverPanic turns a handler panic into a 500 envelope.
func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			ctx := r.Context()
			args := append([]any{"panic", rec, "method", r.Method, "path", r.URL.Path}, principalLogArgs(ctx)...)
			logger.ErrorContext(ctx, "panic recovered", args...)
			writeInternalError(ctx, w)
		}()
		next.ServeHTTP(w, r)
	})
}
