package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/teamflow/internal/domain/user"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
	"github.com/riskibarqy/teamflow/internal/usecase"
)

// TokenVerifier verifies bearer tokens against the account service.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (user.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token. A nil verifier
// disables the check.
func RequireAuth(verifier TokenVerifier, next http.Handler) http.Handler {
	if verifier == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := bearerToken(r.Header.Get("Authorization"))
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		principal, err := verifier.VerifyAccessToken(ctx, token)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(ctx, principal)))
	})
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", fmt.Errorf("%w: missing Authorization header", usecase.ErrUnauthorized)
	}
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("%w: invalid Authorization header format", usecase.ErrUnauthorized)
	}
	return token, nil
}

// responseRecorder captures the status and body size written by a handler.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

// RequestLogging emits one line per request. Server errors log at error,
// client errors at warn.
func RequestLogging(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx, slot := withPrincipalSlot(r.Context())
		next.ServeHTTP(rec, r.WithContext(ctx))

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(started).Milliseconds(),
		}
		if slot.principal.UserID != "" {
			args = append(args, "user_id", slot.principal.UserID)
		}

		switch {
		case rec.status >= http.StatusInternalServerError:
			logger.ErrorContext(ctx, "http request", args...)
		case rec.status >= http.StatusBadRequest:
			logger.WarnContext(ctx, "http request", args...)
		default:
			logger.InfoContext(ctx, "http request", args...)
		}
	})
}

var untracedPaths = map[string]struct{}{
	"/healthz": {},
	"/health":  {},
	"/livez":   {},
	"/readyz":  {},
}

// RequestTracing wraps the router in an otelhttp server span. Probe paths are
// skipped so they do not flood the trace backend.
func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "teamflow-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTraceRequest(r.URL.Path)
		}),
	)
}

func shouldTraceRequest(path string) bool {
	_, skip := untracedPaths[strings.ToLower(strings.TrimSpace(path))]
	return !skip
}

const (
	corsAllowMethods = "GET,POST,PUT,PATCH,DELETE,OPTIONS"
	corsAllowHeaders = "Authorization,Content-Type,Accept"
	corsMaxAge       = 10 * time.Minute
)

type corsPolicy struct {
	any     bool
	origins map[string]struct{}
}

func newCORSPolicy(allowed []string) corsPolicy {
	policy := corsPolicy{origins: make(map[string]struct{}, len(allowed))}
	for _, origin := range allowed {
		switch origin = strings.TrimSpace(origin); origin {
		case "":
		case "*":
			policy.any = true
		default:
			policy.origins[strings.TrimRight(origin, "/")] = struct{}{}
		}
	}
	return policy
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or
// the empty string when it is not allowed.
func (p corsPolicy) allowOrigin(origin string) string {
	if p.any {
		return "*"
	}
	if _, ok := p.origins[origin]; ok {
		return origin
	}
	return ""
}

// CORS applies the configured origin allow list. Preflight requests are
// answered directly with 204.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)
	maxAge := strconv.Itoa(int(corsMaxAge.Seconds()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		if allowed := policy.allowOrigin(origin); allowed != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Max-Age", maxAge)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
