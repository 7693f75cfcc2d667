package anubis

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/teamflow/internal/platform/logging"
	"github.com/riskibarqy/teamflow/internal/platform/resilience"
	"github.com/riskibarqy/teamflow/internal/usecase"
)

func newTestClient(srv *httptest.Server, adminKey string, clock clockwork.Clock, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		HTTPClient:      srv.Client(),
		BaseURL:         srv.URL,
		IntrospectPath:  "/v1/auth/introspect",
		AdminKey:        adminKey,
		CacheTTL:        30 * time.Second,
		CacheMaxEntries: 100,
		CircuitBreaker:  breaker,
		Clock:           clock,
		Logger:          logging.NewNop(),
	})
}

func TestClientVerifyAccessToken_SendsAdminKeyAndParsesResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/auth/introspect" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-admin-key"); got != "admin-secret" {
			t.Errorf("unexpected x-admin-key: %s", got)
		}

		var req map[string]string
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if req["token"] != "token-abc" {
			t.Errorf("unexpected token value: %s", req["token"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]any{
			"active":  true,
			"user_id": "coach-123",
			"email":   "coach@example.com",
			"roles":   []string{"coach", "member"},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv, "admin-secret", nil, resilience.CircuitBreakerConfig{Enabled: false})

	principal, err := client.VerifyAccessToken(t.Context(), "token-abc")
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if principal.UserID != "coach-123" || principal.Email != "coach@example.com" || principal.Role != "coach" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestClientVerifyAccessToken_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "inactive token", status: http.StatusOK, body: `{"active":false}`, want: usecase.ErrUnauthorized},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, want: usecase.ErrUnauthorized},
		{name: "admin key rejected", status: http.StatusForbidden, body: `{"error":"forbidden"}`, want: usecase.ErrDependencyUnavailable},
		{name: "server error", status: http.StatusBadGateway, body: `oops`, want: usecase.ErrDependencyUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := newTestClient(srv, "admin-secret", nil, resilience.CircuitBreakerConfig{Enabled: false})
			_, err := client.VerifyAccessToken(t.Context(), "token-abc")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestClientVerifyAccessToken_EmptyTokenSkipsNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := newTestClient(srv, "", nil, resilience.CircuitBreakerConfig{Enabled: false})
	if _, err := client.VerifyAccessToken(t.Context(), "   "); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no introspection calls, got %d", calls.Load())
	}
}

func TestClientVerifyAccessToken_CachesUntilTTL(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"active":true,"user_id":"member-1"}`))
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClock()
	client := newTestClient(srv, "admin-secret", clock, resilience.CircuitBreakerConfig{Enabled: false})

	for i := 0; i < 3; i++ {
		principal, err := client.VerifyAccessToken(t.Context(), "cached-token")
		if err != nil {
			t.Fatalf("verify token failed: %v", err)
		}
		if principal.UserID != "member-1" {
			t.Fatalf("unexpected user id: %s", principal.UserID)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one introspection call with cache, got %d", calls.Load())
	}

	clock.Advance(31 * time.Second)
	if _, err := client.VerifyAccessToken(t.Context(), "cached-token"); err != nil {
		t.Fatalf("verify token after expiry failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected re-introspection after ttl, got %d calls", calls.Load())
	}
}

func TestClientVerifyAccessToken_CircuitOpensOnTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClock()
	client := newTestClient(srv, "admin-secret", clock, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenProbes:   1,
	})

	for i := 0; i < 3; i++ {
		_, err := client.VerifyAccessToken(t.Context(), "token-abc")
		if !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("attempt %d: expected ErrDependencyUnavailable, got %v", i, err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("expected open circuit to short-circuit the third call, got %d calls", calls.Load())
	}
	if client.breaker.State() != resilience.CircuitStateOpen {
		t.Fatalf("expected open circuit, got %s", client.breaker.State())
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{base: "https://auth.example.com/", path: "v1/auth/introspect", want: "https://auth.example.com/v1/auth/introspect"},
		{base: "https://auth.example.com", path: "", want: "https://auth.example.com"},
		{base: " https://auth.example.com// ", path: "//v1/auth/introspect", want: "https://auth.example.com/v1/auth/introspect"},
		{base: "https://auth.example.com", path: "https://other.example.com/x", want: "https://other.example.com/x"},
	}
	for _, tc := range tests {
		if got := resolveURL(tc.base, tc.path); got != tc.want {
			t.Fatalf("resolveURL(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
}

func TestPrincipalCacheKey(t *testing.T) {
	key := principalCacheKey("token-abc")
	if key == principalCacheKey("token-abd") {
		t.Fatalf("distinct tokens must not share a cache key")
	}
	if strings.Contains(key, "token-abc") {
		t.Fatalf("cache key leaks the raw token: %s", key)
	}
	if !strings.HasPrefix(key, "principal:") || len(key) != len("principal:")+64 {
		t.Fatalf("unexpected cache key shape: %s", key)
	}
}
