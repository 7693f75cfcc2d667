package anubis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/teamflow/internal/domain/user"
	"github.com/riskibarqy/teamflow/internal/platform/cache"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
	"github.com/riskibarqy/teamflow/internal/platform/resilience"
	"github.com/riskibarqy/teamflow/internal/usecase"
)

const (
	defaultIntrospectPath = "/v1/auth/introspect"
	maxResponseBytes      = 1 << 20
)

var errAnubisTransient = crerr.New("anubis transient failure")

type ClientConfig struct {
	HTTPClient      *http.Client
	BaseURL         string
	IntrospectPath  string
	AdminKey        string
	Timeout         time.Duration
	CacheTTL        time.Duration
	CacheMaxEntries int
	CircuitBreaker  resilience.CircuitBreakerConfig
	Clock           clockwork.Clock
	Logger          *logging.Logger
}

// Client verifies coach and member access tokens against the Anubis
// introspection endpoint.
type Client struct {
	httpClient     *http.Client
	introspectURL  string
	adminKey       string
	logger         *logging.Logger
	principals     *cache.Store[user.Principal]
	breaker        *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 5 * time.Second
	}

	path := cfg.IntrospectPath
	if strings.TrimSpace(path) == "" {
		path = defaultIntrospectPath
	}
	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("anubis circuit breaker state changed", "from", from, "to", to)
		}
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: resolveURL(cfg.BaseURL, path),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		logger:        logger,
		principals: cache.NewStore[user.Principal](cache.Options{
			TTL:        cfg.CacheTTL,
			MaxEntries: cfg.CacheMaxEntries,
			Clock:      clock,
		}),
		breaker: resilience.NewCircuitBreaker(breakerCfg, clock),
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	return c.principals.GetOrLoad(ctx, principalCacheKey(token), func(ctx context.Context) (user.Principal, error) {
		return c.introspect(ctx, token)
	})
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "anubis circuit breaker rejected request", "state", c.breaker.State())
		return user.Principal{}, fmt.Errorf("%w: account service is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	principal, err := c.doIntrospect(ctx, token)
	transient := err != nil && crerr.Is(err, errAnubisTransient)
	if transient {
		c.breaker.RecordFailure()
	} else {
		c.breaker.RecordSuccess()
	}
	if transient {
		c.logger.WarnContext(ctx, "anubis introspection failed", "error", err)
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	return principal, err
}

func (c *Client) doIntrospect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: send request: %v", errAnubisTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: read response body: %v", errAnubisTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		// The admin key was rejected, not the caller's token.
		return user.Principal{}, fmt.Errorf("%w: account service rejected admin key", usecase.ErrDependencyUnavailable)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return user.Principal{}, fmt.Errorf("%w: status=%d", errAnubisTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return user.Principal{}, fmt.Errorf("anubis introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, crerr.Wrap(err, "unmarshal introspect response")
	}
	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	principal := user.Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
	}
	if len(decoded.Roles) > 0 {
		principal.Role = decoded.Roles[0]
	}
	return principal, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool     `json:"active"`
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}
