package observability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap/zapcore"

	"github.com/riskibarqy/teamflow/internal/config"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

const (
	logShipQueueSize     = 1024
	logShipFlushInterval = time.Second
	logShipMaxAttempts   = 3
	logShipDrainTimeout  = 5 * time.Second
)

// InitLogShipping builds the process logger: JSON on stdout, plus a batching
// HTTP shipper for entries at or above LOG_SHIP_MIN_LEVEL when enabled. The
// returned flush drains the shipper and syncs stdout.
func InitLogShipping(cfg config.Config) (*logging.Logger, func(context.Context) error, error) {
	stdoutCore := logging.NewCore(zapcore.Lock(os.Stdout), cfg.LogLevel)

	if !cfg.LogShipEnabled {
		logger := logging.FromCore(stdoutCore)
		logger.Info("log shipping disabled", "reason", "LOG_SHIP_ENABLED=false")
		return logger, func(context.Context) error { return syncLogger(logger) }, nil
	}

	endpoint := normalizeLogShipEndpoint(cfg.LogShipEndpoint)
	if endpoint == "" {
		return nil, nil, fmt.Errorf("log ship endpoint cannot be empty")
	}

	shipper := newLogShipper(endpoint, strings.TrimSpace(cfg.LogShipToken), cfg.LogShipTimeout, cfg.LogShipBatchSize, logShipFlushInterval)
	shipCore := logging.NewCore(zapcore.AddSync(shipper), cfg.LogShipMinLevel)
	logger := logging.FromCore(zapcore.NewTee(stdoutCore, shipCore))

	logger.Info("log shipping enabled",
		"endpoint", endpoint,
		"min_level", cfg.LogShipMinLevel.String(),
		"batch_size", cfg.LogShipBatchSize,
	)

	flush := func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, logShipDrainTimeout)
			defer cancel()
		}
		if err := shipper.Close(ctx); err != nil {
			return fmt.Errorf("drain log shipping queue: %w", err)
		}
		return syncLogger(logger)
	}
	return logger, flush, nil
}

// syncLogger ignores the errors stdout returns when it is a pipe or terminal.
func syncLogger(logger *logging.Logger) error {
	err := logger.Sync()
	if err == nil || errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

// normalizeLogShipEndpoint defaults a bare host to https.
func normalizeLogShipEndpoint(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if u, err := url.Parse(value); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return value
	}
	return "https://" + value
}

// logShipper is a zapcore.WriteSyncer that posts entries to an HTTP intake as
// JSON arrays. Writes never block: when the queue is full the entry is
// dropped and counted.
type logShipper struct {
	endpoint      string
	token         string
	client        *http.Client
	batchSize     int
	flushInterval time.Duration

	queue    chan []byte
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	dropped  atomic.Uint64
}

func newLogShipper(endpoint, token string, timeout time.Duration, batchSize int, flushInterval time.Duration) *logShipper {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if flushInterval <= 0 {
		flushInterval = logShipFlushInterval
	}

	s := &logShipper{
		endpoint:      endpoint,
		token:         token,
		client:        &http.Client{Timeout: timeout},
		batchSize:     max(batchSize, 1),
		flushInterval: flushInterval,
		queue:         make(chan []byte, logShipQueueSize),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *logShipper) Write(p []byte) (int, error) {
	entry := bytes.TrimSpace(p)
	if len(entry) == 0 {
		return len(p), nil
	}

	select {
	case <-s.stop:
		return len(p), nil
	default:
	}

	// zap reuses p once Write returns.
	select {
	case s.queue <- bytes.Clone(entry):
	default:
		if n := s.dropped.Add(1); n == 1 || n%100 == 0 {
			fmt.Fprintf(os.Stderr, "log shipping queue full; dropped logs=%d\n", n)
		}
	}
	return len(p), nil
}

func (s *logShipper) Sync() error {
	return nil
}

// Close stops accepting entries and waits until everything queued so far has
// been posted or ctx expires.
func (s *logShipper) Close(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *logShipper) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := make([][]byte, 0, s.batchSize)
	flush := func() {
		if len(batch) > 0 {
			s.post(batch)
			batch = batch[:0]
		}
	}

	for {
		select {
		case entry := <-s.queue:
			batch = append(batch, entry)
			if len(batch) >= s.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stop:
			for {
				select {
				case entry := <-s.queue:
					batch = append(batch, entry)
					if len(batch) >= s.batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// post sends one batch, retrying network errors, 429 and 5xx with
// exponential backoff. Failures are reported on stderr since the logger
// itself is the thing being shipped.
func (s *logShipper) post(batch [][]byte) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('[')
	for i, entry := range batch {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_, _ = buf.Write(entry)
	}
	_ = buf.WriteByte(']')

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond

	_, err := backoff.Retry(context.Background(), func() (struct{}, error) {
		return struct{}{}, s.postOnce(buf.B)
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(logShipMaxAttempts))
	if err != nil {
		fmt.Fprintf(os.Stderr, "log shipping failed: entries=%d error=%v\n", len(batch), err)
	}
}

func (s *logShipper) postOnce(body []byte) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode < http.StatusMultipleChoices:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("intake status %d", resp.StatusCode)
	default:
		return backoff.Permanent(fmt.Errorf("intake status %d", resp.StatusCode))
	}
}
