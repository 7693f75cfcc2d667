package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/teamflow/internal/domain/event"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
	"github.com/riskibarqy/teamflow/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

// Services groups the usecase services the handler dispatches to.
type Services struct {
	Players    *usecase.PlayerService
	Events     *usecase.EventService
	Messages   *usecase.MessageService
	Files      *usecase.FileService
	Stats      *usecase.StatsService
	Attendance *usecase.AttendanceService
	Dashboard  *usecase.DashboardService

	// Readiness reports whether the record store is reachable. Nil means
	// always ready.
	Readiness func(context.Context) error
}

type Handler struct {
	players    *usecase.PlayerService
	events     *usecase.EventService
	messages   *usecase.MessageService
	files      *usecase.FileService
	stats      *usecase.StatsService
	attendance *usecase.AttendanceService
	dashboard  *usecase.DashboardService
	readiness  func(context.Context) error
	logger     *logging.Logger
	validator  *validator.Validate
}

func NewHandler(services Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		players:    services.Players,
		events:     services.Events,
		messages:   services.Messages,
		files:      services.Files,
		stats:      services.Stats,
		attendance: services.Attendance,
		dashboard:  services.Dashboard,
		readiness:  services.Readiness,
		logger:     logger,
		validator:  newValidator(),
	}
}

var clockTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// HH:MM or HH:MM:SS on a 24 hour clock.
	_ = v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		return clockTimePattern.MatchString(fl.Field().String())
	})
	return v
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

const readinessTimeout = 2 * time.Second

// Readyz checks the record store before reporting ready.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.readiness != nil {
		pingCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
		defer cancel()
		if err := h.readiness(pingCtx); err != nil {
			h.fail(ctx, w, "readiness check failed", fmt.Errorf("%w: record store: %v", usecase.ErrDependencyUnavailable, err))
			return
		}
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// decodeRequest reads a JSON body into dst and validates it.
func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

// fail logs at warn for client errors and error for everything else, then
// writes the error envelope.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	args = append(args, "error", err)
	args = append(args, principalLogArgs(ctx)...)
	if mapError(err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	writeError(ctx, w, err)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s=%s", usecase.ErrNotFound, kind, id)
}

func writeDeleted(ctx context.Context, w http.ResponseWriter) {
	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

// queryLimit parses ?limit=. Missing means zero, which services treat as
// their default.
func queryLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
	}
	return limit, nil
}

// queryTime accepts RFC3339 or unix milliseconds. Missing yields the zero time.
func queryTime(r *http.Request, key string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return time.Time{}, nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339 or unix milliseconds", usecase.ErrInvalidInput, key)
	}
	return parsed, nil
}

func queryDate(r *http.Request, key string) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse(event.DateLayout, raw); err != nil {
		return "", fmt.Errorf("%w: %s must be YYYY-MM-DD", usecase.ErrInvalidInput, key)
	}
	return raw, nil
}
