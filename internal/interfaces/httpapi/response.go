package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/teamflow/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "teamflow"
)

// envelope follows the Google JSON style guide: exactly one of data or error
// is set.
type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

// errorMappings is checked in order; the first sentinel matched by errors.Is
// decides the response.
var errorMappings = []struct {
	target error
	mapped mappedError
}{
	{usecase.ErrInvalidInput, mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"}},
	{usecase.ErrUnauthorized, mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized", Status: "UNAUTHENTICATED"}},
	{usecase.ErrDependencyUnavailable, mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"}},
}

func mapError(err error) mappedError {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.mapped
		}
	}
	return internalError
}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

// writeError renders err as an error envelope. Messages of unmapped errors
// never reach the client.
func writeError(_ context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	message := "internal server error"
	if mapped != internalError {
		message = err.Error()
	}

	writeJSON(w, mapped.HTTPStatus, envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  []errorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: message}},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeError(ctx, w, errors.New("internal server error"))
}
