package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "fantasy-squad"

	internalMessage = "internal server error"
)

// encodeFailureBody is sent when the real payload cannot be encoded.
const encodeFailureBody = `{"apiVersion":"2.0","error":{"code":500,"message":"internal server error","status":"INTERNAL"}}`

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
	Domain   string         `json:"domain"`
	Reason   string         `json:"reason"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// errorMappings is ordered: the first target the error matches wins.
var errorMappings = []struct {
	target error
	mappedError
}{
	{fantasy.ErrInvalidSquad, mappedError{http.StatusBadRequest, "invalidSquad", "INVALID_ARGUMENT"}},
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrConflict, mappedError{http.StatusConflict, "conflict", "FAILED_PRECONDITION"}},
	{usecase.ErrInsufficientFunds, mappedError{http.StatusUnprocessableEntity, "insufficientFunds", "FAILED_PRECONDITION"}},
	{usecase.ErrUnauthorized, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
	{context.DeadlineExceeded, mappedError{http.StatusGatewayTimeout, "deadlineExceeded", "DEADLINE_EXCEEDED"}},
	{context.Canceled, mappedError{http.StatusGatewayTimeout, "deadlineExceeded", "DEADLINE_EXCEEDED"}},
}

var internalMapping = mappedError{http.StatusInternalServerError, "internalError", "INTERNAL"}

func mapError(err error) mappedError {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.mappedError
		}
	}
	return internalMapping
}

// errorMetadata exposes the structured fields of typed usecase errors.
func errorMetadata(err error) map[string]any {
	var (
		validation *fantasy.ValidationError
		notFound   *usecase.NotFoundError
		conflict   *usecase.ConflictError
		funds      *usecase.InsufficientFundsError
	)
	switch {
	case errors.As(err, &validation):
		return map[string]any{"rule": string(validation.Rule)}
	case errors.As(err, &notFound):
		return map[string]any{"entity": notFound.Entity, "id": notFound.ID}
	case errors.As(err, &conflict):
		if conflict.GameweekID == "" {
			return nil
		}
		return map[string]any{"gameweek_id": conflict.GameweekID, "gameweek_status": string(conflict.Status)}
	case errors.As(err, &funds):
		return map[string]any{"wallet": funds.Wallet, "required": funds.Required}
	}
	return nil
}

// writeJSON encodes into a pooled buffer so the status line is only sent once
// the body is known to encode.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_, _ = buf.WriteString(encodeFailureBody)
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	annotateSpan(ctx, mapped, err)
	if mapped.HTTPStatus == http.StatusInternalServerError {
		writeInternalError(ctx, w)
		return
	}
	writeErrorBody(w, mapped, err.Error(), errorMetadata(err))
}

func writeInternalError(_ context.Context, w http.ResponseWriter) {
	writeErrorBody(w, internalMapping, internalMessage, nil)
}

func writeErrorBody(w http.ResponseWriter, mapped mappedError, message string, metadata map[string]any) {
	writeJSON(w, mapped.HTTPStatus, envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors: []errorItem{{
				Domain:   errorDomain,
				Reason:   mapped.Reason,
				Message:  message,
				Metadata: metadata,
			}},
		},
	})
}
