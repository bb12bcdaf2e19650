package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2.0", body["apiVersion"])
	assert.Contains(t, body, "data")
	assert.NotContains(t, body, "error")
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2.0", body["apiVersion"])
	errorObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error object in response")
	assert.Equal(t, "INVALID_ARGUMENT", errorObj["status"])
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, &usecase.InternalError{Op: "save squad", Err: errors.New("pq: connection refused")})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{
			name:       "invalid squad",
			err:        &fantasy.ValidationError{Rule: fantasy.RuleTeamLimit, Detail: "too many from team-a"},
			wantStatus: http.StatusBadRequest,
			wantReason: "invalidSquad",
		},
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: manager id is required", usecase.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantReason: "invalidInput",
		},
		{
			name:       "not found",
			err:        &usecase.NotFoundError{Entity: "manager", ID: "m-404"},
			wantStatus: http.StatusNotFound,
			wantReason: "notFound",
		},
		{
			name:       "conflict",
			err:        &usecase.ConflictError{Reason: "gameweek is closed"},
			wantStatus: http.StatusConflict,
			wantReason: "conflict",
		},
		{
			name:       "insufficient funds",
			err:        &usecase.InsufficientFundsError{Wallet: 10, Required: 20},
			wantStatus: http.StatusUnprocessableEntity,
			wantReason: "insufficientFunds",
		},
		{
			name:       "unauthorized",
			err:        fmt.Errorf("%w: bad token", usecase.ErrUnauthorized),
			wantStatus: http.StatusUnauthorized,
			wantReason: "unauthorized",
		},
		{
			name:       "dependency unavailable",
			err:        fmt.Errorf("%w: schedule", usecase.ErrDependencyUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantReason: "dependencyUnavailable",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantReason: "internalError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestWriteError_Metadata(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want map[string]any
	}{
		{
			name: "validation rule",
			err:  fmt.Errorf("save squad: %w", &fantasy.ValidationError{Rule: fantasy.RuleBudget, Detail: "over budget"}),
			want: map[string]any{"rule": string(fantasy.RuleBudget)},
		},
		{
			name: "insufficient funds",
			err:  &usecase.InsufficientFundsError{Wallet: 50, Required: 100},
			want: map[string]any{"wallet": float64(50), "required": float64(100)},
		},
		{
			name: "gameweek conflict",
			err:  &usecase.ConflictError{Reason: "gameweek gw-2 is closed", GameweekID: "gw-2", Status: "closed"},
			want: map[string]any{"gameweek_id": "gw-2", "gameweek_status": "closed"},
		},
		{
			name: "plain conflict has none",
			err:  &usecase.ConflictError{Reason: "player already in squad"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(t.Context(), rec, tc.err)

			var body envelope
			require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			require.Len(t, body.Error.Errors, 1)
			if tc.want == nil {
				assert.Empty(t, body.Error.Errors[0].Metadata)
				return
			}
			assert.Equal(t, tc.want, body.Error.Errors[0].Metadata)
		})
	}
}
