package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

func TestStartHandlerSpan_WithoutParentIsNoop(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	ctx, span := startHandlerSpan(req, "Healthz")
	defer span.End()

	assert.Equal(t, req.Context(), ctx)
	assert.False(t, span.IsRecording())
}

func TestRequestAttributes(t *testing.T) {
	tests := []struct {
		name   string
		target string
		setup  func(*http.Request)
		want   []attribute.KeyValue
	}{
		{
			name:   "manager route with query gameweek",
			target: "/v1/managers/mgr-atlas/squad?gameweek_id=gw-2",
			setup: func(r *http.Request) {
				r.Pattern = "GET /v1/managers/{managerID}/squad"
				r.SetPathValue("managerID", "mgr-atlas")
			},
			want: []attribute.KeyValue{
				attribute.String("http.route", "GET /v1/managers/{managerID}/squad"),
				attribute.String("fantasy.manager_id", "mgr-atlas"),
				attribute.String("fantasy.gameweek_id", "gw-2"),
			},
		},
		{
			name:   "path gameweek wins over query",
			target: "/internal/jobs/gameweeks/gw-1/finalize?gameweek_id=gw-9",
			setup: func(r *http.Request) {
				r.SetPathValue("gameweekID", "gw-1")
			},
			want: []attribute.KeyValue{attribute.String("fantasy.gameweek_id", "gw-1")},
		},
		{
			name:   "bare request",
			target: "/v1/leaderboard",
			setup:  func(*http.Request) {},
			want:   []attribute.KeyValue{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			tc.setup(req)
			assert.Equal(t, tc.want, requestAttributes(req))
		})
	}
}

func TestAnnotateSpan_NonRecordingSpanIsIgnored(t *testing.T) {
	assert.NotPanics(t, func() {
		annotateSpan(t.Context(), mapError(usecase.ErrInternal), errors.New("boom"))
	})
}
