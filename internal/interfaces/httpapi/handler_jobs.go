package httpapi

import (
	"net/http"
	"time"
)

func (h *Handler) FinalizeGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "FinalizeGameweek")
	defer span.End()

	gameweekID := r.PathValue("gameweekID")
	started := time.Now()
	result, err := h.leaderboardService.FinalizeGameweek(ctx, gameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "finalize gameweek job failed", "gameweek_id", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "finalize gameweek job completed",
		"gameweek_id", result.GameweekID,
		"managers", result.Managers,
		"failed", result.Failed,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	writeSuccess(ctx, w, http.StatusOK, finalizeResultDTO{
		GameweekID: result.GameweekID,
		Managers:   result.Managers,
		Failed:     result.Failed,
	})
}
