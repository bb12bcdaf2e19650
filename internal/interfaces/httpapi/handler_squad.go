package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

func (h *Handler) SaveSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SaveSquad")
	defer span.End()

	managerID := r.PathValue("managerID")
	var req saveSquadRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.squadService.SaveSquad(ctx, usecase.SaveSquadInput{
		ManagerID:  managerID,
		GameweekID: req.GameweekID,
		Slots:      squadSlotsToInput(req.Slots),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save squad failed", "manager_id", managerID, "gameweek_id", req.GameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadViewToDTO(view))
}

func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetSquad")
	defer span.End()

	managerID := r.PathValue("managerID")
	gameweekID := gameweekQuery(r)
	view, err := h.squadService.GetSquad(ctx, managerID, gameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "manager_id", managerID, "gameweek_id", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadViewToDTO(view))
}

func (h *Handler) Substitute(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Substitute")
	defer span.End()

	managerID := r.PathValue("managerID")
	var req substituteRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.squadService.Substitute(ctx, usecase.SubstituteInput{
		ManagerID:    managerID,
		GameweekID:   req.GameweekID,
		StarterOutID: req.StarterOutID,
		BenchInID:    req.BenchInID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "substitute failed",
			"manager_id", managerID,
			"starter_out_id", req.StarterOutID,
			"bench_in_id", req.BenchInID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadViewToDTO(view))
}
