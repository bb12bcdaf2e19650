package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

func (h *Handler) MakeTransfer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "MakeTransfer")
	defer span.End()

	managerID := r.PathValue("managerID")
	var req makeTransferRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.transferService.MakeTransfer(ctx, usecase.MakeTransferInput{
		ManagerID:   managerID,
		GameweekID:  req.GameweekID,
		PlayerOutID: req.PlayerOutID,
		PlayerInID:  req.PlayerInID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "make transfer failed",
			"manager_id", managerID,
			"player_out_id", req.PlayerOutID,
			"player_in_id", req.PlayerInID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, transferResultDTO{
		Transfer: transferToDTO(result.Record),
		Squad:    squadToDTO(result.Squad, result.State, result.Wallet, ""),
		State:    stateToDTO(result.State),
		Wallet:   result.Wallet,
	})
}

func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListTransfers")
	defer span.End()

	managerID := r.PathValue("managerID")
	gameweekID := gameweekQuery(r)
	records, err := h.transferService.ListTransfers(ctx, managerID, gameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "list transfers failed", "manager_id", managerID, "gameweek_id", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]transferDTO, 0, len(records))
	for _, record := range records {
		items = append(items, transferToDTO(record))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
