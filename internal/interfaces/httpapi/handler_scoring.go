package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-squad/internal/domain/leaderboard"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetOverview")
	defer span.End()

	managerID := r.PathValue("managerID")
	gameweekID := gameweekQuery(r)
	overview, err := h.scoringService.GetOverview(ctx, managerID, gameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "get overview failed", "manager_id", managerID, "gameweek_id", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overviewDTO{
		ManagerID:        overview.Manager.ID,
		SquadName:        overview.Manager.SquadName,
		GameweekID:       overview.Gameweek.ID,
		GameweekNumber:   overview.Gameweek.Number,
		GameweekStatus:   string(overview.Gameweek.Status),
		Deadline:         overview.Gameweek.Deadline,
		Wallet:           overview.Manager.Wallet,
		CumulativePoints: overview.Manager.CumulativePoints,
		Squad:            squadViewToDTO(overview.Squad),
		Points:           managerPointsToDTO(overview.Points),
		Summary: gameweekSummaryDTO{
			Managers:       overview.Summary.Managers,
			AveragePoints:  overview.Summary.AveragePoints,
			HighestPoints:  overview.Summary.HighestPoints,
			TopManagerID:   overview.Summary.TopManagerID,
			TotalTransfers: overview.Summary.TotalTransfers,
		},
	})
}

func (h *Handler) ListScoringRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListScoringRules")
	defer span.End()

	rules, err := h.scoringService.ListScoringRules(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list scoring rules failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]scoringRuleDTO, 0, len(rules))
	for _, rule := range rules {
		items = append(items, scoringRuleToDTO(rule))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetLeaderboard")
	defer span.End()

	page, err := intQuery(r, "page")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	pageSize, err := intQuery(r, "page_size")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := usecase.LeaderboardQuery{
		GameweekID: gameweekQuery(r),
		Scope:      leaderboard.Scope(r.URL.Query().Get("scope")),
		Page:       page,
		PageSize:   pageSize,
	}
	result, err := h.leaderboardService.GetLeaderboard(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "gameweek_id", query.GameweekID, "scope", query.Scope, "error", err)
		writeError(ctx, w, err)
		return
	}

	entries := make([]leaderboardEntryDTO, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, leaderboardEntryDTO{
			Rank:             entry.Rank,
			ManagerID:        entry.ManagerID,
			SquadName:        entry.SquadName,
			GameweekPoints:   entry.GameweekPoints,
			CumulativePoints: entry.CumulativePoints,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, leaderboardDTO{
		GameweekID: result.GameweekID,
		Scope:      string(result.Scope),
		Page:       result.Page.Page,
		PageSize:   result.PageSize,
		Total:      result.Total,
		Entries:    entries,
	})
}
