package httpapi

import (
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-squad/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

type saveSquadRequest struct {
	GameweekID string             `json:"gameweek_id" validate:"omitempty,max=64"`
	Slots      []squadSlotRequest `json:"slots" validate:"required,min=1,max=30,dive"`
}

type squadSlotRequest struct {
	PlayerID      string `json:"player_id" validate:"required,max=64"`
	IsStarter     bool   `json:"is_starter"`
	IsCaptain     bool   `json:"is_captain"`
	IsViceCaptain bool   `json:"is_vice_captain"`
}

type makeTransferRequest struct {
	GameweekID  string `json:"gameweek_id" validate:"omitempty,max=64"`
	PlayerOutID string `json:"player_out_id" validate:"required,max=64"`
	PlayerInID  string `json:"player_in_id" validate:"required,max=64,nefield=PlayerOutID"`
}

type substituteRequest struct {
	GameweekID   string `json:"gameweek_id" validate:"omitempty,max=64"`
	StarterOutID string `json:"starter_out_id" validate:"required,max=64"`
	BenchInID    string `json:"bench_in_id" validate:"required,max=64,nefield=StarterOutID"`
}

type squadSlotDTO struct {
	PlayerID      string `json:"player_id"`
	TeamID        string `json:"team_id"`
	Position      string `json:"position"`
	Price         int64  `json:"price"`
	IsStarter     bool   `json:"is_starter"`
	IsCaptain     bool   `json:"is_captain"`
	IsViceCaptain bool   `json:"is_vice_captain"`
}

type gameweekStateDTO struct {
	FreeTransfersRemaining int   `json:"free_transfers_remaining"`
	TransfersMade          int   `json:"transfers_made"`
	PenaltyPoints          int   `json:"penalty_points"`
	SquadCost              int64 `json:"squad_cost"`
	Version                int64 `json:"version"`
}

type squadDTO struct {
	ManagerID      string           `json:"manager_id"`
	GameweekID     string           `json:"gameweek_id"`
	GameweekStatus string           `json:"gameweek_status,omitempty"`
	TotalCost      int64            `json:"total_cost"`
	Wallet         int64            `json:"wallet"`
	Slots          []squadSlotDTO   `json:"slots"`
	State          gameweekStateDTO `json:"state"`
	UpdatedAt      *time.Time       `json:"updated_at,omitempty"`
}

type transferDTO struct {
	ID             string    `json:"id"`
	GameweekID     string    `json:"gameweek_id"`
	PlayerOutID    string    `json:"player_out_id"`
	PlayerInID     string    `json:"player_in_id"`
	PriceOut       int64     `json:"price_out"`
	PriceIn        int64     `json:"price_in"`
	PenaltyApplied bool      `json:"penalty_applied"`
	WalletAfter    int64     `json:"wallet_after"`
	CreatedAt      time.Time `json:"created_at"`
}

type transferResultDTO struct {
	Transfer transferDTO      `json:"transfer"`
	Squad    squadDTO         `json:"squad"`
	State    gameweekStateDTO `json:"state"`
	Wallet   int64            `json:"wallet"`
}

type playerPointsDTO struct {
	PlayerID  string `json:"player_id"`
	Position  string `json:"position"`
	IsStarter bool   `json:"is_starter"`
	Points    int    `json:"points"`
}

type managerPointsDTO struct {
	StarterPoints int               `json:"starter_points"`
	BenchPoints   int               `json:"bench_points"`
	Penalty       int               `json:"penalty"`
	Total         int               `json:"total"`
	Players       []playerPointsDTO `json:"players"`
}

type gameweekSummaryDTO struct {
	Managers       int     `json:"managers"`
	AveragePoints  float64 `json:"average_points"`
	HighestPoints  int     `json:"highest_points"`
	TopManagerID   string  `json:"top_manager_id,omitempty"`
	TotalTransfers int     `json:"total_transfers"`
}

type overviewDTO struct {
	ManagerID        string             `json:"manager_id"`
	SquadName        string             `json:"squad_name"`
	GameweekID       string             `json:"gameweek_id"`
	GameweekNumber   int                `json:"gameweek_number"`
	GameweekStatus   string             `json:"gameweek_status"`
	Deadline         time.Time          `json:"deadline"`
	Wallet           int64              `json:"wallet"`
	CumulativePoints int                `json:"cumulative_points"`
	Squad            squadDTO           `json:"squad"`
	Points           managerPointsDTO   `json:"points"`
	Summary          gameweekSummaryDTO `json:"summary"`
}

type leaderboardEntryDTO struct {
	Rank             int    `json:"rank"`
	ManagerID        string `json:"manager_id"`
	SquadName        string `json:"squad_name"`
	GameweekPoints   int    `json:"gameweek_points"`
	CumulativePoints int    `json:"cumulative_points"`
}

type leaderboardDTO struct {
	GameweekID string                `json:"gameweek_id"`
	Scope      string                `json:"scope"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	Total      int                   `json:"total"`
	Entries    []leaderboardEntryDTO `json:"entries"`
}

type scoringRuleDTO struct {
	EventType string `json:"event_type"`
	Position  string `json:"position,omitempty"`
	Points    int    `json:"points"`
}

type finalizeResultDTO struct {
	GameweekID string `json:"gameweek_id"`
	Managers   int    `json:"managers"`
	Failed     int    `json:"failed"`
}

func squadSlotsToInput(slots []squadSlotRequest) []fantasy.SlotInput {
	out := make([]fantasy.SlotInput, 0, len(slots))
	for _, slot := range slots {
		out = append(out, fantasy.SlotInput{
			PlayerID:      slot.PlayerID,
			IsStarter:     slot.IsStarter,
			IsCaptain:     slot.IsCaptain,
			IsViceCaptain: slot.IsViceCaptain,
		})
	}
	return out
}

func squadToDTO(squad fantasy.Squad, state ledger.GameweekState, wallet int64, status string) squadDTO {
	slots := make([]squadSlotDTO, 0, len(squad.Slots))
	for _, slot := range squad.Slots {
		slots = append(slots, squadSlotDTO{
			PlayerID:      slot.PlayerID,
			TeamID:        slot.TeamID,
			Position:      string(slot.Position),
			Price:         slot.Price,
			IsStarter:     slot.IsStarter,
			IsCaptain:     slot.IsCaptain,
			IsViceCaptain: slot.IsViceCaptain,
		})
	}

	dto := squadDTO{
		ManagerID:      squad.ManagerID,
		GameweekID:     squad.GameweekID,
		GameweekStatus: status,
		TotalCost:      squad.TotalCost(),
		Wallet:         wallet,
		Slots:          slots,
		State:          stateToDTO(state),
	}
	if !squad.UpdatedAt.IsZero() {
		updatedAt := squad.UpdatedAt
		dto.UpdatedAt = &updatedAt
	}
	return dto
}

func squadViewToDTO(view usecase.SquadView) squadDTO {
	return squadToDTO(view.Squad, view.State, view.Wallet, string(view.Status))
}

func stateToDTO(state ledger.GameweekState) gameweekStateDTO {
	return gameweekStateDTO{
		FreeTransfersRemaining: state.FreeTransfersRemaining,
		TransfersMade:          state.TransfersMade,
		PenaltyPoints:          state.PenaltyPoints,
		SquadCost:              state.SquadCost,
		Version:                state.Version,
	}
}

func transferToDTO(record ledger.TransferRecord) transferDTO {
	return transferDTO{
		ID:             record.ID,
		GameweekID:     record.GameweekID,
		PlayerOutID:    record.PlayerOutID,
		PlayerInID:     record.PlayerInID,
		PriceOut:       record.PriceOut,
		PriceIn:        record.PriceIn,
		PenaltyApplied: record.PenaltyApplied,
		WalletAfter:    record.WalletAfter,
		CreatedAt:      record.CreatedAt,
	}
}

func managerPointsToDTO(points usecase.ManagerPoints) managerPointsDTO {
	players := make([]playerPointsDTO, 0, len(points.Players))
	for _, p := range points.Players {
		players = append(players, playerPointsDTO{
			PlayerID:  p.PlayerID,
			Position:  string(p.Position),
			IsStarter: p.IsStarter,
			Points:    p.Points,
		})
	}
	return managerPointsDTO{
		StarterPoints: points.StarterPoints,
		BenchPoints:   points.BenchPoints,
		Penalty:       points.Penalty,
		Total:         points.Total,
		Players:       players,
	}
}

func scoringRuleToDTO(rule scoring.Rule) scoringRuleDTO {
	return scoringRuleDTO{
		EventType: string(rule.EventType),
		Position:  string(rule.Position),
		Points:    rule.Points,
	}
}
