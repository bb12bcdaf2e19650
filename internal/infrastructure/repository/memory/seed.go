package memory

import (
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/domain/scoring"
)

// StartingWallet is 100.00 in hundredths.
const StartingWallet int64 = 10000

var seedEpoch = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func SeedGameweeks() []gameweek.Gameweek {
	return []gameweek.Gameweek{
		{ID: "gw-1", Number: 1, Status: gameweek.StatusCompleted, Deadline: time.Date(2026, 8, 8, 17, 30, 0, 0, time.UTC)},
		{ID: "gw-2", Number: 2, Status: gameweek.StatusOpen, Deadline: time.Date(2026, 8, 15, 17, 30, 0, 0, time.UTC)},
		{ID: "gw-3", Number: 3, Status: gameweek.StatusScheduled, Deadline: time.Date(2026, 8, 22, 17, 30, 0, 0, time.UTC)},
		{ID: "gw-4", Number: 4, Status: gameweek.StatusScheduled, Deadline: time.Date(2026, 8, 29, 17, 30, 0, 0, time.UTC)},
	}
}

func SeedPlayers() []player.Player {
	gk, def, mid, fwd := player.PositionGoalkeeper, player.PositionDefender, player.PositionMidfielder, player.PositionForward
	return []player.Player{
		{ID: "wac-gk-1", TeamID: "wac", Name: "Youssef El Motie", Position: gk, Price: 500, Active: true},
		{ID: "wac-def-1", TeamID: "wac", Name: "Amine Aboulfath", Position: def, Price: 550, Active: true},
		{ID: "wac-def-2", TeamID: "wac", Name: "Yahya Attiat-Allah", Position: def, Price: 450, Active: true},
		{ID: "wac-mid-1", TeamID: "wac", Name: "Yahya Jabrane", Position: mid, Price: 700, Active: true},
		{ID: "wac-mid-2", TeamID: "wac", Name: "Salaheddine Benyachou", Position: mid, Price: 550, Active: true},
		{ID: "wac-fwd-1", TeamID: "wac", Name: "Saifdine Bouhra", Position: fwd, Price: 750, Active: true},

		{ID: "rca-gk-1", TeamID: "rca", Name: "Anas Zniti", Position: gk, Price: 550, Active: true},
		{ID: "rca-def-1", TeamID: "rca", Name: "Abdelilah Madkour", Position: def, Price: 500, Active: true},
		{ID: "rca-def-2", TeamID: "rca", Name: "Marouane Hadhoudi", Position: def, Price: 450, Active: true},
		{ID: "rca-mid-1", TeamID: "rca", Name: "Mohamed Zrida", Position: mid, Price: 800, Active: true},
		{ID: "rca-mid-2", TeamID: "rca", Name: "Adam Nafati", Position: mid, Price: 500, Active: true},
		{ID: "rca-fwd-1", TeamID: "rca", Name: "Yousri Bouzok", Position: fwd, Price: 850, Active: true},

		{ID: "far-gk-1", TeamID: "far", Name: "Ahmed Reda Tagnaouti", Position: gk, Price: 500, Active: true},
		{ID: "far-def-1", TeamID: "far", Name: "Hamza El Moussaoui", Position: def, Price: 500, Active: true},
		{ID: "far-def-2", TeamID: "far", Name: "Mohamed Hamami", Position: def, Price: 450, Active: true},
		{ID: "far-mid-1", TeamID: "far", Name: "Reda Slim", Position: mid, Price: 750, Active: true},
		{ID: "far-mid-2", TeamID: "far", Name: "Rabie Hrimat", Position: mid, Price: 600, Active: true},
		{ID: "far-fwd-1", TeamID: "far", Name: "Youssef El Fahli", Position: fwd, Price: 700, Active: true},

		{ID: "rsb-gk-1", TeamID: "rsb", Name: "Munir Mohamedi", Position: gk, Price: 450, Active: true},
		{ID: "rsb-def-1", TeamID: "rsb", Name: "Hamza Regragui", Position: def, Price: 500, Active: true},
		{ID: "rsb-def-2", TeamID: "rsb", Name: "Chadi Riad", Position: def, Price: 400, Active: true},
		{ID: "rsb-mid-1", TeamID: "rsb", Name: "Imad Riahi", Position: mid, Price: 650, Active: true},
		{ID: "rsb-mid-2", TeamID: "rsb", Name: "Ousmane Ndiaye", Position: mid, Price: 500, Active: true},
		{ID: "rsb-fwd-1", TeamID: "rsb", Name: "Charki El Bahri", Position: fwd, Price: 800, Active: true},

		{ID: "mat-gk-1", TeamID: "mat", Name: "Hicham El Mejhed", Position: gk, Price: 400, Active: true},
		{ID: "mat-def-1", TeamID: "mat", Name: "Bakr El Helali", Position: def, Price: 450, Active: true},
		{ID: "mat-def-2", TeamID: "mat", Name: "Ismail Kandoussi", Position: def, Price: 400, Active: true},
		{ID: "mat-mid-1", TeamID: "mat", Name: "Zakaria Hadraf", Position: mid, Price: 600, Active: true},
		{ID: "mat-mid-2", TeamID: "mat", Name: "Mohamed Moufid", Position: mid, Price: 450, Active: true},
		{ID: "mat-fwd-1", TeamID: "mat", Name: "Hamza Hannouri", Position: fwd, Price: 650, Active: true},

		{ID: "fus-gk-1", TeamID: "fus", Name: "Ayoub El Khayati", Position: gk, Price: 450, Active: true},
		{ID: "fus-def-1", TeamID: "fus", Name: "Mohamed Chibi", Position: def, Price: 550, Active: true},
		{ID: "fus-def-2", TeamID: "fus", Name: "Oussama Lamlioui", Position: def, Price: 400, Active: false},
		{ID: "fus-mid-1", TeamID: "fus", Name: "Ismail Moutaraji", Position: mid, Price: 650, Active: true},
		{ID: "fus-mid-2", TeamID: "fus", Name: "Yassine Dahhou", Position: mid, Price: 500, Active: true},
		{ID: "fus-fwd-1", TeamID: "fus", Name: "Soufiane Benjdida", Position: fwd, Price: 700, Active: true},
	}
}

// SeedGameweekPrices holds price moves; players without a row use their list price.
func SeedGameweekPrices() []player.GameweekPrice {
	return []player.GameweekPrice{
		{PlayerID: "rca-fwd-1", GameweekID: "gw-2", Price: 900},
		{PlayerID: "wac-mid-1", GameweekID: "gw-2", Price: 650},
	}
}

func SeedManagers() []manager.Manager {
	return []manager.Manager{
		{ID: "mgr-atlas", SquadName: "Atlas Lions XI", Wallet: StartingWallet, CreatedAt: seedEpoch, UpdatedAt: seedEpoch},
		{ID: "mgr-casa", SquadName: "Casa Derby FC", Wallet: StartingWallet, CreatedAt: seedEpoch, UpdatedAt: seedEpoch},
		{ID: "mgr-rif", SquadName: "Rif Rangers", Wallet: StartingWallet, CreatedAt: seedEpoch, UpdatedAt: seedEpoch},
	}
}

func SeedEvents() []scoring.Event {
	at := time.Date(2026, 8, 9, 20, 0, 0, 0, time.UTC)
	return []scoring.Event{
		{ID: "ev-1", PlayerID: "rca-fwd-1", GameweekID: "gw-1", FixtureID: "fx-1", Type: scoring.EventGoal, Minute: 23, CreatedAt: at},
		{ID: "ev-2", PlayerID: "rca-mid-1", GameweekID: "gw-1", FixtureID: "fx-1", Type: scoring.EventAssist, Minute: 23, CreatedAt: at},
		{ID: "ev-3", PlayerID: "wac-gk-1", GameweekID: "gw-1", FixtureID: "fx-1", Type: scoring.EventCleanSheet, Minute: 90, CreatedAt: at},
		{ID: "ev-4", PlayerID: "far-def-1", GameweekID: "gw-1", FixtureID: "fx-2", Type: scoring.EventYellowCard, Minute: 61, CreatedAt: at},
		{ID: "ev-5", PlayerID: "rsb-fwd-1", GameweekID: "gw-1", FixtureID: "fx-2", Type: scoring.EventGoal, Minute: 77, CreatedAt: at},
	}
}
