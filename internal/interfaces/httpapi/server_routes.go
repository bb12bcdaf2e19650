package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerManagerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("PUT /v1/managers/{managerID}/squad", handler.SaveSquad)
	mux.HandleFunc("GET /v1/managers/{managerID}/squad", handler.GetSquad)
	mux.HandleFunc("POST /v1/managers/{managerID}/transfers", handler.MakeTransfer)
	mux.HandleFunc("GET /v1/managers/{managerID}/transfers", handler.ListTransfers)
	mux.HandleFunc("POST /v1/managers/{managerID}/substitutions", handler.Substitute)
	mux.HandleFunc("GET /v1/managers/{managerID}/overview", handler.GetOverview)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/scoring/rules", handler.ListScoringRules)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /internal/jobs/gameweeks/{gameweekID}/finalize",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.FinalizeGameweek)))
}
