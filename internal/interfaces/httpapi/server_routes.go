package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerHistoryRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/stats", handler.GetStats)
	mux.HandleFunc("GET /v1/stats/finishes", handler.GetFinishes)
	mux.HandleFunc("GET /v1/history", handler.GetHistory)
	mux.HandleFunc("GET /v1/seasons/{year}", handler.GetSeason)
	mux.HandleFunc("GET /v1/seasons/{year}/weekly-scores", handler.GetWeeklyScores)
	mux.HandleFunc("POST /v1/seasons/{year}/refresh", handler.RefreshSeason)
}
