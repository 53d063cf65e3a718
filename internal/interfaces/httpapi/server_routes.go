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

func registerSeasonRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/season/advance", handler.AdvanceSeason)
	mux.HandleFunc("POST /v1/matchdays", handler.StartMatchday)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/tick", handler.TickMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/substitutions", handler.RequestSubstitution)
	mux.HandleFunc("POST /v1/matches/{matchID}/end", handler.EndMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/live/start", handler.StartLive)
	mux.HandleFunc("POST /v1/matches/{matchID}/live/pause", handler.PauseLive)
	mux.HandleFunc("POST /v1/matches/{matchID}/live/resume", handler.ResumeLive)
	mux.HandleFunc("PUT /v1/matches/{matchID}/live/speed", handler.SetLiveSpeed)
}
