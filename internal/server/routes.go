package server

import "net/http"

func (s *Server) routes() {
	s.router.NotFoundHandler = http.HandlerFunc(s.notFoundResponse)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowedResponse)

	s.router.Use(s.requestID, s.recoverPanic, s.logRequest)

	s.router.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.rateLimit)

	api.HandleFunc("/filters/default", s.defaultFilterHandler).Methods(http.MethodGet)
	api.HandleFunc("/filters/presets", s.listPresetsHandler).Methods(http.MethodGet)
	api.HandleFunc("/filters/presets/{key}", s.applyPresetHandler).Methods(http.MethodPost)
	api.HandleFunc("/filters/validate", s.validateFilterHandler).Methods(http.MethodPost)
	api.HandleFunc("/filters/query", s.queryFilterHandler).Methods(http.MethodPost)

	api.HandleFunc("/grants/search", s.searchGrantsHandler).Methods(http.MethodPost)
	api.HandleFunc("/grants/{id}", s.showGrantHandler).Methods(http.MethodGet)

	api.HandleFunc("/sessions", s.createSessionHandler).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/filter", s.showSessionFilterHandler).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/filter", s.updateSessionFilterHandler).Methods(http.MethodPut)
}
