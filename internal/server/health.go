package server

import (
	"context"
	"net/http"
	"time"
)

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := envelope{}
	for name, p := range s.deps.Health {
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "available"
	if status != http.StatusOK {
		state = "degraded"
	}

	if err := s.writeJSON(w, status, envelope{"status": state, "checks": checks}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}
