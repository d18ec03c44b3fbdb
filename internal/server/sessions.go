package server

import (
	"errors"
	"net/http"

	"grantify/internal/filter"
	"grantify/internal/storage/redis"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Sessions cache what a UI is currently showing; they expire and are
// never the source of truth for saved filters.

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	f := filter.Default()

	if err := s.deps.Sessions.SetFilterSession(r.Context(), id, f); err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/api/sessions/"+id+"/filter")

	if err := s.writeJSON(w, http.StatusCreated, envelope{"id": id, "filter": f}, headers); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) readSessionID(r *http.Request) (string, map[string]string) {
	params := sessionParams{ID: mux.Vars(r)["id"]}
	if err := s.validate.Struct(params); err != nil {
		return "", validationErrors(err)
	}
	return params.ID, nil
}

func (s *Server) showSessionFilterHandler(w http.ResponseWriter, r *http.Request) {
	id, verrs := s.readSessionID(r)
	if verrs != nil {
		s.failedValidationResponse(w, r, verrs)
		return
	}

	f, err := s.deps.Sessions.GetFilterSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, redis.ErrCacheMiss) {
			s.notFoundResponse(w, r)
			return
		}
		s.serverErrorResponse(w, r, err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, envelope{"id": id, "filter": f}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) updateSessionFilterHandler(w http.ResponseWriter, r *http.Request) {
	id, verrs := s.readSessionID(r)
	if verrs != nil {
		s.failedValidationResponse(w, r, verrs)
		return
	}

	f, verrs, err := s.readFilter(w, r)
	if err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	if verrs != nil {
		s.failedValidationResponse(w, r, verrs)
		return
	}

	f = filter.Normalize(f)
	if err := s.deps.Sessions.SetFilterSession(r.Context(), id, f); err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, envelope{"id": id, "filter": f}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}
