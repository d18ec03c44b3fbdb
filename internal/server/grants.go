package server

import (
	"errors"
	"net/http"

	"grantify/internal/api/grants"

	"github.com/gorilla/mux"
)

func (s *Server) searchGrantsHandler(w http.ResponseWriter, r *http.Request) {
	f, verrs, err := s.readFilter(w, r)
	if err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	if verrs != nil {
		s.failedValidationResponse(w, r, verrs)
		return
	}

	result, err := s.deps.Searcher.Search(r.Context(), f)
	if err != nil {
		s.badGatewayResponse(w, r, err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, envelope{"result": result}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) showGrantHandler(w http.ResponseWriter, r *http.Request) {
	grant, err := s.deps.Searcher.Grant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, grants.ErrNotFound) {
			s.notFoundResponse(w, r)
			return
		}
		s.badGatewayResponse(w, r, err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, envelope{"grant": grant}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}
