package server

import (
	"net/http"

	"grantify/internal/filter"
	"grantify/internal/search"

	"github.com/gorilla/mux"
)

type sortOption struct {
	Key   filter.SortKey `json:"key"`
	Label string         `json:"label"`
}

type labeledOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func (s *Server) defaultFilterHandler(w http.ResponseWriter, r *http.Request) {
	sorts := make([]sortOption, 0, len(filter.SortKeys()))
	for _, key := range filter.SortKeys() {
		sorts = append(sorts, sortOption{Key: key, Label: filter.SortLabel(key)})
	}

	statuses := make([]labeledOption, 0, len(filter.StatusOptions()))
	for _, st := range filter.StatusOptions() {
		statuses = append(statuses, labeledOption{Value: st, Label: filter.GetStatusDisplayName(st)})
	}

	currencies := make([]labeledOption, 0, len(filter.CurrencyOptions()))
	for _, c := range filter.CurrencyOptions() {
		currencies = append(currencies, labeledOption{Value: c, Label: filter.CurrencyDisplayNames[c]})
	}

	err := s.writeJSON(w, http.StatusOK, envelope{
		"filter": filter.Default(),
		"options": envelope{
			"sort":       sorts,
			"statuses":   statuses,
			"currencies": currencies,
			"funding": envelope{
				"max_sentinel": filter.MaxFundingSentinel,
			},
			"deadline": envelope{
				"min_days": filter.MinDeadlineDays,
				"max_days": filter.MaxDeadlineDays,
			},
		},
	}, nil)
	if err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) listPresetsHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.writeJSON(w, http.StatusOK, envelope{"presets": filter.Presets()}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) applyPresetHandler(w http.ResponseWriter, r *http.Request) {
	key, ok := filter.ParsePresetKey(mux.Vars(r)["key"])
	if !ok {
		s.notFoundResponse(w, r)
		return
	}

	current, verrs, err := s.readFilter(w, r)
	if err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	if verrs != nil {
		s.failedValidationResponse(w, r, verrs)
		return
	}

	patch, merged := search.ApplyPreset(current, key)

	if err := s.writeJSON(w, http.StatusOK, envelope{"patch": patch, "filter": merged}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) validateFilterHandler(w http.ResponseWriter, r *http.Request) {
	f, verrs, err := s.readFilter(w, r)
	if err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	if verrs != nil {
		s.failedValidationResponse(w, r, verrs)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, envelope{"filter": filter.Normalize(f)}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) queryFilterHandler(w http.ResponseWriter, r *http.Request) {
	f, verrs, err := s.readFilter(w, r)
	if err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	if verrs != nil {
		s.failedValidationResponse(w, r, verrs)
		return
	}

	normalized, params := s.deps.Searcher.Prepare(r.Context(), f)

	err = s.writeJSON(w, http.StatusOK, envelope{
		"filter": normalized,
		"params": params,
		"query":  params.Encode(),
	}, nil)
	if err != nil {
		s.serverErrorResponse(w, r, err)
	}
}
