package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	bundle, err := s.settings.Get(r.Context(), chi.URLParam(r, "bundle"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

// handleSettingsPut replaces a whole bundle. Partial bundles are rejected.
func (s *server) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: read body: %v", errBadRequest, err))
		return
	}

	bundle, err := s.settings.Put(r.Context(), chi.URLParam(r, "bundle"), raw)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}
