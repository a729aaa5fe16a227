package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/logging"
	"github.com/Simplici0/o.bakery/internal/pricing"
	"github.com/Simplici0/o.bakery/internal/settings"
	"github.com/Simplici0/o.bakery/internal/store"
	"github.com/Simplici0/o.bakery/internal/units"
)

const maxBodyBytes = 1 << 20

// problem is an RFC 7807 error body.
type problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}

// respondError maps domain errors to status codes. Unexpected errors are
// logged and hidden from the client.
func (s *server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, settings.ErrUnknownBundle):
		writeProblem(w, http.StatusNotFound, err.Error())
	case errors.Is(err, bakery.ErrInvalid), errors.Is(err, settings.ErrInvalid), errors.Is(err, errBadRequest):
		writeProblem(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrConflict):
		writeProblem(w, http.StatusConflict, err.Error())
	case errors.Is(err, pricing.ErrUnknownIngredient), errors.Is(err, units.ErrIncompatible), errors.Is(err, units.ErrUnknownUnit):
		writeProblem(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logging.LogError(s.log, "server", r.Method+" "+r.URL.Path, nil, err)
		writeProblem(w, http.StatusInternalServerError, "")
	}
}

var errBadRequest = errors.New("bad request")

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

// queryFloat reads an optional non-negative number from the query string.
func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be numeric", errBadRequest, name)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s must be greater than or equal to 0", errBadRequest, name)
	}
	return v, nil
}

// queryInt reads an optional positive integer, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errBadRequest, name)
	}
	return v, nil
}
