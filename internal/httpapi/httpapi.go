// Package httpapi exposes the query services over HTTP, using stdlib
// net/http and its method+pattern ServeMux. Every response is JSON:
// either the handler's result body directly, or an errorBody envelope
// carrying a single message field.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/golang/glog"
	"github.com/wordcraftio/wordcraft/internal/query"
	"github.com/wordcraftio/wordcraft/internal/wordlist"
	"github.com/wordcraftio/wordcraft/internal/wordnet"
)

// Server holds the immutable, already-loaded state every handler reads:
// shared read-only, so no locks are needed on the query path.
type Server struct {
	Index *wordlist.Index
	WN    *wordnet.LoadedWordNet // nil if WORDNET_DIR was not configured
}

// Routes builds the ServeMux for the four query endpoints.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/matches", s.handleMatches)
	mux.HandleFunc("GET /v1/anagrams", s.handleAnagrams)
	mux.HandleFunc("GET /v1/wordnet/dictionary", s.handleDictionary)
	mux.HandleFunc("GET /v1/wordnet/related", s.handleRelated)
	return mux
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		glog.Errorf("httpapi: encoding response: %v", err)
	}
}

// writeError maps an error to a status code: query.ErrInvalidInput ->
// 400, query.ErrNotAvailable -> 503, anything else -> 500 with a
// generic message (details are logged, never echoed to the client).
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, query.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, query.ErrNotAvailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "wordnet is not available"})
	default:
		glog.Errorf("httpapi: internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// parsePagination reads page/page_size query params, defaulting page to
// 1 and page_size to 50 when absent; malformed values are InvalidInput.
func parsePagination(q map[string][]string) (page, pageSize int, err error) {
	page, err = intParam(q, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err = intParam(q, "page_size", 50)
	if err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

func intParam(q map[string][]string, key string, def int) (int, error) {
	vals, ok := q[key]
	if !ok || len(vals) == 0 || vals[0] == "" {
		return def, nil
	}
	n, err := strconv.Atoi(vals[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", query.ErrInvalidInput, key, vals[0])
	}
	return n, nil
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize, err := parsePagination(q)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := query.Matches(s.Index, q.Get("pattern"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnagrams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize, err := parsePagination(q)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := query.Anagrams(s.Index, q.Get("letters"), q.Get("pattern"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	result, err := query.Dictionary(s.WN, r.URL.Query().Get("word"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	result, err := query.Related(s.WN, r.URL.Query().Get("word"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
