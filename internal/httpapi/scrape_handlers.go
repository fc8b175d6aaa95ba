package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"easyapply-engine/internal/apperr"
	"easyapply-engine/internal/scrape"
	"easyapply-engine/internal/scrape/types"

	"go.uber.org/zap"
)

type ScrapeHandler struct {
	Searches Searches
	Log      *zap.Logger
}

func clampResults(n int) int {
	switch {
	case n < 1:
		return 1
	case n > scrape.MaxMaxResults:
		return scrape.MaxMaxResults
	}
	return n
}

// Search runs a search synchronously: GET /jobs/search?keywords=&location=&max_results=
func (h ScrapeHandler) Search(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := types.Query{
		Keywords:   strings.TrimSpace(qs.Get("keywords")),
		Location:   strings.TrimSpace(qs.Get("location")),
		MaxResults: scrape.DefaultMaxResults,
	}
	if q.Keywords == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "keywords are required")
		return
	}
	if v := qs.Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_input", "max_results must be a number")
			return
		}
		q.MaxResults = clampResults(n)
	}

	out, err := h.Searches.Search(r.Context(), RequestIDFrom(r.Context()), q)
	if err != nil {
		writeErr(w, r, h.Log, err)
		return
	}
	writeJSON(w, out)
}

type runRequest struct {
	Keywords   string `json:"keywords"`
	Location   string `json:"location"`
	MaxResults int    `json:"max_results"`
}

// Run starts a background search: POST /search/run
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid JSON: "+err.Error())
		return
	}
	q := types.Query{Keywords: req.Keywords, Location: req.Location, MaxResults: scrape.DefaultMaxResults}
	if req.MaxResults != 0 {
		q.MaxResults = clampResults(req.MaxResults)
	}

	id, err := h.Searches.Start(RequestIDFrom(r.Context()), q)
	if err != nil {
		if apperr.Is(err, apperr.TypeConflict) {
			WriteError(w, r, http.StatusConflict, "conflict", "already running")
			return
		}
		writeErr(w, r, h.Log, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true, "run_id": id})
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Searches.Status())
}
