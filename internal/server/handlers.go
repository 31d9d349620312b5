package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/cybergodev/virtualize"
)

type virtualizeResponse struct {
	Created int               `json:"created"`
	Nodes   virtualize.Result `json:"nodes"`
}

type statsResponse struct {
	TotalProcessed   int64   `json:"total_processed"`
	NodesCreated     int64   `json:"nodes_created"`
	CacheHits        int64   `json:"cache_hits"`
	CacheMisses      int64   `json:"cache_misses"`
	CacheEntries     int     `json:"cache_entries"`
	ErrorCount       int64   `json:"error_count"`
	AverageProcessMS float64 `json:"average_process_ms"`
}

// handleVirtualize converts the request body. The body is markup unless its
// content type is text/markdown. Query parameters:
//
//	select   CSS selector; the body is parsed as a document and matches are converted
//	charset  source encoding, detected when absent
func (s *Server) handleVirtualize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	query := r.URL.Query()

	var res virtualize.Result
	switch {
	case mediaType == "text/markdown":
		res, err = s.processor.ConvertMarkdown(body, virtualize.Hooks{})
	case query.Get("select") != "":
		res, err = s.processor.SelectBytes(body, query.Get("charset"), query.Get("select"), virtualize.Hooks{})
	default:
		res, err = s.processor.ConvertBytes(body, query.Get("charset"), virtualize.Hooks{})
	}
	if err != nil {
		s.log.Warn("virtualize failed", "error", err)
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, virtualizeResponse{Created: res.Created(), Nodes: res})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st := s.processor.GetStatistics()
	writeJSON(w, http.StatusOK, statsResponse{
		TotalProcessed:   st.TotalProcessed,
		NodesCreated:     st.NodesCreated,
		CacheHits:        st.CacheHits,
		CacheMisses:      st.CacheMisses,
		CacheEntries:     st.CacheEntries,
		ErrorCount:       st.ErrorCount,
		AverageProcessMS: float64(st.AverageProcessTime.Microseconds()) / 1000,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, virtualize.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, virtualize.ErrInvalidSelector),
		errors.Is(err, virtualize.ErrEncoding),
		errors.Is(err, virtualize.ErrParse):
		return http.StatusBadRequest
	case errors.Is(err, virtualize.ErrMaxDepthExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, virtualize.ErrProcessorClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
