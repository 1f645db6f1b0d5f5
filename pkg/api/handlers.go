package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lehmer/pkg/buildinfo"
	"github.com/matzehuels/lehmer/pkg/errors"
	"github.com/matzehuels/lehmer/pkg/query"
)

// Content types of rendered trees.
const (
	contentTypeSVG = "image/svg+xml"
	contentTypeDOT = "text/vnd.graphviz; charset=utf-8"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// pageResponse adds paging hints to a query.PageResult.
type pageResponse struct {
	*query.PageResult
	NextOffset *int64 `json:"next_offset,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleFactorial(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "n")
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "n must be an integer, got %q", raw))
		return
	}
	res, err := s.runner.Factorial(r.Context(), n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAt(w http.ResponseWriter, r *http.Request) {
	var opts query.AtOptions
	if err := s.decode(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.At(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var opts query.PageOptions
	if err := s.decode(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Page(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := pageResponse{PageResult: res}
	if res.HasMore() {
		next := res.NextOffset()
		resp.NextOffset = &next
	}
	setCacheHeader(w, res.CacheHit)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var opts query.RankOptions
	if err := s.decode(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Rank(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	// An absent "highlight" means no highlighted path, not rank 0.
	opts := query.TreeOptions{Highlight: query.NoHighlight}
	if err := s.decode(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Tree(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ct := contentTypeSVG
	if res.Format == query.FormatDOT {
		ct = contentTypeDOT
	}
	w.Header().Set("Content-Type", ct)
	setCacheHeader(w, res.CacheHit)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
}
