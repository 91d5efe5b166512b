// Package admin serves run status over HTTP while a trace is analyzed and
// after it finished.
package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ns3-trace-analyzer/internal/filter"
	"ns3-trace-analyzer/internal/pipeline"
	"ns3-trace-analyzer/internal/stats"
	"ns3-trace-analyzer/internal/trace"
	"ns3-trace-analyzer/internal/tui"
)

const (
	defaultLimit = 100
	maxLimit     = 10000
)

type Server struct {
	Tracker *pipeline.Tracker
	tpl     *template.Template
	logger  *slog.Logger
}

//go:embed templates/index.html
var content embed.FS

func NewServer(tracker *pipeline.Tracker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	tpl := template.Must(template.New("index.html").Funcs(template.FuncMap{
		"hms": tui.FormatDuration,
	}).ParseFS(content, "templates/index.html"))
	return &Server{Tracker: tracker, tpl: tpl, logger: logger.With("component", "admin")}
}

// Handler returns the status routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/progress", s.handleProgress)
	mux.HandleFunc("/summary", s.handleSummary)
	mux.HandleFunc("/entries", s.handleEntries)
	return mux
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.logger.Info("status server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct {
		RunID    string
		Progress pipeline.Snapshot
		Result   *pipeline.Result
		Summary  *stats.Summary
	}{
		RunID:    s.Tracker.RunID(),
		Progress: s.Tracker.Snapshot(),
		Result:   s.Tracker.Result(),
	}
	if data.Result != nil {
		sum := stats.Summarize(data.Result.Entries)
		data.Summary = &sum
	}
	if err := s.tpl.Execute(w, data); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":   s.Tracker.RunID(),
		"progress": s.Tracker.Snapshot(),
		"result":   s.Tracker.Result(),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	res := s.Tracker.Result()
	if res == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "run in progress"})
		return
	}
	writeJSON(w, http.StatusOK, stats.Summarize(res.Entries))
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	res := s.Tracker.Result()
	if res == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "run in progress"})
		return
	}
	q := r.URL.Query()
	limit := defaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxLimit)
	}
	set := filter.Set{}
	if name := q.Get("column"); name != "" {
		col, err := filter.LookupColumn(name)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		set.Put(col, q.Get("value"))
	}
	matched := set.Apply(res.Entries)
	page := make([]trace.Entry, 0, min(limit, len(matched)))
	page = append(page, matched[:min(limit, len(matched))]...)
	writeJSON(w, http.StatusOK, map[string]any{
		"total":   len(matched),
		"entries": page,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
