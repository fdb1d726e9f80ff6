package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/pricemachine/internal/core"
	"github.com/JonMunkholm/pricemachine/internal/export"
	"github.com/JonMunkholm/pricemachine/internal/logging"
	"github.com/JonMunkholm/pricemachine/internal/web/templates"
)

// handleIndex renders the searchable price list.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query().Get("q")

	list, err := s.service.Current()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	// Summary is informational, don't fail the page over it
	summary, err := core.Summarize(list.Rows())
	if err != nil {
		logging.FromContext(ctx).Warn("summary failed", "error", err)
	}

	data := templates.IndexData{
		Query:   q,
		Rows:    list.Search(q),
		Summary: summary,
		Formats: export.Keys(),
		Loaded:  list.LoadedAt.Format("2006-01-02 15:04:05"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(data).Render(ctx, w); err != nil {
		logging.FromContext(ctx).Error("render index", "error", err)
	}
}

// handlePrices returns the rows matching ?q= as JSON.
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	rows, err := s.service.Search(r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, rows)
}

// handleSummary returns unit price statistics of the whole list.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.Summary()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, summary)
}

// ReportResponse describes the load currently served.
type ReportResponse struct {
	ID       string      `json:"id"`
	Dir      string      `json:"dir"`
	LoadedAt time.Time   `json:"loadedAt"`
	Rows     int         `json:"rows"`
	Report   core.Report `json:"report"`
}

func reportResponse(list *core.PriceList) ReportResponse {
	return ReportResponse{
		ID:       list.ID.String(),
		Dir:      list.Dir,
		LoadedAt: list.LoadedAt,
		Rows:     list.Len(),
		Report:   list.Report,
	}
}

// handleReport returns what happened to every input file of the current load.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.Current()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, reportResponse(list))
}

// HistoryResponse lists recent load attempts, newest first.
type HistoryResponse struct {
	Loads []core.LoadRecord `json:"loads"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, HistoryResponse{Loads: s.service.History()})
}

// handleReload aggregates the directory again. The previous list keeps
// serving if the reload fails.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithFields(r.Context(), "dir", s.service.Dir())
	logger.Info("reload requested")

	list, err := s.service.Load(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logger.Info("reload completed", "load_id", list.ID, "rows", list.Len())
	writeJSON(w, r, reportResponse(list))
}

// handleExport streams the rows matching ?q= in the requested format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.Lookup(chi.URLParam(r, "format"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	rows, err := s.service.Search(r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("prices_%s%s", timestamp, f.Extension)
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(r.Context(), w, rows); err != nil {
		// Headers are already sent
		logging.FromContext(r.Context()).Error("export failed", "format", f.Key, "error", err)
	}
}
