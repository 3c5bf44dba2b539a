package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/gallery-essence/essence-pos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for daily summaries.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the reports handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers summary routes. The CSV export gets a tighter rate
// limit since it bypasses the JSON cache path in clients.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/summary/daily", h.daily)
	r.With(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
		Get("/summary/daily/export.csv", h.exportCSV)
}

func (h *Handler) parseDay(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now().UTC(), true
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return day.UTC(), true
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	day, ok := h.parseDay(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}
	summary, err := h.service.Daily(r.Context(), day)
	if err != nil {
		h.logger.Error("daily summary failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	day, ok := h.parseDay(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}
	summary, err := h.service.Daily(r.Context(), day)
	if err != nil {
		h.logger.Error("daily summary export failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="daily-summary-`+summary.Date+`.csv"`)
	if err := WriteCSV(w, summary); err != nil {
		h.logger.Error("write summary csv", slog.Any("error", err))
	}
}
