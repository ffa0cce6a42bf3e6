package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/schedule"
)

type dashboardService interface {
	Dashboard(ctx context.Context, query application.DashboardQuery) (application.DashboardView, error)
	NextItem(ctx context.Context) (schedule.Item, bool, error)
}

// DashboardHandler serves the public, read only dashboard.
type DashboardHandler struct {
	service   dashboardService
	responder responder
	logger    *slog.Logger
}

func NewDashboardHandler(service dashboardService, logger *slog.Logger) *DashboardHandler {
	base := defaultLogger(logger)
	return &DashboardHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DashboardHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DashboardHandler", operation, attrs...)
}

// Get handles GET /api/dashboard?turno=&dia=. A missing dia means "auto"
// and a missing turno means "todos".
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	query := application.DashboardQuery{Shift: q.Get("turno"), Day: q.Get("dia")}
	logger := h.log(r.Context(), "Get", "turno", query.Shift, "dia", query.Day)

	view, err := h.service.Dashboard(r.Context(), query)
	if err != nil {
		logger.WarnContext(r.Context(), "dashboard request rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dashboardResponse{
		Items:       schedule.Cards(view.Items),
		Notices:     toNoticeDTOs(view.Notices),
		Filters:     filtersDTO{Shift: view.Shift.String(), Day: view.Day.String()},
		GeneratedAt: view.GeneratedAt.Format(time.RFC3339),
	})
}

// Next handles GET /api/dashboard/next.
func (h *DashboardHandler) Next(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	item, found, err := h.service.NextItem(r.Context())
	if err != nil {
		h.log(r.Context(), "Next").ErrorContext(r.Context(), "failed to compute next item", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := nextItemResponse{Found: found}
	if found {
		card := item.Card()
		resp.Item = &card
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

type dashboardResponse struct {
	Items       []schedule.Card `json:"items"`
	Notices     []noticeDTO     `json:"notices"`
	Filters     filtersDTO      `json:"filters"`
	GeneratedAt string          `json:"generated_at"`
}

type filtersDTO struct {
	Shift string `json:"turno"`
	Day   string `json:"dia"`
}

type nextItemResponse struct {
	Found bool           `json:"found"`
	Item  *schedule.Card `json:"item,omitempty"`
}

type noticeDTO struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func toNoticeDTO(n application.Notice) noticeDTO {
	return noticeDTO{Severity: string(n.Severity), Message: n.Message}
}

func toNoticeDTOs(notices []application.Notice) []noticeDTO {
	out := make([]noticeDTO, 0, len(notices))
	for _, n := range notices {
		out = append(out, toNoticeDTO(n))
	}
	return out
}
