package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/tablequery"
)

type eventService interface {
	List(ctx context.Context, query application.EventListQuery) ([]schedule.EventRecord, error)
	Get(ctx context.Context, id int64) (schedule.EventRecord, error)
	Create(ctx context.Context, input application.EventInput) (schedule.EventRecord, error)
	Update(ctx context.Context, id int64, input application.EventInput) (schedule.EventRecord, error)
	Delete(ctx context.Context, id int64) error
}

// EventHandler serves the admin table and CRUD endpoints for events.
type EventHandler struct {
	service   eventService
	responder responder
	logger    *slog.Logger
}

func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	base := defaultLogger(logger)
	return &EventHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EventHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EventHandler", operation, attrs...)
}

// List handles GET /api/events?q=&data=&sort=&dir=&toggle=.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	query := application.EventListQuery{
		Search: q.Get("q"),
		Date:   q.Get("data"),
		Sort:   sortStateFromQuery(tablequery.DefaultEventSort, q.Get("sort"), q.Get("dir"), q.Get("toggle")),
	}

	events, err := h.service.List(r.Context(), query)
	if err != nil {
		h.log(r.Context(), "List", "sort", query.Sort.Key).ErrorContext(r.Context(), "event listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	items := make([]eventDTO, 0, len(events))
	for _, e := range events {
		items = append(items, toEventDTO(e))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventListResponse{
		Items: items,
		Count: len(items),
		Sort:  toSortDTO(query.Sort),
	})
}

// Get handles GET /api/events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := recordIDFromRequest(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	event, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "event_id", id).WarnContext(r.Context(), "event lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEventDTO(event))
}

// Create handles POST /api/events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode event request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	event, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		logger.WarnContext(r.Context(), "event creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "event created", "event_id", event.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toEventDTO(event))
}

// Update handles PUT /api/events/{id}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := recordIDFromRequest(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "event_id", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode event update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "event_id", id)
	event, err := h.service.Update(r.Context(), id, req.toInput())
	if err != nil {
		logger.WarnContext(r.Context(), "event update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "event updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEventDTO(event))
}

// Delete handles DELETE /api/events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := recordIDFromRequest(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	logger := h.log(r.Context(), "Delete", "event_id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		logger.WarnContext(r.Context(), "event deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "event deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type eventRequest struct {
	Title    string `json:"titulo"`
	Location string `json:"local"`
	Date     string `json:"data"`
	Start    string `json:"horarioInicio"`
	End      string `json:"horarioFim"`
	Shift    string `json:"turno"`
}

func (req eventRequest) toInput() application.EventInput {
	return application.EventInput{
		Title:    req.Title,
		Location: req.Location,
		Date:     req.Date,
		Start:    req.Start,
		End:      req.End,
		Shift:    req.Shift,
	}
}

type eventDTO struct {
	ID int64 `json:"id"`
	eventRequest
	DisplayDate string `json:"dataExibicao"`
}

func toEventDTO(e schedule.EventRecord) eventDTO {
	return eventDTO{
		ID: e.ID,
		eventRequest: eventRequest{
			Title:    e.Title,
			Location: e.Location,
			Date:     e.Date,
			Start:    e.Start,
			End:      e.End,
			Shift:    string(e.Shift),
		},
		DisplayDate: schedule.FormatDisplayDate(e.Date),
	}
}

type eventListResponse struct {
	Items []eventDTO `json:"items"`
	Count int        `json:"count"`
	Sort  sortDTO    `json:"sort"`
}
