package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/tablequery"
)

type classService interface {
	List(ctx context.Context, query application.ClassListQuery) ([]schedule.ClassRecord, error)
	Get(ctx context.Context, id int64) (schedule.ClassRecord, error)
	Create(ctx context.Context, input application.ClassInput) (schedule.ClassRecord, error)
	Update(ctx context.Context, id int64, input application.ClassInput) (schedule.ClassRecord, error)
	Delete(ctx context.Context, id int64) error
}

// ClassHandler serves the admin table and CRUD endpoints for classes.
type ClassHandler struct {
	service   classService
	responder responder
	logger    *slog.Logger
}

func NewClassHandler(service classService, logger *slog.Logger) *ClassHandler {
	base := defaultLogger(logger)
	return &ClassHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ClassHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ClassHandler", operation, attrs...)
}

// List handles GET /api/classes?q=&dia=&sort=&dir=&toggle=.
func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	query := application.ClassListQuery{
		Search: q.Get("q"),
		Day:    q.Get("dia"),
		Sort:   sortStateFromQuery(tablequery.DefaultClassSort, q.Get("sort"), q.Get("dir"), q.Get("toggle")),
	}
	logger := h.log(r.Context(), "List", "sort", query.Sort.Key, "dir", query.Sort.Direction)

	classes, err := h.service.List(r.Context(), query)
	if err != nil {
		logger.ErrorContext(r.Context(), "class listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	items := make([]classDTO, 0, len(classes))
	for _, c := range classes {
		items = append(items, toClassDTO(c))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, classListResponse{
		Items: items,
		Count: len(items),
		Sort:  toSortDTO(query.Sort),
	})
}

// Get handles GET /api/classes/{id}.
func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := recordIDFromRequest(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	class, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "class_id", id).WarnContext(r.Context(), "class lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toClassDTO(class))
}

// Create handles POST /api/classes.
func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req classRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode class request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	class, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		logger.WarnContext(r.Context(), "class creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "class created", "class_id", class.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toClassDTO(class))
}

// Update handles PUT /api/classes/{id}. Unknown ids are 404; PUT never
// creates.
func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := recordIDFromRequest(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	var req classRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "class_id", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode class update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "class_id", id)
	class, err := h.service.Update(r.Context(), id, req.toInput())
	if err != nil {
		logger.WarnContext(r.Context(), "class update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "class updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toClassDTO(class))
}

// Delete handles DELETE /api/classes/{id}.
func (h *ClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := recordIDFromRequest(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	logger := h.log(r.Context(), "Delete", "class_id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		logger.WarnContext(r.Context(), "class deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "class deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type classRequest struct {
	Building   string `json:"bloco"`
	Floor      string `json:"andar"`
	Room       string `json:"sala"`
	Subject    string `json:"disciplina"`
	Group      string `json:"turmas"`
	Instructor string `json:"professor"`
	Start      string `json:"horario1"`
	End        string `json:"horario2"`
	Shift      string `json:"turno"`
	Weekday    string `json:"diaSemana"`
	RoomOpen   bool   `json:"salaAberta"`
	Priority   string `json:"prioridade"`
}

func (req classRequest) toInput() application.ClassInput {
	return application.ClassInput{
		Building:   req.Building,
		Floor:      req.Floor,
		Room:       req.Room,
		Subject:    req.Subject,
		Group:      req.Group,
		Instructor: req.Instructor,
		Start:      req.Start,
		End:        req.End,
		Shift:      req.Shift,
		Weekday:    req.Weekday,
		RoomOpen:   req.RoomOpen,
		Priority:   req.Priority,
	}
}

type classDTO struct {
	ID int64 `json:"id"`
	classRequest
}

func toClassDTO(c schedule.ClassRecord) classDTO {
	return classDTO{
		ID: c.ID,
		classRequest: classRequest{
			Building:   c.Building,
			Floor:      c.Floor,
			Room:       c.Room,
			Subject:    c.Subject,
			Group:      c.Group,
			Instructor: c.Instructor,
			Start:      c.Start,
			End:        c.End,
			Shift:      string(c.Shift),
			Weekday:    string(c.Weekday),
			RoomOpen:   c.RoomOpen,
			Priority:   c.Priority,
		},
	}
}

type classListResponse struct {
	Items []classDTO `json:"items"`
	Count int        `json:"count"`
	Sort  sortDTO    `json:"sort"`
}

type sortDTO struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

func toSortDTO(s tablequery.SortState) sortDTO {
	dir := s.Direction
	if dir == "" {
		dir = tablequery.Asc
	}
	return sortDTO{Key: s.Key, Direction: string(dir)}
}

// sortStateFromQuery rebuilds the caller's current sort state from sort and
// dir, falling back to initial when no column is given, then applies toggle
// when the user clicked a column.
func sortStateFromQuery(initial tablequery.SortState, key, dir, toggle string) tablequery.SortState {
	state := initial
	if key = strings.TrimSpace(key); key != "" {
		state = tablequery.SortState{Key: key, Direction: tablequery.ParseDirection(dir)}
	}
	if toggle = strings.TrimSpace(toggle); toggle != "" {
		state = state.Toggle(toggle)
	}
	return state
}

func recordIDFromRequest(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
