package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/interchange"
)

// maxImportBytes bounds an uploaded import file.
const maxImportBytes = 10 << 20

type transferService interface {
	Export(ctx context.Context, collection application.Collection, format interchange.Format, w io.Writer) (int, error)
	Import(ctx context.Context, collection application.Collection, format interchange.Format, r io.Reader) (application.ImportResult, error)
}

// Resetter empties one collection.
type Resetter interface {
	Reset(ctx context.Context) error
}

// TransferHandler serves bulk export, import and reset of a collection.
type TransferHandler struct {
	service   transferService
	resetters map[application.Collection]Resetter
	responder responder
	logger    *slog.Logger
}

func NewTransferHandler(service transferService, classes, events Resetter, logger *slog.Logger) *TransferHandler {
	base := defaultLogger(logger)
	return &TransferHandler{
		service: service,
		resetters: map[application.Collection]Resetter{
			application.CollectionClasses: classes,
			application.CollectionEvents:  events,
		},
		responder: newResponder(base),
		logger:    base,
	}
}

func (h *TransferHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TransferHandler", operation, attrs...)
}

// Export handles GET /api/{collection}/export?format=json|csv. The document
// is built in memory so that a store failure still yields a JSON error.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	collection, format, ok := h.parseTarget(w, r)
	if !ok {
		return
	}
	logger := h.log(r.Context(), "Export", "collection", collection, "format", format)

	var buf bytes.Buffer
	count, err := h.service.Export(r.Context(), collection, format, &buf)
	if err != nil {
		logger.ErrorContext(r.Context(), "export failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(collection)+"."+format.Extension()))
	w.Header().Set("X-Record-Count", strconv.Itoa(count))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.WarnContext(r.Context(), "failed to write export", "error", err)
		return
	}
	logger.InfoContext(r.Context(), "collection exported", "count", count)
}

// Import handles POST /api/{collection}/import?format=json|csv with the file
// as the request body. Invalid records are reported, not fatal.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	collection, format, ok := h.parseTarget(w, r)
	if !ok {
		return
	}
	logger := h.log(r.Context(), "Import", "collection", collection, "format", format)

	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	result, err := h.service.Import(r.Context(), collection, format, body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.WarnContext(r.Context(), "import file too large", "limit", tooLarge.Limit)
			h.responder.writeJSON(r.Context(), w, http.StatusRequestEntityTooLarge, errorResponse{
				ErrorCode: "IMPORT_TOO_LARGE",
				Message:   "Arquivo de importação grande demais.",
			})
			return
		}
		logger.WarnContext(r.Context(), "import file unreadable", "error", err)
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
			ErrorCode: "IMPORT_UNREADABLE",
			Message:   "Não foi possível ler o arquivo de importação.",
		})
		return
	}

	logger.InfoContext(r.Context(), "collection imported", "added", result.Added, "failed", result.Failed)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toImportResponse(result))
}

// Reset returns the handler of DELETE /api/classes or /api/events.
func (h *TransferHandler) Reset(collection application.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		h.reset(w, r, collection)
	}
}

func (h *TransferHandler) reset(w http.ResponseWriter, r *http.Request, collection application.Collection) {
	resetter := h.resetters[collection]
	if resetter == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Reset", "collection", collection)
	if err := resetter.Reset(r.Context()); err != nil {
		logger.ErrorContext(r.Context(), "reset failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "collection reset")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *TransferHandler) parseTarget(w http.ResponseWriter, r *http.Request) (application.Collection, interchange.Format, bool) {
	collection, err := application.ParseCollection(mux.Vars(r)["collection"])
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusNotFound, errUnknownCollection)
		return "", "", false
	}
	format, err := interchange.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errUnknownFormat)
		return "", "", false
	}
	return collection, format, true
}

type importFailureDTO struct {
	Index  int               `json:"index"`
	Reason string            `json:"reason"`
	Fields map[string]string `json:"fields,omitempty"`
}

type importResponse struct {
	Collection string             `json:"collection"`
	Added      int                `json:"added"`
	Failed     int                `json:"failed"`
	Failures   []importFailureDTO `json:"failures"`
	Notice     noticeDTO          `json:"notice"`
}

func toImportResponse(result application.ImportResult) importResponse {
	failures := make([]importFailureDTO, 0, len(result.Failures))
	for _, f := range result.Failures {
		fields := make(map[string]string, len(f.Fields))
		for field, msg := range f.Fields {
			fields[field] = translateValidationMessage(msg)
		}
		failures = append(failures, importFailureDTO{Index: f.Index, Reason: f.Reason, Fields: fields})
	}
	return importResponse{
		Collection: string(result.Collection),
		Added:      result.Added,
		Failed:     result.Failed,
		Failures:   failures,
		Notice:     toNoticeDTO(result.Notice()),
	}
}
