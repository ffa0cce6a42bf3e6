package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/example/schedule-dashboard/internal/interchange"
	"github.com/example/schedule-dashboard/internal/persistence"
	"github.com/example/schedule-dashboard/internal/schedule"
)

// ImportFailure describes one record that was not imported.
type ImportFailure struct {
	Index  int
	Reason string
	Fields map[string]string
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Collection Collection
	Added      int
	Failed     int
	Failures   []ImportFailure
}

// Notice summarizes the result for the user.
func (r ImportResult) Notice() Notice {
	switch {
	case r.Added == 0 && r.Failed == 0:
		return Notice{Severity: SeverityInfo, Message: "Nenhum registro encontrado no arquivo."}
	case r.Failed == 0:
		return successNotice(fmt.Sprintf("%d registro(s) importado(s) com sucesso.", r.Added))
	case r.Added == 0:
		return errorNotice(fmt.Sprintf("Nenhum registro importado; %d com erro.", r.Failed))
	default:
		return warningNotice(fmt.Sprintf("%d registro(s) importado(s); %d com erro.", r.Added, r.Failed))
	}
}

// ImportObserver is told about finished imports.
type ImportObserver interface {
	ObserveImport(collection string, added, failed int)
}

// TransferService exports and imports whole collections.
type TransferService struct {
	classes  persistence.ClassRepository
	events   persistence.EventRepository
	notifier ChangeNotifier
	observer ImportObserver
	logger   *slog.Logger
}

// NewTransferService constructs a transfer service with the provided dependencies.
func NewTransferService(classes persistence.ClassRepository, events persistence.EventRepository, notifier ChangeNotifier) *TransferService {
	return NewTransferServiceWithLogger(classes, events, notifier, nil, nil)
}

// NewTransferServiceWithLogger constructs a transfer service with an import
// observer and a specified logger. Either may be nil.
func NewTransferServiceWithLogger(classes persistence.ClassRepository, events persistence.EventRepository, notifier ChangeNotifier, observer ImportObserver, logger *slog.Logger) *TransferService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &TransferService{
		classes:  classes,
		events:   events,
		notifier: notifier,
		observer: observer,
		logger:   defaultLogger(logger),
	}
}

func (s *TransferService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TransferService", operation, attrs...)
}

// Export writes every record of collection to w in format, in store order.
func (s *TransferService) Export(ctx context.Context, collection Collection, format interchange.Format, w io.Writer) (count int, err error) {
	if s == nil {
		err = fmt.Errorf("TransferService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Export", "collection", string(collection), "format", string(format))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to export", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", count).InfoContext(ctx, "collection exported")
	}()

	switch collection {
	case CollectionClasses:
		var classes []schedule.ClassRecord
		if classes, err = s.classes.ListClasses(ctx); err != nil {
			err = mapReadError(err)
			return
		}
		count = len(classes)
		err = interchange.EncodeClasses(w, format, classes)
	case CollectionEvents:
		var events []schedule.EventRecord
		if events, err = s.events.ListEvents(ctx); err != nil {
			err = mapReadError(err)
			return
		}
		count = len(events)
		err = interchange.EncodeEvents(w, format, events)
	default:
		err = fmt.Errorf("unknown collection %q", collection)
	}
	return
}

// Import reads records from r and inserts each one independently. Ids in the
// input are ignored, weekdays are normalized and event dates are reduced to
// YYYY-MM-DD. A record that fails to decode, validate or insert is counted
// as failed without affecting the others. The returned error is only set
// when the input as a whole cannot be read.
func (s *TransferService) Import(ctx context.Context, collection Collection, format interchange.Format, r io.Reader) (result ImportResult, err error) {
	if s == nil {
		err = fmt.Errorf("TransferService is nil")
		return
	}

	result.Collection = collection
	logger := s.loggerWith(ctx, "Import", "collection", string(collection), "format", string(format))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to import", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("added", result.Added, "failed", result.Failed).InfoContext(ctx, "collection imported")
		if s.observer != nil {
			s.observer.ObserveImport(string(collection), result.Added, result.Failed)
		}
		if result.Added > 0 {
			s.notifier.CollectionChanged(ctx, Change{Collection: collection, Action: ActionImported, Count: result.Added})
		}
	}()

	switch collection {
	case CollectionClasses:
		var entries []interchange.Entry[schedule.ClassRecord]
		if entries, err = interchange.DecodeClasses(r, format); err != nil {
			return
		}
		for _, entry := range entries {
			result.record(entry.Index, s.importClass(ctx, entry))
		}
	case CollectionEvents:
		var entries []interchange.Entry[schedule.EventRecord]
		if entries, err = interchange.DecodeEvents(r, format); err != nil {
			return
		}
		for _, entry := range entries {
			result.record(entry.Index, s.importEvent(ctx, entry))
		}
	default:
		err = fmt.Errorf("unknown collection %q", collection)
	}
	return
}

func (s *TransferService) importClass(ctx context.Context, entry interchange.Entry[schedule.ClassRecord]) error {
	if entry.Err != nil {
		return entry.Err
	}
	record, vErr := buildClass(ClassInputFromRecord(entry.Record))
	if vErr.HasErrors() {
		return vErr
	}
	if _, err := s.classes.AddClass(ctx, record); err != nil {
		return mapWriteError("write", err, "horario2")
	}
	return nil
}

func (s *TransferService) importEvent(ctx context.Context, entry interchange.Entry[schedule.EventRecord]) error {
	if entry.Err != nil {
		return entry.Err
	}
	record, vErr := buildEvent(EventInputFromRecord(entry.Record))
	if vErr.HasErrors() {
		return vErr
	}
	if _, err := s.events.AddEvent(ctx, record); err != nil {
		return mapWriteError("write", err, "horarioFim")
	}
	return nil
}

func (r *ImportResult) record(index int, err error) {
	if err == nil {
		r.Added++
		return
	}
	r.Failed++
	failure := ImportFailure{Index: index, Reason: err.Error()}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		failure.Fields = vErr.FieldErrors
	}
	r.Failures = append(r.Failures, failure)
}
