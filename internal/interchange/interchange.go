package interchange

import (
	"io"

	"github.com/example/schedule-dashboard/internal/schedule"
)

// EncodeClasses writes classes, ids included, in format f.
func EncodeClasses(w io.Writer, f Format, classes []schedule.ClassRecord) error {
	if f == FormatCSV {
		rows := make([][]string, 0, len(classes))
		for _, c := range classes {
			rows = append(rows, classRow(c))
		}
		return writeCSV(w, classHeader, rows)
	}
	return encodeJSON(w, classDocuments(classes))
}

// EncodeEvents writes events, ids included, in format f.
func EncodeEvents(w io.Writer, f Format, events []schedule.EventRecord) error {
	if f == FormatCSV {
		rows := make([][]string, 0, len(events))
		for _, e := range events {
			rows = append(rows, eventRow(e))
		}
		return writeCSV(w, eventHeader, rows)
	}
	return encodeJSON(w, eventDocuments(events))
}

// DecodeClasses reads class records in format f. Ids in the input are
// ignored and values are returned as written; callers validate and
// normalize them.
func DecodeClasses(r io.Reader, f Format) ([]Entry[schedule.ClassRecord], error) {
	if f == FormatCSV {
		return readCSV(r, parseClassRow)
	}
	return decodeJSON[classImport, schedule.ClassRecord](r)
}

// DecodeEvents is the event counterpart of DecodeClasses.
func DecodeEvents(r io.Reader, f Format) ([]Entry[schedule.EventRecord], error) {
	if f == FormatCSV {
		return readCSV(r, parseEventRow)
	}
	return decodeJSON[eventImport, schedule.EventRecord](r)
}
