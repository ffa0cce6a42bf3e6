package interchange

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/example/schedule-dashboard/internal/schedule"
)

func encodeJSON(w io.Writer, docs any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("interchange: encode json: %w", err)
	}
	return nil
}

// decodeJSON reads a JSON array and decodes each element on its own so that
// one malformed record does not discard the others.
func decodeJSON[D interface{ record() T }, T any](r io.Reader) ([]Entry[T], error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("interchange: expected a JSON array of records: %w", err)
	}

	entries := make([]Entry[T], 0, len(raw))
	for i, msg := range raw {
		entry := Entry[T]{Index: i + 1}
		var doc D
		if err := json.Unmarshal(msg, &doc); err != nil {
			entry.Err = fmt.Errorf("record %d: %w", i+1, err)
		} else {
			entry.Record = doc.record()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func classDocuments(classes []schedule.ClassRecord) []classDocument {
	docs := make([]classDocument, 0, len(classes))
	for _, c := range classes {
		docs = append(docs, toClassDocument(c))
	}
	return docs
}

func eventDocuments(events []schedule.EventRecord) []eventDocument {
	docs := make([]eventDocument, 0, len(events))
	for _, e := range events {
		docs = append(docs, toEventDocument(e))
	}
	return docs
}
