// Package tablequery implements search, filtering and single-key sorting for
// the admin tables of classes and events.
package tablequery

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Direction is the sort order of a table column.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection treats anything other than "desc" as ascending.
func ParseDirection(value string) Direction {
	if strings.EqualFold(strings.TrimSpace(value), string(Desc)) {
		return Desc
	}
	return Asc
}

func (d Direction) flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// SortState is the active sort column of one table. Each table owns its own
// state.
type SortState struct {
	Key       string
	Direction Direction
}

// Toggle returns the state after the user selects key: the same key flips the
// direction, a different key starts ascending.
func (s SortState) Toggle(key string) SortState {
	if key == s.Key {
		return SortState{Key: s.Key, Direction: s.Direction.flip()}
	}
	return SortState{Key: key, Direction: Asc}
}

// Initial sort states of the two tables.
var (
	DefaultClassSort = SortState{Key: "horario1", Direction: Asc}
	DefaultEventSort = SortState{Key: "horarioInicio", Direction: Asc}
)

// Options combines the admin table controls.
type Options struct {
	Search string
	Filter string
	Sort   SortState
}

type comparator[T any] func(a, b T) int

func directed[T any](cmp comparator[T], dir Direction) comparator[T] {
	if dir == Desc {
		return func(a, b T) int { return -cmp(a, b) }
	}
	return cmp
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

func containsFolded(field, foldedTerm string) bool {
	return strings.Contains(fold(field), foldedTerm)
}
