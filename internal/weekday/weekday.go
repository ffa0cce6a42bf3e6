// Package weekday maps free-form day names onto the canonical Portuguese
// weekday vocabulary used by stored class records.
package weekday

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidDayToken is returned when a token does not name a weekday.
var ErrInvalidDayToken = errors.New("weekday: invalid day token")

// Day is a canonical weekday token.
type Day string

const (
	Sunday    Day = "domingo"
	Monday    Day = "segunda-feira"
	Tuesday   Day = "terça-feira"
	Wednesday Day = "quarta-feira"
	Thursday  Day = "quinta-feira"
	Friday    Day = "sexta-feira"
	Saturday  Day = "sábado"
)

// week is indexed by time.Weekday.
var week = [7]Day{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// aliases is keyed by folded, accent-free tokens.
var aliases = map[string]Day{
	"domingo":       Sunday,
	"segunda":       Monday,
	"segunda-feira": Monday,
	"terca":         Tuesday,
	"terca-feira":   Tuesday,
	"quarta":        Wednesday,
	"quarta-feira":  Wednesday,
	"quinta":        Thursday,
	"quinta-feira":  Thursday,
	"sexta":         Friday,
	"sexta-feira":   Friday,
	"sabado":        Saturday,
	"sunday":        Sunday,
	"monday":        Monday,
	"tuesday":       Tuesday,
	"wednesday":     Wednesday,
	"thursday":      Thursday,
	"friday":        Friday,
	"saturday":      Saturday,
}

// Normalize maps a Portuguese short or long form, or an English day name,
// onto its canonical Day. Matching ignores case and diacritics.
func Normalize(token string) (Day, error) {
	key := foldKey(token)
	if key == "" {
		return "", fmt.Errorf("%w: empty token", ErrInvalidDayToken)
	}
	day, ok := aliases[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDayToken, token)
	}
	return day, nil
}

// FromTime returns the canonical day for the calendar date of t in t's location.
func FromTime(t time.Time) Day {
	return week[t.Weekday()]
}

// Position returns the index of d within the week starting on Sunday, or -1
// when d is not canonical.
func (d Day) Position() int {
	for i, candidate := range week {
		if candidate == d {
			return i
		}
	}
	return -1
}

func (d Day) String() string {
	return string(d)
}

func foldKey(token string) string {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ""
	}
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		trimmed,
	)
	if err != nil {
		stripped = trimmed
	}
	return cases.Fold().String(stripped)
}
