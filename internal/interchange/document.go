package interchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/weekday"
)

const (
	boolYes = "Sim"
	boolNo  = "Não"
)

var (
	classHeader = []string{"id", "bloco", "andar", "sala", "disciplina", "turmas", "professor", "horario1", "horario2", "turno", "diaSemana", "salaAberta", "prioridade"}
	eventHeader = []string{"id", "titulo", "local", "data", "horarioInicio", "horarioFim", "turno"}
)

type classDocument struct {
	ID         int64  `json:"id"`
	Bloco      string `json:"bloco"`
	Andar      string `json:"andar"`
	Sala       string `json:"sala"`
	Disciplina string `json:"disciplina"`
	Turmas     string `json:"turmas"`
	Professor  string `json:"professor"`
	Horario1   string `json:"horario1"`
	Horario2   string `json:"horario2"`
	Turno      string `json:"turno"`
	DiaSemana  string `json:"diaSemana"`
	SalaAberta bool   `json:"salaAberta"`
	Prioridade string `json:"prioridade"`
}

type eventDocument struct {
	ID            int64  `json:"id"`
	Titulo        string `json:"titulo"`
	Local         string `json:"local"`
	Data          string `json:"data"`
	HorarioInicio string `json:"horarioInicio"`
	HorarioFim    string `json:"horarioFim"`
	Turno         string `json:"turno"`
}

func toClassDocument(c schedule.ClassRecord) classDocument {
	return classDocument{
		ID:         c.ID,
		Bloco:      c.Building,
		Andar:      c.Floor,
		Sala:       c.Room,
		Disciplina: c.Subject,
		Turmas:     c.Group,
		Professor:  c.Instructor,
		Horario1:   c.Start,
		Horario2:   c.End,
		Turno:      string(c.Shift),
		DiaSemana:  string(c.Weekday),
		SalaAberta: c.RoomOpen,
		Prioridade: c.Priority,
	}
}

func toEventDocument(e schedule.EventRecord) eventDocument {
	return eventDocument{
		ID:            e.ID,
		Titulo:        e.Title,
		Local:         e.Location,
		Data:          e.Date,
		HorarioInicio: e.Start,
		HorarioFim:    e.End,
		Turno:         string(e.Shift),
	}
}

// Imported documents tolerate loosely typed values and never carry an id.

type classImport struct {
	Bloco      looseString `json:"bloco"`
	Andar      looseString `json:"andar"`
	Sala       looseString `json:"sala"`
	Disciplina looseString `json:"disciplina"`
	Turmas     looseString `json:"turmas"`
	Professor  looseString `json:"professor"`
	Horario1   looseString `json:"horario1"`
	Horario2   looseString `json:"horario2"`
	Turno      looseString `json:"turno"`
	DiaSemana  looseString `json:"diaSemana"`
	SalaAberta looseBool   `json:"salaAberta"`
	Prioridade looseString `json:"prioridade"`
}

func (d classImport) record() schedule.ClassRecord {
	return schedule.ClassRecord{
		Building:   string(d.Bloco),
		Floor:      string(d.Andar),
		Room:       string(d.Sala),
		Subject:    string(d.Disciplina),
		Group:      string(d.Turmas),
		Instructor: string(d.Professor),
		Start:      string(d.Horario1),
		End:        string(d.Horario2),
		Shift:      schedule.Shift(d.Turno),
		Weekday:    weekday.Day(d.DiaSemana),
		RoomOpen:   bool(d.SalaAberta),
		Priority:   string(d.Prioridade),
	}
}

type eventImport struct {
	Titulo        looseString `json:"titulo"`
	Local         looseString `json:"local"`
	Data          looseString `json:"data"`
	HorarioInicio looseString `json:"horarioInicio"`
	HorarioFim    looseString `json:"horarioFim"`
	Turno         looseString `json:"turno"`
}

func (d eventImport) record() schedule.EventRecord {
	return schedule.EventRecord{
		Title:    string(d.Titulo),
		Location: string(d.Local),
		Date:     string(d.Data),
		Start:    string(d.HorarioInicio),
		End:      string(d.HorarioFim),
		Shift:    schedule.Shift(d.Turno),
	}
}

// looseString accepts a JSON string, number, boolean or null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return fmt.Errorf("expected a scalar value, got %s", data)
	}
	*s = looseString(data)
	return nil
}

// looseBool accepts true/false, "Sim"/"Não", "true"/"false", 1/0 and null.
type looseBool bool

func (b *looseBool) UnmarshalJSON(data []byte) error {
	var raw looseString
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := parseBool(string(raw))
	if err != nil {
		return err
	}
	*b = looseBool(v)
	return nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "não", "nao", "false", "0", "n":
		return false, nil
	case "sim", "true", "1", "s":
		return true, nil
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return v, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}

func formatBool(v bool) string {
	if v {
		return boolYes
	}
	return boolNo
}
