package application

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/weekday"
)

const (
	msgEndBeforeStart  = "end time must not be before start time"
	msgUnknownWeekday  = "weekday is not recognized"
	msgUnknownShift    = "shift is not recognized"
	msgInvalidDate     = "date must be YYYY-MM-DD"
	msgInvalidClock    = "time must be HH:MM"
	msgRequired        = "is required"
	msgInvalidDayQuery = "day filter is not recognized"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return f.Name
	})
	if err := v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return schedule.ValidClock(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// validateStruct runs the struct tags of input and converts the result into
// a ValidationError keyed by the field tag names.
func validateStruct(input any) *ValidationError {
	vErr := &ValidationError{}
	err := validate.Struct(input)
	if err == nil {
		return vErr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		vErr.add("input", err.Error())
		return vErr
	}
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			vErr.add(fe.Field(), fe.Field()+" "+msgRequired)
		case "clock":
			vErr.add(fe.Field(), msgInvalidClock)
		default:
			vErr.add(fe.Field(), fe.Field()+" is invalid")
		}
	}
	return vErr
}

func (in ClassInput) trimmed() ClassInput {
	out := in
	for _, s := range []*string{
		&out.Building, &out.Floor, &out.Room, &out.Subject, &out.Group,
		&out.Instructor, &out.Start, &out.End, &out.Shift, &out.Weekday, &out.Priority,
	} {
		*s = strings.TrimSpace(*s)
	}
	return out
}

func (in EventInput) trimmed() EventInput {
	out := in
	for _, s := range []*string{&out.Title, &out.Location, &out.Date, &out.Start, &out.End, &out.Shift} {
		*s = strings.TrimSpace(*s)
	}
	return out
}

// buildClass validates input and returns the record to persist. The weekday
// is normalized to its canonical name and the priority defaults to
// DefaultPriority.
func buildClass(input ClassInput) (schedule.ClassRecord, *ValidationError) {
	in := input.trimmed()
	vErr := validateStruct(in)

	var (
		shift schedule.Shift
		day   weekday.Day
		err   error
	)
	if in.Shift != "" {
		if shift, err = schedule.ParseShift(in.Shift); err != nil {
			vErr.add("turno", msgUnknownShift)
		}
	}
	if in.Weekday != "" {
		if day, err = weekday.Normalize(in.Weekday); err != nil {
			vErr.add("diaSemana", msgUnknownWeekday)
		}
	}
	checkRange(vErr, in.Start, in.End, "horario2")

	if vErr.HasErrors() {
		return schedule.ClassRecord{}, vErr
	}

	priority := in.Priority
	if priority == "" {
		priority = DefaultPriority
	}
	return schedule.ClassRecord{
		Building:   in.Building,
		Floor:      in.Floor,
		Room:       in.Room,
		Subject:    in.Subject,
		Group:      in.Group,
		Instructor: in.Instructor,
		Start:      in.Start,
		End:        in.End,
		Shift:      shift,
		Weekday:    day,
		RoomOpen:   in.RoomOpen,
		Priority:   priority,
	}, nil
}

// buildEvent validates input and returns the record to persist. Timestamps
// are reduced to their ISO date.
func buildEvent(input EventInput) (schedule.EventRecord, *ValidationError) {
	in := input.trimmed()
	vErr := validateStruct(in)

	var (
		shift schedule.Shift
		date  string
		err   error
	)
	if in.Shift != "" {
		if shift, err = schedule.ParseShift(in.Shift); err != nil {
			vErr.add("turno", msgUnknownShift)
		}
	}
	if in.Date != "" {
		if date, err = schedule.NormalizeDate(in.Date); err != nil {
			vErr.add("data", msgInvalidDate)
		}
	}
	checkRange(vErr, in.Start, in.End, "horarioFim")

	if vErr.HasErrors() {
		return schedule.EventRecord{}, vErr
	}
	return schedule.EventRecord{
		Title:    in.Title,
		Location: in.Location,
		Date:     date,
		Start:    in.Start,
		End:      in.End,
		Shift:    shift,
	}, nil
}

// checkRange only reports an inverted range once both times are well formed.
func checkRange(vErr *ValidationError, start, end, endField string) {
	if !schedule.ValidClock(start) || (end != "" && !schedule.ValidClock(end)) {
		return
	}
	if errors.Is(schedule.CheckTimeRange(start, end), schedule.ErrStartAfterEnd) {
		vErr.add(endField, msgEndBeforeStart)
	}
}
