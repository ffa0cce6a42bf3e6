package schedule

// Card is the flattened, display ready form of an Item as served to the
// dashboard and pushed to live clients.
type Card struct {
	Kind        Kind   `json:"kind"`
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Instructor  string `json:"instructor,omitempty"`
	Group       string `json:"group,omitempty"`
	Day         string `json:"day"`
	Date        string `json:"date,omitempty"`
	DisplayTime string `json:"display_time"`
	Shift       Shift  `json:"shift"`
	RoomOpen    *bool  `json:"room_open,omitempty"`
	Priority    string `json:"priority,omitempty"`
	SortKey     string `json:"sort_key"`
}

// Card builds the display form of i. Event dates are rendered as
// "DD/MM/YYYY".
func (i Item) Card() Card {
	card := Card{
		Kind:        i.Kind,
		Day:         string(i.Day),
		DisplayTime: i.DisplayTime(),
		Shift:       i.Shift,
		SortKey:     i.SortKey,
	}
	switch {
	case i.Class != nil:
		open := i.Class.RoomOpen
		card.ID = i.Class.ID
		card.Title = i.Class.Subject
		card.Location = i.Class.Location()
		card.Instructor = i.Class.Instructor
		card.Group = i.Class.Group
		card.RoomOpen = &open
		card.Priority = i.Class.Priority
	case i.Event != nil:
		card.ID = i.Event.ID
		card.Title = i.Event.Title
		card.Location = i.Event.Location
		card.Date = FormatDisplayDate(i.Event.Date)
	}
	return card
}

// Cards maps items to cards, preserving order. The result is never nil.
func Cards(items []Item) []Card {
	out := make([]Card, 0, len(items))
	for _, item := range items {
		out = append(out, item.Card())
	}
	return out
}
