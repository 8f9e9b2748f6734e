package poker

// SeatView is the public projection of one seat: hole cards are included
// only for the viewer's own seat (or for everyone after showdown reveal has
// been observed through the log).
type SeatView struct {
	Seat      int
	Name      string
	Stack     uint64
	Status    SeatStatus
	Committed uint64
	StreetBet uint64
	Hole      []Card // nil unless this is the viewer's seat
	HoleCount int
}

// View is a public snapshot of the hand from one seat's perspective. It is
// what policies and presenters consume; it never exposes the deck or other
// players' hole cards.
type View struct {
	Variant    string
	Street     int
	StreetName string
	Button     int
	Community  []Card
	Seats      []SeatView
	PotTotal   uint64
	CurrentBet uint64
	MinRaise   uint64
	ActionOn   int
	Viewer     int
	BigBlind   uint64
}

// View builds the public snapshot for the given seat. Pass -1 for a
// spectator view with no hole cards at all.
func (h *Hand) View(viewer int) View {
	v := View{
		Variant:    h.variant.Name,
		Street:     h.street,
		StreetName: h.StreetName(),
		Button:     h.button,
		Community:  h.Community(),
		PotTotal:   h.PotTotal(),
		CurrentBet: h.currentBet,
		MinRaise:   h.minRaise,
		ActionOn:   h.ActionOn(),
		Viewer:     viewer,
		BigBlind:   h.blinds.Big,
	}
	for i, s := range h.seats {
		sv := SeatView{
			Seat:      i,
			Name:      s.Name,
			Stack:     s.Stack,
			Status:    s.Status,
			Committed: s.Committed,
			StreetBet: s.StreetBet,
			HoleCount: len(s.Hole),
		}
		if i == viewer {
			sv.Hole = append([]Card(nil), s.Hole...)
		}
		v.Seats = append(v.Seats, sv)
	}
	return v
}

// Intent is a resolved player decision.
type Intent struct {
	Kind   ActionKind
	Amount uint64
}

// Controller produces the next intent for a seat; the hand loop blocks on
// it. Implementations may be a human at a keyboard or a Policy. Returning
// ErrTimeout makes the state machine check or fold on the seat's behalf.
type Controller interface {
	NextIntent(view View, legal []LegalAction) (Intent, error)
}
