package derive

import (
	"github.com/DoyleJ11/holdem-client/internal/store"
	"github.com/DoyleJ11/holdem-client/pkg/types"
)

type SeatFacts struct {
	SeatIndex     int       `json:"seatIndex"`
	DisplayNumber int       `json:"displayNumber"`
	Occupied      bool      `json:"occupied"`
	DisplayName   string    `json:"displayName,omitempty"`
	Chips         int       `json:"chips"`
	Indicator     Indicator `json:"indicator,omitempty"`
	Folded        bool      `json:"folded"`
	AllIn         bool      `json:"allIn"`
	Acting        bool      `json:"acting"`
	Mine          bool      `json:"mine"`
}

// Facts bundles everything a view needs for one redraw.
type Facts struct {
	MySeatIndex  *int                      `json:"mySeatIndex"`
	IsMyTurn     bool                      `json:"isMyTurn"`
	ToCall       int                       `json:"toCall"`
	CallAction   types.ActionKind          `json:"callAction"`
	CallLabel    string                    `json:"callLabel"`
	IsDealer     bool                      `json:"isDealer"`
	CanStartHand bool                      `json:"canStartHand"`
	Occupied     int                       `json:"occupiedSeats"`
	Seats        [types.MaxSeats]SeatFacts `json:"seats"`
}

func Derive(s store.ClientState) Facts {
	f := Facts{
		IsMyTurn:     IsMyTurn(s),
		ToCall:       ToCall(s),
		CallAction:   CallAction(s),
		CallLabel:    CallLabel(s),
		IsDealer:     IsDealer(s),
		CanStartHand: CanStartHand(s),
	}

	mine, seated := MySeatIndex(s)
	if seated {
		f.MySeatIndex = &mine
	}

	for i := range f.Seats {
		sf := SeatFacts{SeatIndex: i, DisplayNumber: SeatDisplayNumber(i)}
		if s.Table != nil {
			seat := s.Table.Seats[i]
			sf.Occupied = seat.Occupied()
			sf.DisplayName = seat.DisplayName
			sf.Chips = seat.Chips
			sf.Folded = seat.Folded
			sf.AllIn = seat.AllIn
			sf.Indicator = BlindIndicator(i, s.Table)
			sf.Acting = s.Table.Status == types.StatusInHand &&
				s.Table.ActingSeatIndex != nil && *s.Table.ActingSeatIndex == i
			sf.Mine = seated && mine == i
		}
		f.Seats[i] = sf
	}
	if s.Table != nil {
		f.Occupied = CountOccupiedSeats(s.Table.Seats)
	}
	return f
}
