package types

import "encoding/json"

// MaxSeats is the number of seat slots every table has, occupied or not.
const MaxSeats = 6

type TableStatus string

const (
	StatusWaiting TableStatus = "WAITING"
	StatusInHand  TableStatus = "IN_HAND"
)

type Identity struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// Table is the authority's snapshot. It is never merged: each STATE message
// carries a complete replacement.
type Table struct {
	TableID             string         `json:"tableId"`
	Name                string         `json:"name"`
	Status              TableStatus    `json:"status"`
	GamePhase           string         `json:"gamePhase"`
	HandNumber          int            `json:"handNumber,omitempty"`
	Pot                 int            `json:"pot"`
	CommunityCards      []Card         `json:"communityCards"`
	DealerUserID        string         `json:"dealerUserId"`
	SmallBlindSeatIndex *int           `json:"smallBlindSeatIndex"`
	BigBlindSeatIndex   *int           `json:"bigBlindSeatIndex"`
	ActingSeatIndex     *int           `json:"actingSeatIndex"`
	CurrentBet          int            `json:"currentBet"`
	MinRaiseTo          int            `json:"minRaiseTo,omitempty"`
	Seats               [MaxSeats]Seat `json:"seats"`
	PlayerState         []PlayerState  `json:"playerState"`
	LastEvent           *Event         `json:"lastEvent"`
	Version             int            `json:"version,omitempty"`
}

// UnmarshalJSON numbers every slot by its position, including slots the
// authority sent as null or left off a short array.
func (t *Table) UnmarshalJSON(data []byte) error {
	type plain Table
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Table(p)
	for i := range t.Seats {
		t.Seats[i].SeatIndex = i
	}
	return nil
}

// Seat slot; empty when UserID is "".
type Seat struct {
	SeatIndex    int    `json:"seatIndex"`
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
	Chips        int    `json:"chips"`
	Folded       bool   `json:"folded"`
	AllIn        bool   `json:"allIn"`
	IsConnected  bool   `json:"isConnected,omitempty"`
	IsSittingOut bool   `json:"isSittingOut,omitempty"`
}

func (s Seat) Occupied() bool { return s.UserID != "" }

// PlayerState is the per-hand betting record of one seat. Seats without one
// are not in the hand.
type PlayerState struct {
	SeatIndex     int  `json:"seatIndex"`
	InHand        bool `json:"inHand"`
	HasFolded     bool `json:"hasFolded"`
	IsAllIn       bool `json:"isAllIn"`
	Stack         int  `json:"stack"`
	BetThisStreet int  `json:"betThisStreet"`
}

type Event struct {
	EventID string `json:"eventId,omitempty"`
	At      string `json:"at,omitempty"`
	Type    string `json:"type,omitempty"`
	Summary string `json:"summary"`
}

type TableSummary struct {
	TableID     string   `json:"tableId"`
	Name        string   `json:"name"`
	PlayerCount int      `json:"playerCount"`
	MaxSeats    int      `json:"maxSeats"`
	Players     []string `json:"players"`
}
