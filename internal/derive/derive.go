// Package derive computes view-ready facts from a ClientState. Everything
// here is pure and recomputed on every render; a missing table or a missing
// betting record degrades to the neutral value instead of failing.
package derive

import (
	"fmt"

	"github.com/DoyleJ11/holdem-client/internal/store"
	"github.com/DoyleJ11/holdem-client/pkg/types"
)

type Indicator string

const (
	IndicatorNone       Indicator = ""
	IndicatorDealer     Indicator = "D"
	IndicatorSmallBlind Indicator = "SB"
	IndicatorBigBlind   Indicator = "BB"
)

// MySeatIndex returns the seat occupied by the local user.
func MySeatIndex(s store.ClientState) (int, bool) {
	if s.Table == nil || s.Me.UserID == "" {
		return 0, false
	}
	for i, seat := range s.Table.Seats {
		if seat.UserID == s.Me.UserID {
			return i, true
		}
	}
	return 0, false
}

// MyPlayerState returns the local user's betting record for the current
// hand, or nil when there is none.
func MyPlayerState(s store.ClientState) *types.PlayerState {
	seat, ok := MySeatIndex(s)
	if !ok {
		return nil
	}
	for i := range s.Table.PlayerState {
		if s.Table.PlayerState[i].SeatIndex == seat {
			return &s.Table.PlayerState[i]
		}
	}
	return nil
}

// ToCall is what the local user still owes this street. Zero means check.
func ToCall(s store.ClientState) int {
	ps := MyPlayerState(s)
	if ps == nil {
		return 0
	}
	return max(0, s.Table.CurrentBet-ps.BetThisStreet)
}

func IsMyTurn(s store.ClientState) bool {
	if s.Table == nil || s.Table.Status != types.StatusInHand || s.Table.ActingSeatIndex == nil {
		return false
	}
	seat, ok := MySeatIndex(s)
	return ok && *s.Table.ActingSeatIndex == seat
}

// CallAction picks CHECK or CALL for the check/call control.
func CallAction(s store.ClientState) types.ActionKind {
	if ToCall(s) == 0 {
		return types.ActionCheck
	}
	return types.ActionCall
}

func CallLabel(s store.ClientState) string {
	if n := ToCall(s); n > 0 {
		return fmt.Sprintf("Call %d", n)
	}
	return "Check"
}

// BlindIndicator labels a seat. The dealer is checked first, so a seat gets
// at most one label.
func BlindIndicator(seatIndex int, t *types.Table) Indicator {
	if t == nil || seatIndex < 0 || seatIndex >= types.MaxSeats {
		return IndicatorNone
	}
	seat := t.Seats[seatIndex]
	switch {
	case seat.Occupied() && seat.UserID == t.DealerUserID:
		return IndicatorDealer
	case t.SmallBlindSeatIndex != nil && *t.SmallBlindSeatIndex == seatIndex:
		return IndicatorSmallBlind
	case t.BigBlindSeatIndex != nil && *t.BigBlindSeatIndex == seatIndex:
		return IndicatorBigBlind
	default:
		return IndicatorNone
	}
}

func CountOccupiedSeats(seats [types.MaxSeats]types.Seat) int {
	n := 0
	for _, seat := range seats {
		if seat.Occupied() {
			n++
		}
	}
	return n
}

func dealerSeat(t *types.Table) (types.Seat, bool) {
	if t == nil || t.DealerUserID == "" {
		return types.Seat{}, false
	}
	for _, seat := range t.Seats {
		if seat.UserID == t.DealerUserID {
			return seat, true
		}
	}
	return types.Seat{}, false
}

func IsDealer(s store.ClientState) bool {
	seat, ok := dealerSeat(s.Table)
	return ok && s.Me.UserID != "" && seat.UserID == s.Me.UserID
}

// CanStartHand only gates the local control; the authority has the final
// say and answers with ERROR when it disagrees.
func CanStartHand(s store.ClientState) bool {
	return IsDealer(s) &&
		CountOccupiedSeats(s.Table.Seats) >= 2 &&
		s.Table.Status != types.StatusInHand
}
