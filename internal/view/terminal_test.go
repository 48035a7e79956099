package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/holdem-client/internal/store"
	"github.com/DoyleJ11/holdem-client/pkg/types"
)

func init() {
	pterm.DisableStyling()
}

func intp(i int) *int { return &i }

func inHand() store.ClientState {
	t := &types.Table{
		TableID:         "table_1",
		Status:          types.StatusInHand,
		GamePhase:       "FLOP",
		Pot:             60,
		CurrentBet:      30,
		CommunityCards:  []types.Card{"As", "Td", "9c"},
		DealerUserID:    "u2",
		ActingSeatIndex: intp(2),
		LastEvent:       &types.Event{Summary: "Bob raised to 30"},
	}
	t.Seats[0] = types.Seat{SeatIndex: 0, UserID: "u2", DisplayName: "Bob", Chips: 970}
	t.Seats[2] = types.Seat{SeatIndex: 2, UserID: "u1", DisplayName: "Ann", Chips: 990}
	t.PlayerState = []types.PlayerState{
		{SeatIndex: 0, InHand: true, Stack: 970, BetThisStreet: 30},
		{SeatIndex: 2, InHand: true, Stack: 990, BetThisStreet: 10},
	}
	return store.ClientState{
		View:        store.ViewTable,
		Table:       t,
		Me:          types.Identity{UserID: "u1", DisplayName: "Ann"},
		MyHoleCards: []types.Card{"Kh", "Qh"},
		ActionLog:   []string{"Bob raised to 30", "Ann joined table"},
		Conn:        store.ConnOpen,
	}
}

func TestRender_TableInHand(t *testing.T) {
	out := Render(inHand())

	require.Contains(t, out, "Private Hold'em")
	require.Contains(t, out, "Table: table_1")
	require.Contains(t, out, "WS: live")
	require.Contains(t, out, "Ann (you)")
	require.Contains(t, out, "Pot: 60")
	require.Contains(t, out, "A♠ T♦ 9♣")
	require.Contains(t, out, "K♥ Q♥")
	require.Contains(t, out, "Your turn:")
	require.Contains(t, out, "Call 20")
	require.Contains(t, out, "Bob raised to 30")
}

func TestRender_WaitingForOtherSeat(t *testing.T) {
	st := inHand()
	st.Table.ActingSeatIndex = intp(0)

	out := Render(st)
	require.NotContains(t, out, "Your turn:")
	require.Contains(t, out, "Waiting for seat 6")
}

func TestRender_DealerCanStart(t *testing.T) {
	st := inHand()
	st.Table.Status = types.StatusWaiting
	st.Table.DealerUserID = "u1"

	require.Contains(t, Render(st), "Start hand")
}

func TestRender_Lobby(t *testing.T) {
	st := store.ClientState{
		View: store.ViewLobby,
		Tables: []types.TableSummary{
			{TableID: "t1", Name: "Friday Night Poker", PlayerCount: 2, MaxSeats: 6, Players: []string{"Ann", "Bob"}},
		},
	}

	out := Render(st)
	require.Contains(t, out, "Friday Night Poker")
	require.Contains(t, out, "2/6 Ann, Bob")
	require.Contains(t, out, "WS: connecting")
}

func TestRender_EmptyStateDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() { Render(store.ClientState{}) })
	require.NotPanics(t, func() { Render(store.ClientState{View: store.ViewTable}) })
}

func TestTerminal_DrawIsAStoreListener(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	s := store.New()
	s.Subscribe(term.Draw)
	s.AddAction("hello table")

	require.Equal(t, 1, strings.Count(buf.String(), "Private Hold'em"))
	require.Contains(t, buf.String(), "hello table")
}
