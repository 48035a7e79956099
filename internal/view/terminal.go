// Package view draws a session's state to a terminal. It subscribes to the
// store and redraws everything on every change; nothing is diffed.
package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/DoyleJ11/holdem-client/internal/derive"
	"github.com/DoyleJ11/holdem-client/internal/store"
	"github.com/DoyleJ11/holdem-client/pkg/types"
)

const (
	clearScreen = "\033[H\033[2J"
	logLines    = 6
)

type Terminal struct {
	out   io.Writer
	clear bool
}

func NewTerminal(out io.Writer, clear bool) *Terminal {
	return &Terminal{out: out, clear: clear}
}

// Draw is a store.Listener.
func (t *Terminal) Draw(st store.ClientState) {
	frame := Render(st)
	if t.clear {
		frame = clearScreen + frame
	}
	_, _ = io.WriteString(t.out, frame)
}

func Render(st store.ClientState) string {
	var b strings.Builder
	b.WriteString(header(st))

	if st.View == store.ViewTable && st.Table != nil {
		f := derive.Derive(st)
		b.WriteString(seats(st.Table, f))
		b.WriteString(board(st))
		b.WriteString(actionBar(st, f))
	} else {
		b.WriteString(lobby(st.Tables))
	}

	b.WriteString(actionLog(st.ActionLog))
	return b.String()
}

func header(st store.ClientState) string {
	tableID := "-"
	if st.Table != nil {
		tableID = st.Table.TableID
	}
	who := st.Me.DisplayName
	if who == "" {
		who = "anonymous"
	}

	var conn string
	switch st.Conn {
	case store.ConnOpen:
		conn = pterm.LightGreen("WS: live")
	case store.ConnClosed:
		conn = pterm.LightRed("WS: closed")
	default:
		conn = pterm.Gray("WS: connecting")
	}
	return pterm.DefaultSection.Sprint("Private Hold'em") +
		pterm.Sprintfln("Table: %s   Player: %s   %s", tableID, who, conn)
}

func seats(t *types.Table, f derive.Facts) string {
	data := pterm.TableData{{"Seat", "", "Player", "Chips", "Status"}}
	for _, sf := range f.Seats {
		name := pterm.Gray("Empty")
		chips := ""
		if sf.Occupied {
			name = sf.DisplayName
			if sf.Mine {
				name = pterm.LightCyan(name + " (you)")
			}
			chips = strconv.Itoa(sf.Chips)
		}

		var status []string
		if sf.Acting {
			status = append(status, pterm.LightYellow("acting"))
		}
		if sf.Folded {
			status = append(status, "folded")
		}
		if sf.AllIn {
			status = append(status, "all-in")
		}

		data = append(data, []string{
			strconv.Itoa(sf.DisplayNumber),
			string(sf.Indicator),
			name,
			chips,
			strings.Join(status, ", "),
		})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Sprintf("seats unavailable: %v\n", err)
	}
	return out + "\n"
}

func board(st store.ClientState) string {
	t := st.Table
	phase := t.GamePhase
	if phase == "" {
		phase = string(t.Status)
	}

	body := pterm.Sprintfln("Phase: %s   Pot: %d   Bet: %d", phase, t.Pot, t.CurrentBet)
	body += pterm.Sprintfln("Board: %s", cards(t.CommunityCards))
	if len(st.MyHoleCards) > 0 {
		body += pterm.Sprintfln("Hand:  %s", cards(st.MyHoleCards))
	}
	if t.LastEvent != nil && t.LastEvent.Summary != "" {
		body += pterm.Sprintfln("Last:  %s", t.LastEvent.Summary)
	}
	return pterm.DefaultBox.WithTitle("Table").Sprint(strings.TrimRight(body, "\n")) + "\n"
}

func cards(cs []types.Card) string {
	if len(cs) == 0 {
		return "-"
	}
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.Pretty()
	}
	return strings.Join(parts, " ")
}

func actionBar(st store.ClientState, f derive.Facts) string {
	if f.CanStartHand {
		return pterm.LightGreen("[start] Start hand") + "\n"
	}
	if st.Table.Status != types.StatusInHand {
		return pterm.Gray("Waiting for the dealer to start a hand") + "\n"
	}
	if !f.IsMyTurn {
		if a := st.Table.ActingSeatIndex; a != nil {
			return pterm.Gray(fmt.Sprintf("Waiting for seat %d", derive.SeatDisplayNumber(*a))) + "\n"
		}
		return pterm.Gray("Waiting") + "\n"
	}
	return pterm.LightYellow("Your turn: ") +
		strings.Join([]string{"[fold] Fold", "[call] " + f.CallLabel, "[raise] Raise"}, "  ") + "\n"
}

func lobby(tables []types.TableSummary) string {
	if len(tables) == 0 {
		return pterm.Gray("No tables listed yet") + "\n"
	}
	data := pterm.TableData{{"Table", "Name", "Players"}}
	for _, t := range tables {
		data = append(data, []string{
			t.TableID,
			t.Name,
			fmt.Sprintf("%d/%d %s", t.PlayerCount, t.MaxSeats, strings.Join(t.Players, ", ")),
		})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Sprintf("tables unavailable: %v\n", err)
	}
	return out + "\n"
}

func actionLog(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	n := min(len(entries), logLines)
	return pterm.DefaultBox.WithTitle("Log").Sprint(strings.Join(entries[:n], "\n")) + "\n"
}
