package store

import "github.com/DoyleJ11/holdem-client/pkg/types"

// Patch replaces one or more top-level fields of ClientState.
type Patch func(*ClientState)

func WithView(v View) Patch {
	return func(s *ClientState) { s.View = v }
}

// WithTable replaces the table snapshot wholesale; nil clears it.
func WithTable(t *types.Table) Patch {
	return func(s *ClientState) { s.Table = t }
}

func WithMe(id types.Identity) Patch {
	return func(s *ClientState) { s.Me = id }
}

func WithLastMessage(m *types.ServerMessage) Patch {
	return func(s *ClientState) { s.LastMessage = m }
}

func WithHoleCards(cards []types.Card) Patch {
	return func(s *ClientState) { s.MyHoleCards = cards }
}

func WithTables(tables []types.TableSummary) Patch {
	return func(s *ClientState) { s.Tables = tables }
}

func WithConn(c ConnState) Patch {
	return func(s *ClientState) { s.Conn = c }
}
