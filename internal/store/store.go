package store

import (
	"slices"

	"github.com/DoyleJ11/holdem-client/pkg/types"
)

// ActionLogCap bounds the action log; older entries fall off the end.
const ActionLogCap = 20

type View string

const (
	ViewLobby View = "lobby"
	ViewTable View = "table"
)

type ConnState string

const (
	ConnConnecting ConnState = "connecting"
	ConnOpen       ConnState = "open"
	ConnClosed     ConnState = "closed"
)

// ClientState is everything one client session knows. Table and the slices
// are shared with subscribers and must be treated as read-only; patches
// replace them, they never edit in place.
type ClientState struct {
	View        View                 `json:"view"`
	Table       *types.Table         `json:"table"`
	Me          types.Identity       `json:"me"`
	LastMessage *types.ServerMessage `json:"lastMessage"`
	ActionLog   []string             `json:"actionLog"` // newest first
	MyHoleCards []types.Card         `json:"myHoleCards"`
	Tables      []types.TableSummary `json:"tables"`
	Conn        ConnState            `json:"conn"`
}

func initialState() ClientState {
	return ClientState{
		View:      ViewLobby,
		ActionLog: []string{},
		Conn:      ConnConnecting,
	}
}

type Listener func(ClientState)

type subscription struct {
	fn      Listener
	removed bool
}

// Store holds a single ClientState and notifies subscribers synchronously
// after every change. It is not safe for concurrent use: one goroutine owns
// it. A change requested from inside a notification is queued and applied
// once the current pass finishes, so no listener ever sees patches out of
// order.
type Store struct {
	state     ClientState
	subs      []*subscription
	notifying bool
	pending   []func(*ClientState)
}

func New() *Store {
	return &Store{state: initialState()}
}

// State returns a copy of the current state.
func (s *Store) State() ClientState {
	return s.snapshot()
}

// SetState applies the patches in order and then notifies once.
func (s *Store) SetState(patches ...Patch) {
	s.commit(func(st *ClientState) {
		for _, p := range patches {
			if p != nil {
				p(st)
			}
		}
	})
}

// AddAction prepends msg to the action log, keeping the newest
// ActionLogCap entries, and notifies like SetState.
func (s *Store) AddAction(msg string) {
	s.commit(func(st *ClientState) {
		n := min(len(st.ActionLog)+1, ActionLogCap)
		next := make([]string, 0, n)
		next = append(next, msg)
		next = append(next, st.ActionLog[:n-1]...)
		st.ActionLog = next
	})
}

// Subscribe registers fn and returns a func that removes it. Listeners run
// in registration order.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	s.subs = append(s.subs, sub)
	return func() {
		if sub.removed {
			return
		}
		sub.removed = true
		s.subs = slices.DeleteFunc(s.subs, func(x *subscription) bool { return x == sub })
	}
}

func (s *Store) commit(mutate func(*ClientState)) {
	s.pending = append(s.pending, mutate)
	if s.notifying {
		return
	}

	s.notifying = true
	defer func() {
		s.notifying = false
		s.pending = nil
	}()

	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		next(&s.state)
		s.notify()
	}
}

func (s *Store) notify() {
	// Copy so (un)subscribing from a listener doesn't disturb this pass.
	subs := slices.Clone(s.subs)
	for _, sub := range subs {
		if sub.removed {
			continue
		}
		sub.fn(s.snapshot())
	}
}

func (s *Store) snapshot() ClientState {
	st := s.state
	st.ActionLog = slices.Clone(s.state.ActionLog)
	return st
}
