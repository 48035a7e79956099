package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/holdem-client/internal/derive"
	"github.com/DoyleJ11/holdem-client/internal/router"
	"github.com/DoyleJ11/holdem-client/internal/store"
	"github.com/DoyleJ11/holdem-client/pkg/types"
)

var ErrSessionClosed = errors.New("session closed")

// ActionCheckOrCall asks the session to send CHECK or CALL, whichever the
// current table calls for.
const ActionCheckOrCall types.ActionKind = "CHECK_OR_CALL"

type Msg interface{ isSessionMsg() }

type Inbound struct{ Msg types.ServerMessage }

func (Inbound) isSessionMsg() {}

type Connected struct{}

func (Connected) isSessionMsg() {}

type Disconnected struct{ Err error }

func (Disconnected) isSessionMsg() {}

type Gesture struct{ Cmd Command }

func (Gesture) isSessionMsg() {}

type Subscribe struct {
	Fn    store.Listener
	Reply chan func() // receives the unsubscribe func
}

func (Subscribe) isSessionMsg() {}

type unsubscribe struct{ fn func() }

func (unsubscribe) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

// Command is a local gesture on its way to the authority. An empty TableID
// means the table currently shown, or the configured one.
type Command struct {
	Type      types.CommandType
	TableID   string
	SeatIndex int
	Action    types.ActionKind
	Amount    int
}

type View struct {
	State store.ClientState
	Facts derive.Facts
}

// Sender is the part of the transport a session talks to.
type Sender interface {
	Send(t types.CommandType, payload any)
}

type Config struct {
	Name        string
	TableID     string
	DisplayName string
	Token       string
}

// Session owns one Store and is the only goroutine that touches it.
// Transport callbacks and gestures reach it as messages through the inbox,
// in the order they were posted.
type Session struct {
	cfg    Config
	inbox  chan Msg
	store  *store.Store
	router *router.Router
	sender Sender
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New(parent context.Context, cfg Config, sender Sender, errs router.ErrorSink, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("session").With(zap.String("session", cfg.Name))
	ctx, cancel := context.WithCancel(parent)
	st := store.New()

	s := &Session{
		cfg:    cfg,
		inbox:  make(chan Msg, 64), // Small buffer
		store:  st,
		router: router.New(st, errs, log),
		sender: sender,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go s.loop()
	return s
}

func (s *Session) Name() string { return s.cfg.Name }

// Expose the inbox so tests or the transport can send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the loop has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Post delivers m unless the session is already gone.
func (s *Session) Post(m Msg) error {
	select {
	case s.inbox <- m:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// Transport hooks, shaped to plug straight into ws.Client callbacks.

func (s *Session) Deliver(msg types.ServerMessage) { _ = s.Post(Inbound{Msg: msg}) }
func (s *Session) Opened()                         { _ = s.Post(Connected{}) }
func (s *Session) Closed(err error)                { _ = s.Post(Disconnected{Err: err}) }

// Gestures.

func (s *Session) JoinTable(tableID string) error {
	return s.Post(Gesture{Cmd: Command{Type: types.CmdJoinTable, TableID: tableID}})
}

func (s *Session) TakeSeat(seatIndex int) error {
	return s.Post(Gesture{Cmd: Command{Type: types.CmdTakeSeat, SeatIndex: seatIndex}})
}

func (s *Session) LeaveSeat() error {
	return s.Post(Gesture{Cmd: Command{Type: types.CmdLeaveSeat}})
}

func (s *Session) StartHand() error {
	return s.Post(Gesture{Cmd: Command{Type: types.CmdStartHand}})
}

func (s *Session) Act(action types.ActionKind, amount int) error {
	return s.Post(Gesture{Cmd: Command{Type: types.CmdAction, Action: action, Amount: amount}})
}

func (s *Session) LeaveTable() error {
	return s.Post(Gesture{Cmd: Command{Type: types.CmdLeaveTable}})
}

// Snapshot asks the loop for the current state and derived facts.
func (s *Session) Snapshot(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := s.Post(GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		return View{}, ErrSessionClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// Subscribe registers fn with the store. fn runs on the session goroutine.
func (s *Session) Subscribe(fn store.Listener) (func(), error) {
	reply := make(chan func(), 1)
	if err := s.Post(Subscribe{Fn: fn, Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case unsub := <-reply:
		return unsub, nil
	case <-s.done:
		return nil, ErrSessionClosed
	}
}

func (s *Session) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Inbound:
				s.router.Route(msg.Msg)

			case Connected:
				s.store.SetState(store.WithConn(store.ConnOpen))
				s.store.AddAction("Connected")
				s.sender.Send(types.CmdAuth, types.AuthPayload{Token: s.cfg.Token, DisplayName: s.cfg.DisplayName})
				s.sender.Send(types.CmdJoinTable, types.TableRef{TableID: s.cfg.TableID})

			case Disconnected:
				if msg.Err != nil {
					s.log.Warn("transport closed", zap.Error(msg.Err))
				}
				s.store.SetState(store.WithConn(store.ConnClosed))
				s.store.AddAction("Disconnected")

			case Gesture:
				s.apply(msg.Cmd)

			case Subscribe:
				unsub := s.store.Subscribe(msg.Fn)
				msg.Reply <- func() { _ = s.Post(unsubscribe{fn: unsub}) }

			case unsubscribe:
				msg.fn()

			case GetState:
				st := s.store.State()
				msg.Reply <- View{State: st, Facts: derive.Derive(st)}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) shutdown() {
	s.log.Debug("session shutting down")
	s.cancel()
}

func (s *Session) apply(cmd Command) {
	st := s.store.State()
	tableID := cmd.TableID
	if tableID == "" {
		if st.Table != nil {
			tableID = st.Table.TableID
		} else {
			tableID = s.cfg.TableID
		}
	}

	switch cmd.Type {
	case types.CmdAuth:
		s.sender.Send(types.CmdAuth, types.AuthPayload{Token: s.cfg.Token, DisplayName: s.cfg.DisplayName})

	case types.CmdJoinTable:
		s.sender.Send(types.CmdJoinTable, types.TableRef{TableID: tableID})

	case types.CmdTakeSeat:
		s.sender.Send(types.CmdTakeSeat, types.TakeSeatPayload{TableID: tableID, SeatIndex: cmd.SeatIndex})

	case types.CmdLeaveSeat, types.CmdStartHand:
		s.sender.Send(cmd.Type, types.TableRef{TableID: tableID})

	case types.CmdAction:
		action := cmd.Action
		if action == ActionCheckOrCall {
			action = derive.CallAction(st)
		}
		p := types.ActionPayload{TableID: tableID, Action: action}
		if action == types.ActionRaise {
			p.Amount = cmd.Amount
		}
		s.sender.Send(types.CmdAction, p)

	case types.CmdLeaveTable:
		s.sender.Send(types.CmdLeaveTable, types.TableRef{TableID: tableID})
		s.store.SetState(
			store.WithTable(nil),
			store.WithHoleCards(nil),
			store.WithView(store.ViewLobby),
		)
		s.store.AddAction("Left table " + tableID)

	default:
		s.log.Warn("unknown gesture", zap.String("type", string(cmd.Type)))
	}
}
