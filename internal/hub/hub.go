package hub

import (
	"context"
	"slices"

	"github.com/DoyleJ11/holdem-client/internal/session"
)

// Factory builds a running session (and whatever transport feeds it) for a
// local player name.
type Factory func(ctx context.Context, name string) *session.Session

type HubMsg interface{ isHubMsg() }

type GetSession struct {
	Name  string
	Reply chan *session.Session
}

type EnsureSession struct {
	Name  string
	Reply chan *session.Session
}

type RemoveSession struct {
	Name string
}

type ListSessions struct {
	Reply chan []string
}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	factory  Factory
	ctx      context.Context
	cancel   context.CancelFunc
}

type ShutdownHub struct{}

func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (ListSessions) isHubMsg()  {}
func (ShutdownHub) isHubMsg()   {}

func NewHub(parent context.Context, factory Factory) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		factory:  factory,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Get returns the named session, or nil when there is none or the hub has
// stopped.
func (h *Hub) Get(name string) *session.Session {
	reply := make(chan *session.Session, 1)
	if !h.post(GetSession{Name: name, Reply: reply}) {
		return nil
	}
	select {
	case s := <-reply:
		return s
	case <-h.ctx.Done():
		return nil
	}
}

// Ensure returns the named session, creating it if needed. It returns nil
// once the hub has stopped.
func (h *Hub) Ensure(name string) *session.Session {
	reply := make(chan *session.Session, 1)
	if !h.post(EnsureSession{Name: name, Reply: reply}) {
		return nil
	}
	select {
	case s := <-reply:
		return s
	case <-h.ctx.Done():
		return nil
	}
}

func (h *Hub) Names() []string {
	reply := make(chan []string, 1)
	if !h.post(ListSessions{Reply: reply}) {
		return nil
	}
	select {
	case names := <-reply:
		return names
	case <-h.ctx.Done():
		return nil
	}
}

func (h *Hub) post(m HubMsg) bool {
	select {
	case <-h.ctx.Done():
		return false
	default:
	}
	select {
	case h.inbox <- m:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case GetSession:
				msg.Reply <- h.live(msg.Name) // May be nil

			case EnsureSession:
				if s := h.live(msg.Name); s != nil {
					msg.Reply <- s
					break
				}
				s := h.factory(h.ctx, msg.Name)
				h.sessions[msg.Name] = s
				msg.Reply <- s

			case RemoveSession:
				if s := h.sessions[msg.Name]; s != nil {
					_ = s.Post(session.Shutdown{})
				}
				delete(h.sessions, msg.Name)

			case ListSessions:
				names := make([]string, 0, len(h.sessions))
				for name, s := range h.sessions {
					if h.alive(s) {
						names = append(names, name)
					}
				}
				slices.Sort(names)
				msg.Reply <- names

			case ShutdownHub:
				h.shutdown()
				h.cancel()
				return
			}
		}
	}
}

// live forgets sessions whose loop has already exited.
func (h *Hub) live(name string) *session.Session {
	s := h.sessions[name]
	if s == nil {
		return nil
	}
	if !h.alive(s) {
		delete(h.sessions, name)
		return nil
	}
	return s
}

func (h *Hub) alive(s *session.Session) bool {
	select {
	case <-s.Done():
		return false
	default:
		return true
	}
}

func (h *Hub) shutdown() {
	for _, s := range h.sessions {
		_ = s.Post(session.Shutdown{})
	}
	clear(h.sessions)
}
