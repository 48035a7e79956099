// Package router turns inbound authority messages into store changes.
package router

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/holdem-client/internal/store"
	"github.com/DoyleJ11/holdem-client/pkg/types"
)

// ErrorSink is the user-facing error channel (a toast, a log line, an HTTP
// client's error feed).
type ErrorSink interface {
	ReportError(code, message string)
}

type ErrorSinkFunc func(code, message string)

func (f ErrorSinkFunc) ReportError(code, message string) { f(code, message) }

type Router struct {
	store *store.Store
	errs  ErrorSink
	log   *zap.Logger
}

func New(st *store.Store, errs ErrorSink, log *zap.Logger) *Router {
	if errs == nil {
		errs = ErrorSinkFunc(func(string, string) {})
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{store: st, errs: errs, log: log.Named("router")}
}

// Route applies one message. It never blocks and never panics on bad input;
// a payload that doesn't decode is logged and dropped with the state
// untouched.
func (r *Router) Route(msg types.ServerMessage) {
	last := msg

	switch msg.Type {
	case types.MsgAuthOK:
		var id types.Identity
		if !r.decode(msg, &id) {
			return
		}
		if id.UserID == "" {
			r.log.Warn("auth without user id, dropping")
			return
		}
		r.store.SetState(store.WithLastMessage(&last), store.WithMe(id))
		r.store.AddAction(fmt.Sprintf("Authenticated as %s", id.DisplayName))

	case types.MsgState:
		var p types.StatePayload
		if !r.decode(msg, &p) {
			return
		}
		table := p.Table
		if table == nil {
			r.store.SetState(
				store.WithLastMessage(&last),
				store.WithTable(nil),
				store.WithHoleCards(nil),
				store.WithView(store.ViewLobby),
			)
			return
		}

		patches := []store.Patch{
			store.WithLastMessage(&last),
			store.WithTable(table),
			store.WithView(store.ViewTable),
		}
		if table.Status != types.StatusInHand || newHand(r.store.State().Table, table) {
			patches = append(patches, store.WithHoleCards(nil))
		}
		r.store.SetState(patches...)
		if table.LastEvent != nil && table.LastEvent.Summary != "" {
			r.store.AddAction(table.LastEvent.Summary)
		}

	case types.MsgError:
		var p types.ErrorPayload
		if !r.decode(msg, &p) {
			return
		}
		r.log.Warn("authority error", zap.String("code", p.Code), zap.String("message", p.Message),
			zap.String("request_id", msg.RequestID))
		r.store.SetState(store.WithLastMessage(&last))
		r.store.AddAction(fmt.Sprintf("Error: %s", p.Message))
		r.errs.ReportError(p.Code, p.Message)

	case types.MsgTables:
		var p types.TablesPayload
		if !r.decode(msg, &p) {
			return
		}
		r.store.SetState(store.WithLastMessage(&last), store.WithTables(p.Tables))

	case types.MsgHoleCards:
		var p types.HoleCardsPayload
		if !r.decode(msg, &p) {
			return
		}
		for _, c := range p.Cards {
			if _, err := c.Parse(); err != nil {
				r.log.Warn("dropping hole cards", zap.Error(err))
				return
			}
		}
		r.store.SetState(store.WithLastMessage(&last), store.WithHoleCards(p.Cards))

	default:
		r.log.Debug("ignoring message", zap.String("type", string(msg.Type)))
	}
}

// newHand reports whether next is a different hand, or a different table,
// than prev.
func newHand(prev, next *types.Table) bool {
	return prev != nil && (prev.TableID != next.TableID || prev.HandNumber != next.HandNumber)
}

func (r *Router) decode(msg types.ServerMessage, into any) bool {
	if len(msg.Payload) == 0 {
		r.log.Warn("message without payload", zap.String("type", string(msg.Type)))
		return false
	}
	if err := json.Unmarshal(msg.Payload, into); err != nil {
		r.log.Warn("bad payload", zap.String("type", string(msg.Type)), zap.Error(err))
		return false
	}
	return true
}
