package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/holdem-client/internal/derive"
	"github.com/DoyleJ11/holdem-client/internal/hub"
	"github.com/DoyleJ11/holdem-client/internal/session"
	"github.com/DoyleJ11/holdem-client/internal/store"
	"github.com/DoyleJ11/holdem-client/pkg/types"
)

// API is a local control surface for the running sessions. It plays the
// part of the view: it reads derived facts and only offers a gesture when
// those facts allow it.
type API struct {
	hub *hub.Hub
	log *zap.Logger
}

type ctxKey struct{}

const snapshotTimeout = 2 * time.Second

type stateResponse struct {
	Session string            `json:"session"`
	State   store.ClientState `json:"state"`
	Facts   derive.Facts      `json:"facts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (a *API) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Sessions []string `json:"sessions"`
	}{Sessions: a.hub.Names()})
}

func (a *API) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		s := a.hub.Get(name)
		if s == nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, s)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKey{}).(*session.Session)
}

func (a *API) snapshot(w http.ResponseWriter, r *http.Request) (session.View, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), snapshotTimeout)
	defer cancel()
	v, err := sessionFrom(r).Snapshot(ctx)
	if err != nil {
		a.fail(w, err)
		return session.View{}, false
	}
	return v, true
}

func (a *API) State(w http.ResponseWriter, r *http.Request) {
	v, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{Session: sessionFrom(r).Name(), State: v.State, Facts: v.Facts})
}

func (a *API) JoinTable(w http.ResponseWriter, r *http.Request) {
	var body types.TableRef
	if !decodeBody(w, r, &body) {
		return
	}
	if body.TableID == "" {
		writeError(w, http.StatusBadRequest, "missing tableId")
		return
	}
	a.accepted(w, sessionFrom(r).JoinTable(body.TableID))
}

func (a *API) TakeSeat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SeatIndex *int `json:"seatIndex"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.SeatIndex == nil || *body.SeatIndex < 0 || *body.SeatIndex >= types.MaxSeats {
		writeError(w, http.StatusBadRequest, "seatIndex must be 0-5")
		return
	}

	v, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	if v.Facts.Seats[*body.SeatIndex].Occupied {
		writeError(w, http.StatusConflict, "seat is taken")
		return
	}
	a.accepted(w, sessionFrom(r).TakeSeat(*body.SeatIndex))
}

func (a *API) LeaveSeat(w http.ResponseWriter, r *http.Request) {
	v, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	if v.Facts.MySeatIndex == nil {
		writeError(w, http.StatusConflict, "not seated")
		return
	}
	a.accepted(w, sessionFrom(r).LeaveSeat())
}

func (a *API) StartHand(w http.ResponseWriter, r *http.Request) {
	v, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	if !v.Facts.CanStartHand {
		writeError(w, http.StatusConflict, "cannot start a hand now")
		return
	}
	a.accepted(w, sessionFrom(r).StartHand())
}

func (a *API) Act(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Action string `json:"action"`
		Amount int    `json:"amount"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	action, ok := types.ParseActionKind(body.Action)
	if !ok && types.ActionKind(body.Action) != session.ActionCheckOrCall {
		writeError(w, http.StatusBadRequest, "unknown action")
		return
	}
	if !ok {
		action = session.ActionCheckOrCall
	}
	if action == types.ActionRaise && body.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "raise needs a positive amount")
		return
	}

	v, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	if !v.Facts.IsMyTurn {
		writeError(w, http.StatusConflict, "not your turn")
		return
	}
	a.accepted(w, sessionFrom(r).Act(action, body.Amount))
}

func (a *API) LeaveTable(w http.ResponseWriter, r *http.Request) {
	a.accepted(w, sessionFrom(r).LeaveTable())
}

func (a *API) accepted(w http.ResponseWriter, err error) {
	if err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (a *API) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionClosed):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		a.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
