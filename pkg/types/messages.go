package types

import "encoding/json"

// Client -> Server
// AUTH:        token, displayName
// JOIN_TABLE:  tableId
// TAKE_SEAT:   tableId, seatIndex
// LEAVE_SEAT:  tableId
// START_HAND:  tableId
// ACTION:      tableId, action ("FOLD" | "CHECK" | "CALL" | "RAISE"), amount?
// LEAVE_TABLE: tableId
//
// Server -> Client
// AUTH_OK:    userId, displayName
// STATE:      table (complete snapshot, replaces the previous one)
// ERROR:      code, message, details?
// TABLES:     tables (lobby listing)
// HOLE_CARDS: cards (only ever sent to their owner)

type CommandType string

const (
	CmdAuth       CommandType = "AUTH"
	CmdJoinTable  CommandType = "JOIN_TABLE"
	CmdTakeSeat   CommandType = "TAKE_SEAT"
	CmdLeaveSeat  CommandType = "LEAVE_SEAT"
	CmdStartHand  CommandType = "START_HAND"
	CmdAction     CommandType = "ACTION"
	CmdLeaveTable CommandType = "LEAVE_TABLE"
)

type MessageType string

const (
	MsgAuthOK    MessageType = "AUTH_OK"
	MsgState     MessageType = "STATE"
	MsgError     MessageType = "ERROR"
	MsgTables    MessageType = "TABLES"
	MsgHoleCards MessageType = "HOLE_CARDS"
)

type ActionKind string

const (
	ActionFold  ActionKind = "FOLD"
	ActionCheck ActionKind = "CHECK"
	ActionCall  ActionKind = "CALL"
	ActionRaise ActionKind = "RAISE"
)

func ParseActionKind(s string) (ActionKind, bool) {
	switch a := ActionKind(s); a {
	case ActionFold, ActionCheck, ActionCall, ActionRaise:
		return a, true
	default:
		return "", false
	}
}

// ClientMessage is the outbound envelope. Payload is one of the *Payload
// structs below.
type ClientMessage struct {
	Type      CommandType `json:"type"`
	Payload   any         `json:"payload"`
	RequestID string      `json:"requestId,omitempty"`
}

// ServerMessage is the inbound envelope. Payload stays raw until the router
// knows which type it is.
type ServerMessage struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
}

type AuthPayload struct {
	Token       string `json:"token"`
	DisplayName string `json:"displayName"`
}

type TableRef struct {
	TableID string `json:"tableId"`
}

type TakeSeatPayload struct {
	TableID   string `json:"tableId"`
	SeatIndex int    `json:"seatIndex"`
}

type ActionPayload struct {
	TableID string     `json:"tableId"`
	Action  ActionKind `json:"action"`
	Amount  int        `json:"amount,omitempty"`
}

// StatePayload carries a nil Table when the authority has no table for us.
type StatePayload struct {
	Table *Table `json:"table"`
}

type ErrorPayload struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type TablesPayload struct {
	Tables []TableSummary `json:"tables"`
}

type HoleCardsPayload struct {
	Cards []Card `json:"cards"`
}
