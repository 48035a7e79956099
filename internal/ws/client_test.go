package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/holdem-client/pkg/types"
)

// authority is a scripted stand-in for the table server.
func authority(t *testing.T, script func(ctx context.Context, conn *websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		script(r.Context(), conn)
		conn.Close(websocket.StatusNormalClosure, "done")
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func write(ctx context.Context, conn *websocket.Conn, s string) {
	_ = conn.Write(ctx, websocket.MessageText, []byte(s))
}

func TestClient_DeliversDecodedMessagesInOrder(t *testing.T) {
	url := authority(t, func(ctx context.Context, conn *websocket.Conn) {
		write(ctx, conn, `{"type":"AUTH_OK","payload":{"userId":"usr_1","displayName":"Ann"}}`)
		write(ctx, conn, `this is not json`)
		write(ctx, conn, `{"type":"STATE","payload":{"table":{"tableId":"t1"}}}`)
		write(ctx, conn, `{"type":"ERROR","payload":{"code":"E1","message":"nope"},"requestId":"r1"}`)
	})

	c := NewClient(url, zap.NewNop())
	var got []types.ServerMessage
	c.OnMessage(func(m types.ServerMessage) { got = append(got, m) })
	var closeErr error
	closed := false
	c.OnClose(func(err error) { closed, closeErr = true, err })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	require.Len(t, got, 3, "malformed frame is discarded")
	require.Equal(t, types.MsgAuthOK, got[0].Type)
	require.Equal(t, types.MsgState, got[1].Type)
	require.Equal(t, types.MsgError, got[2].Type)
	require.Equal(t, "r1", got[2].RequestID)

	require.True(t, closed)
	require.NoError(t, closeErr)
	require.False(t, c.Connected())
}

func TestClient_SendBeforeOpenIsDropped(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1/never", zap.NewNop())

	require.False(t, c.Connected())
	require.NotPanics(t, func() {
		c.Send(types.CmdJoinTable, types.TableRef{TableID: "t1"})
	})
}

func TestClient_SendReachesAuthority(t *testing.T) {
	received := make(chan types.ClientMessage, 2)
	url := authority(t, func(ctx context.Context, conn *websocket.Conn) {
		for i := 0; i < 2; i++ {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var cm struct {
				Type      types.CommandType `json:"type"`
				Payload   json.RawMessage   `json:"payload"`
				RequestID string            `json:"requestId"`
			}
			if err := json.Unmarshal(data, &cm); err != nil {
				return
			}
			received <- types.ClientMessage{Type: cm.Type, Payload: string(cm.Payload), RequestID: cm.RequestID}
		}
	})

	c := NewClient(url, zap.NewNop())
	c.OnOpen(func() {
		c.Send(types.CmdAuth, types.AuthPayload{Token: "dev", DisplayName: "Ann"})
		c.SendWithID(types.CmdJoinTable, types.TableRef{TableID: "t1"}, "req-7")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	first := recvCommand(t, received)
	require.Equal(t, types.CmdAuth, first.Type)
	require.JSONEq(t, `{"token":"dev","displayName":"Ann"}`, first.Payload.(string))
	require.Empty(t, first.RequestID)

	second := recvCommand(t, received)
	require.Equal(t, types.CmdJoinTable, second.Type)
	require.JSONEq(t, `{"tableId":"t1"}`, second.Payload.(string))
	require.Equal(t, "req-7", second.RequestID)
}

func TestClient_RunFailsWhenAuthorityUnreachable(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1/ws", zap.NewNop())
	opened := false
	c.OnOpen(func() { opened = true })
	var closeErr error
	c.OnClose(func(err error) { closeErr = err })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := c.Run(ctx)
	require.Error(t, err)
	require.False(t, c.Connected())

	require.False(t, opened)
	require.Error(t, closeErr, "a failed dial still reports the close")
	require.Equal(t, err, closeErr)
}

func TestClient_CancelledContextIsNormalShutdown(t *testing.T) {
	url := authority(t, func(ctx context.Context, conn *websocket.Conn) {
		// Hold the connection until the client goes away.
		_, _, _ = conn.Read(ctx)
	})

	c := NewClient(url, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	c.OnOpen(func() { cancel() })

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for Run to return")
	}
}

func recvCommand(t *testing.T, ch <-chan types.ClientMessage) types.ClientMessage {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for command")
		return types.ClientMessage{}
	}
}
