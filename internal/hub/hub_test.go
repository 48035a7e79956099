package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/holdem-client/internal/session"
	"github.com/DoyleJ11/holdem-client/pkg/types"
)

type nopSender struct{}

func (nopSender) Send(types.CommandType, any) {}

func testFactory(built *int) Factory {
	return func(ctx context.Context, name string) *session.Session {
		*built++
		return session.New(ctx, session.Config{Name: name, TableID: "table_1"}, nopSender{}, nil, zap.NewNop())
	}
}

func TestHub_Ensure_Get_SamePointer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	built := 0
	h := NewHub(ctx, testFactory(&built))

	s1 := h.Ensure("ann")
	s2 := h.Get("ann")
	s3 := h.Ensure("ann")

	require.NotNil(t, s1)
	require.Same(t, s1, s2)
	require.Same(t, s1, s3)
	require.Equal(t, 1, built)
	require.Equal(t, "ann", s1.Name())
}

func TestHub_GetUnknownIsNil(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	built := 0
	h := NewHub(ctx, testFactory(&built))

	require.Nil(t, h.Get("nobody"))
	require.Equal(t, 0, built)
}

func TestHub_NamesAreSorted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	built := 0
	h := NewHub(ctx, testFactory(&built))

	h.Ensure("cat")
	h.Ensure("ann")
	h.Ensure("bob")

	require.Equal(t, []string{"ann", "bob", "cat"}, h.Names())
}

func TestHub_RemoveStopsSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	built := 0
	h := NewHub(ctx, testFactory(&built))

	s := h.Ensure("ann")
	h.Inbox() <- RemoveSession{Name: "ann"}

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatalf("removed session still running")
	}
	require.Nil(t, h.Get("ann"))
	require.Empty(t, h.Names())
}

func TestHub_EnsureReplacesDeadSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	built := 0
	h := NewHub(ctx, testFactory(&built))

	first := h.Ensure("ann")
	first.Inbox() <- session.Shutdown{}
	<-first.Done()

	second := h.Ensure("ann")
	require.NotSame(t, first, second)
	require.Equal(t, 2, built)
}

func TestHub_CallsReturnAfterParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	built := 0
	h := NewHub(ctx, testFactory(&built))
	s := h.Ensure("ann")

	cancel()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatalf("session outlived the hub")
	}

	type results struct {
		got, ensured *session.Session
		names        []string
	}
	done := make(chan results, 1)
	go func() {
		done <- results{got: h.Get("ann"), ensured: h.Ensure("bob"), names: h.Names()}
	}()

	select {
	case res := <-done:
		require.Nil(t, res.got)
		require.Nil(t, res.ensured)
		require.Empty(t, res.names)
	case <-time.After(time.Second):
		t.Fatalf("hub call blocked after shutdown")
	}
	require.Equal(t, 1, built)
}
