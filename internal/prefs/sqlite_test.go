package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisplayName_RoundTripsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")

	s, err := Open(path)
	require.NoError(t, err)

	name, err := s.DisplayName(ctx)
	require.NoError(t, err)
	require.Empty(t, name)

	require.NoError(t, s.SetDisplayName(ctx, "Ann"))
	require.NoError(t, s.SetDisplayName(ctx, "  Annie "))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	name, err = s.DisplayName(ctx)
	require.NoError(t, err)
	require.Equal(t, "Annie", name)
}

func TestSetDisplayName_RejectsBlank(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.Error(t, s.SetDisplayName(context.Background(), "   "))
}

func TestOpen_RejectsEmptyPath(t *testing.T) {
	_, err := Open(" ")
	require.Error(t, err)
}
