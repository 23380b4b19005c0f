package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_NothingActiveBeforeFetch(t *testing.T) {
	t.Parallel()

	src := NewStatic(map[string]string{"count": "5"})

	assert.Nil(t, src.All())

	_, ok := src.Value("count")
	assert.False(t, ok)
}

func TestStatic_FetchAndActivate(t *testing.T) {
	t.Parallel()

	src := NewStatic(map[string]string{"count": "5"})

	changed, err := src.FetchAndActivate(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	value, ok := src.Value("count")
	require.True(t, ok)
	assert.Equal(t, "5", value)

	changed, err = src.FetchAndActivate(context.Background())
	require.NoError(t, err)
	assert.False(t, changed, "nothing staged")
	assert.Equal(t, 2, src.Fetches())
}

func TestStatic_SetStagesNextSnapshot(t *testing.T) {
	t.Parallel()

	src := NewStatic(map[string]string{"count": "5"})

	_, err := src.FetchAndActivate(context.Background())
	require.NoError(t, err)

	src.Set(map[string]string{"count": "6"})
	assert.Equal(t, map[string]string{"count": "5"}, src.All(), "staged values are not active yet")

	changed, err := src.FetchAndActivate(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, map[string]string{"count": "6"}, src.All())
}

func TestStatic_AllReturnsCopy(t *testing.T) {
	t.Parallel()

	src := NewStatic(map[string]string{"count": "5"})

	_, err := src.FetchAndActivate(context.Background())
	require.NoError(t, err)

	all := src.All()
	all["count"] = "changed"

	value, _ := src.Value("count")
	assert.Equal(t, "5", value)
}

func TestStatic_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStatic(nil).FetchAndActivate(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStatic_ReadyAndConfigure(t *testing.T) {
	t.Parallel()

	src := NewStatic(nil)
	assert.True(t, src.Ready())

	src.SetReady(false)
	assert.False(t, src.Ready())

	src.Configure(FetchSettings{FetchTimeout: 1})
	assert.Equal(t, FetchSettings{FetchTimeout: 1}, src.Settings())
}
