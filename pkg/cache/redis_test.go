package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_ConnectsAndCloses(t *testing.T) {
	mr := miniredis.RunT(t)

	client, closer, err := New(context.Background(), zap.NewNop(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NotNil(t, client)

	require.NoError(t, client.Set(context.Background(), "k", "v", time.Minute).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
	closer()
}

func TestNew_EmptyAddrDisablesRedis(t *testing.T) {
	client, closer, err := New(context.Background(), zap.NewNop(), Config{})
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.NotPanics(t, closer)
}

func TestNew_UnreachableServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, _, err := New(context.Background(), zap.NewNop(), Config{Addr: addr, DialTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, 3*time.Second, defaultDuration(0, 3*time.Second))
	assert.Equal(t, time.Second, defaultDuration(time.Second, 3*time.Second))
	assert.Equal(t, 10, defaultInt(0, 10))
	assert.Equal(t, 4, defaultInt(4, 10))
}
