package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{DefaultTTL: time.Minute})
	defer m.Close()

	in := []payload{{Title: "Go Developer", Tags: []string{"go"}}}
	require.NoError(t, m.Set(ctx, "k", in, 0))

	var out []payload
	require.NoError(t, m.Get(ctx, "k", &out))
	assert.Equal(t, in, out)

	require.NoError(t, m.Delete(ctx, "k"))
	assert.ErrorIs(t, m.Get(ctx, "k", &out), ErrNotFound)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{DefaultTTL: time.Minute})
	defer m.Close()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "v", 10*time.Second))
	var s string
	require.NoError(t, m.Get(ctx, "k", &s))
	assert.Equal(t, "v", s)

	now = now.Add(11 * time.Second)
	assert.ErrorIs(t, m.Get(ctx, "k", &s), ErrNotFound)
}

func TestMemoryClearAndClose(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{CleanupInterval: time.Hour})

	require.NoError(t, m.Set(ctx, "a", 1, 0))
	require.NoError(t, m.Clear(ctx))
	var n int
	assert.ErrorIs(t, m.Get(ctx, "a", &n), ErrNotFound)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Set(ctx, "a", 1, 0), ErrClosed)
}

func TestMemoryRejectsUnencodable(t *testing.T) {
	m := NewMemory(Options{})
	defer m.Close()
	assert.ErrorIs(t, m.Set(context.Background(), "ch", make(chan int), 0), ErrInvalidValue)
}

func TestSearchKey(t *testing.T) {
	a := SearchKey("  Python   Developer", "United States", 10)
	b := SearchKey("python developer", "united  states", 10)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, SearchKey("python developer", "united states", 25))
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	require.NoError(t, c.Set(context.Background(), "k", 1, 0))
	var n int
	assert.ErrorIs(t, c.Get(context.Background(), "k", &n), ErrNotFound)
}
