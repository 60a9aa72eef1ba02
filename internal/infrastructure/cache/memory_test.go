package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMemory(ttl time.Duration) (*Memory, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(ttl)
	m.now = c.now
	return m, c
}

func TestMemory_SetGet(t *testing.T) {
	m, _ := newTestMemory(time.Minute)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v")))
	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	_, ok, _ = m.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	m, c := newTestMemory(time.Minute)
	ctx := context.Background()
	_ = m.Set(ctx, "k", []byte("v"))

	c.advance(59 * time.Second)
	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)

	c.advance(time.Second)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len(), "expired entry must be evicted on read")
}

func TestMemory_Clear(t *testing.T) {
	m, _ := newTestMemory(time.Minute)
	ctx := context.Background()
	_ = m.Set(ctx, "a", []byte("1"))
	_ = m.Set(ctx, "b", []byte("2"))

	require.NoError(t, m.Clear(ctx))
	assert.Equal(t, 0, m.Len())
}

func TestMemory_Sweep(t *testing.T) {
	m, c := newTestMemory(time.Minute)
	ctx := context.Background()
	_ = m.Set(ctx, "old", []byte("1"))
	c.advance(30 * time.Second)
	_ = m.Set(ctx, "new", []byte("2"))
	c.advance(40 * time.Second)

	assert.Equal(t, 1, m.Sweep())
	_, ok, _ := m.Get(ctx, "new")
	assert.True(t, ok)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = m.Set(ctx, "k", []byte("v"))
				_, _, _ = m.Get(ctx, "k")
				if j%50 == 0 {
					_ = m.Clear(ctx)
				}
			}
		}()
	}
	wg.Wait()
}

func TestNop_AlwaysMisses(t *testing.T) {
	var n Nop
	ctx := context.Background()
	require.NoError(t, n.Set(ctx, "k", []byte("v")))
	_, ok, err := n.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}
