package secrets

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cur
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.cur = f.cur.Add(d)
	f.mu.Unlock()
}

func newClockedCache(ttl time.Duration) (*Cache[string], *fakeClock) {
	clk := &fakeClock{cur: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCache[string](ttl)
	c.now = clk.Now
	return c, clk
}

func TestCache_PutAndGet(t *testing.T) {
	c, _ := newClockedCache(time.Minute)

	_, ok := c.Get("session")
	assert.False(t, ok, "expected miss on empty cache")

	c.Put("session", "token-1")
	got, ok := c.Get("session")
	require.True(t, ok)
	assert.Equal(t, "token-1", got)
}

func TestCache_Expiration(t *testing.T) {
	c, clk := newClockedCache(time.Minute)
	c.Put("session", "token-1")

	clk.Advance(61 * time.Second)

	_, ok := c.Get("session")
	assert.False(t, ok, "expected expired entry to miss")
	assert.Equal(t, 0, c.Len(), "expired entry should be evicted on read")
}

func TestCache_PutWithTTL(t *testing.T) {
	c, clk := newClockedCache(time.Hour)
	c.PutWithTTL("short", "v", time.Second)
	c.PutWithTTL("default", "v", 0)

	clk.Advance(2 * time.Second)

	_, ok := c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("default")
	assert.True(t, ok, "non-positive ttl must fall back to the default")
}

func TestCache_Bust(t *testing.T) {
	c, _ := newClockedCache(time.Minute)
	c.Put("session", "token-1")
	c.Bust("session")

	_, ok := c.Get("session")
	assert.False(t, ok)
}

func TestCache_CleanupExpired(t *testing.T) {
	c, clk := newClockedCache(time.Minute)
	c.Put("a", "1")
	c.PutWithTTL("b", "2", time.Hour)

	clk.Advance(2 * time.Minute)
	c.cleanupExpired()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("b")
	assert.True(t, ok)
}

func TestCache_StartCleanerStopsOnSignal(t *testing.T) {
	c, clk := newClockedCache(time.Minute)
	c.Put("a", "1")
	clk.Advance(2 * time.Minute)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		c.StartCleaner(5*time.Millisecond, stop)
		close(done)
	}()

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleaner did not stop")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache[int](time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Put("k", i)
			_, _ = c.Get("k")
			if i%10 == 0 {
				c.Bust("k")
			}
		}(i)
	}
	wg.Wait()
}
