package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_SetAndGet(t *testing.T) {
	req := require.New(t)
	c := NewMemoryCache()

	c.Set("key", "value", 0)
	value, ok := c.Get("key")
	req.True(ok)
	req.Equal("value", value)

	_, ok = c.Get("missing")
	req.False(ok)
}

func Test_ExpiredEntryIsAbsentAndPurged(t *testing.T) {
	req := require.New(t)
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("key", "value", time.Minute)

	now = now.Add(30 * time.Second)
	_, ok := c.Get("key")
	req.True(ok, "entry is alive before its TTL")

	now = now.Add(31 * time.Second)
	_, ok = c.Get("key")
	req.False(ok, "expired entry reads as absent")
	req.Equal(0, c.Len(), "expired entry is purged on access")
}

func Test_NoTTLNeverExpires(t *testing.T) {
	req := require.New(t)
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("key", "value", 0)
	now = now.Add(1000 * time.Hour)
	_, ok := c.Get("key")
	req.True(ok)
}

func Test_DeleteAndClear(t *testing.T) {
	req := require.New(t)
	c := NewMemoryCache()

	c.Set("a", "1", 0)
	c.Set("b", "2", 0)

	c.Delete("a")
	_, ok := c.Get("a")
	req.False(ok)
	_, ok = c.Get("b")
	req.True(ok)

	c.Clear()
	req.Equal(0, c.Len())
}

func Test_SetOverwritesEntryAndTTL(t *testing.T) {
	req := require.New(t)
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("key", "old", time.Second)
	c.Set("key", "new", 0)

	now = now.Add(time.Hour)
	value, ok := c.Get("key")
	req.True(ok, "overwrite without TTL removes the old expiry")
	req.Equal("new", value)
}
