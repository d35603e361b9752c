package flow

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMediaCache(t *testing.T) {
	c := NewMediaCache()

	_, ok := c.Get("start.jpg")
	require.False(t, ok)

	c.Put("start.jpg", "id-1")
	id, ok := c.Get("start.jpg")
	require.True(t, ok)
	require.Equal(t, "id-1", id)

	// Last write wins.
	c.Put("start.jpg", "id-2")
	id, _ = c.Get("start.jpg")
	require.Equal(t, "id-2", id)
}

func TestMediaCacheConcurrent(t *testing.T) {
	c := NewMediaCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Put("who.jpg", "id")
			_, _ = c.Get("who.jpg")
		}()
	}
	wg.Wait()

	id, ok := c.Get("who.jpg")
	require.True(t, ok)
	require.Equal(t, "id", id)
}
