package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationRegistry_Basics(t *testing.T) {
	r := NewGenerationRegistry()

	assert.False(t, r.Contains(1))
	assert.Zero(t, r.Len())

	r.Add(1)
	r.Add(2)
	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(2))
	assert.Equal(t, 2, r.Len())

	r.Remove(1)
	assert.False(t, r.Contains(1))
	assert.Equal(t, 1, r.Len())

	// Removing an absent id is a no-op.
	r.Remove(1)
	r.Remove(99)
	assert.Equal(t, 1, r.Len())
}

func TestGenerationRegistry_ConcurrentAddRemove(t *testing.T) {
	r := NewGenerationRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			r.Add(id)
			r.Contains(id)
			r.Remove(id)
		}(int64(i))
	}
	wg.Wait()

	assert.Zero(t, r.Len())
}
