package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetCreatesAndReuses(t *testing.T) {
	s := NewStore()

	c1 := s.Get("buyer-1")
	require.NoError(t, c1.AddItem(paneerThali))

	// Same session gets the same cart back.
	assert.Same(t, c1, s.Get("buyer-1"))
	assert.Len(t, s.Get("buyer-1").Lines(), 1)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Get("buyer-1").AddItem(paneerThali))
	require.NoError(t, s.Get("buyer-2").AddItem(biryani))

	assert.Equal(t, "chef-a", s.Get("buyer-1").SellerID())
	assert.Equal(t, "chef-b", s.Get("buyer-2").SellerID())
}

func TestStore_ConcurrentRequestsShareOneCart(t *testing.T) {
	s := NewStore()

	// Two in-flight requests for the same buyer mutate the same cart.
	var wg sync.WaitGroup
	for n := 0; n < 2; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Get("buyer-1").AddItem(paneerThali))
		}()
	}
	wg.Wait()

	lines := s.Get("buyer-1").Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestStore_DropEndsSession(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Get("buyer-1").AddItem(paneerThali))

	s.Drop("buyer-1")

	assert.True(t, s.Get("buyer-1").IsEmpty())
}
