package slots

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	state := NewConversation("c1")
	s.Put("c1", state)
	got, ok := s.Get("c1")
	require.True(t, ok)
	assert.Same(t, state, got)

	s.Delete("c1")
	_, ok = s.Get("c1")
	assert.False(t, ok)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("conv-%d", i)
			s.Put(id, NewConversation(id))
			if st, ok := s.Get(id); ok && st.ID != id {
				t.Errorf("got state %q for id %q", st.ID, id)
			}
			s.Delete(id)
		}(i)
	}
	wg.Wait()
}
