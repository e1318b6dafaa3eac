package slots

import "sync"

// Store keeps live conversation states keyed by conversation id. The dialogue
// state machine itself performs no locking; implementations must be safe for
// concurrent use across conversations, and callers must serialize turns for
// the same id (single writer per key).
type Store interface {
	Get(id string) (*ConversationState, bool)
	Put(id string, state *ConversationState)
	Delete(id string)
}

// MemoryStore is the default in-process Store.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*ConversationState
}

// NewMemoryStore creates an empty in-memory conversation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]*ConversationState)}
}

func (m *MemoryStore) Get(id string) (*ConversationState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[id]
	return st, ok
}

func (m *MemoryStore) Put(id string, state *ConversationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = state
}

func (m *MemoryStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
}
