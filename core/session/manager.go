package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// Conversation is one chat feature's page-local state.
type Conversation struct {
	Tracker  Tracker
	Messages []Message
}

func (c *Conversation) Append(role, content string) {
	c.Messages = append(c.Messages, Message{Role: role, Content: content})
}

func (c *Conversation) Reset() {
	c.Tracker.Reset()
	c.Messages = nil
}

// VideoState is the currently loaded video of the youtube-chat page.
type VideoState struct {
	ID         string
	Title      string
	Transcript string
}

// State is everything the portal remembers about one browser session. It
// lives in memory only and dies with the process, matching the page-local
// lifetime the features expect. Two tabs share one State; requests within a
// conversation are serialized by the page, concurrent tabs get
// last-write-wins, which is acceptable for rare, user-driven writes.
type State struct {
	mu       sync.Mutex
	Tutor    Conversation
	Edu      Conversation
	YouTube  Conversation
	Video    VideoState
	lastSeen time.Time
}

// Lock serializes handler access to the state's conversations.
func (s *State) Lock()   { s.mu.Lock() }
func (s *State) Unlock() { s.mu.Unlock() }

// Manager hands out States keyed by the portal session cookie and sweeps
// stale ones.
type Manager struct {
	mu     sync.RWMutex
	states map[string]*State
	ttl    time.Duration
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		states: make(map[string]*State),
		ttl:    ttl,
	}
}

// NewID mints a portal session id. This identifies the browser session to the
// portal itself and is unrelated to the API-issued conversation ids.
func (m *Manager) NewID() string {
	return uuid.New().String()
}

// Get returns the State for id, creating it on first sight and touching its
// last-seen time.
func (m *Manager) Get(id string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[id]
	if !ok {
		st = &State{}
		m.states[id] = st
	}
	st.lastSeen = time.Now()
	return st
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
}

// Sweep drops states idle longer than the TTL and reports how many went.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for id, st := range m.states {
		if now.Sub(st.lastSeen) > m.ttl {
			delete(m.states, id)
			n++
		}
	}
	return n
}

// StartSweeper runs Sweep on an interval until the returned stop function is
// called.
func (m *Manager) StartSweeper(interval time.Duration) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				m.Sweep(now)
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
