// Package session keeps per-visitor conversation state: the continuity
// identifier the remote API issues on the first turn, plus the in-memory
// message histories the pages render.
package session

import (
	"strconv"
	"sync"
)

// Tracker holds the conversation identifier issued by the API. The portal
// never invents or mutates one: the first session_id/chat_id seen in a
// response is adopted for the lifetime of the conversation, later ids are
// ignored. An optional fallback key (e.g. a video id) correlates requests
// until the API issues a real id.
type Tracker struct {
	mu          sync.Mutex
	id          string
	fallbackKey string
	fallbackVal string
}

// Observe adopts the identifier carried by a response payload, if any and if
// none is held yet.
func (t *Tracker) Observe(payload interface{}) {
	m, ok := payload.(map[string]interface{})
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.id != "" {
		return // first id wins
	}
	for _, key := range []string{"session_id", "chat_id"} {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				t.id = v
				return
			}
		case float64:
			t.id = strconv.FormatInt(int64(v), 10)
			return
		}
	}
}

func (t *Tracker) ID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id
}

func (t *Tracker) SetFallback(key, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fallbackKey, t.fallbackVal = key, value
}

func (t *Tracker) Fallback() (key, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fallbackKey, t.fallbackVal
}

// Attach adds the held identifier to an outgoing body, or the fallback pair
// when no identifier has been issued yet.
func (t *Tracker) Attach(body map[string]interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.id != "" {
		body["session_id"] = t.id
		return
	}
	if t.fallbackKey != "" && t.fallbackVal != "" {
		body[t.fallbackKey] = t.fallbackVal
	}
}

// Reset drops the held identifier and fallback; the next response observed
// starts a fresh conversation.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.id, t.fallbackKey, t.fallbackVal = "", "", ""
}
