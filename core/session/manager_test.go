package session

import (
	"testing"
	"time"
)

func TestManager_getCreatesOnce(t *testing.T) {
	m := NewManager(time.Hour)
	id := m.NewID()

	st := m.Get(id)
	if st == nil {
		t.Fatal("Get() = nil")
	}
	if again := m.Get(id); again != st {
		t.Error("Get() returned a different State for the same id")
	}
	if other := m.Get(m.NewID()); other == st {
		t.Error("Get() shared a State across ids")
	}
}

func TestManager_delete(t *testing.T) {
	m := NewManager(time.Hour)
	id := m.NewID()

	st := m.Get(id)
	st.Tutor.Append(RoleUser, "hi")
	m.Delete(id)

	if fresh := m.Get(id); len(fresh.Tutor.Messages) != 0 {
		t.Error("Delete() did not drop the State")
	}
}

func TestManager_sweep(t *testing.T) {
	m := NewManager(time.Minute)
	stale := m.NewID()
	fresh := m.NewID()

	m.Get(stale)
	m.Get(fresh)
	m.states[stale].lastSeen = time.Now().Add(-2 * time.Minute)

	if n := m.Sweep(time.Now()); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if _, ok := m.states[stale]; ok {
		t.Error("Sweep() kept the stale State")
	}
	if _, ok := m.states[fresh]; !ok {
		t.Error("Sweep() dropped the fresh State")
	}
}

func TestConversation_reset(t *testing.T) {
	var c Conversation
	c.Tracker.Observe(map[string]interface{}{"session_id": "s1"})
	c.Append(RoleUser, "q")
	c.Append(RoleAssistant, "a")

	c.Reset()
	if len(c.Messages) != 0 || c.Tracker.ID() != "" {
		t.Errorf("Reset() left state behind: %+v", &c)
	}
}
