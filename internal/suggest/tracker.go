package suggest

import (
	"sort"
	"sync"
)

// Tracker records which suggestions a conversation has used. Entries are
// keyed by suggestion text and never removed, so a text clicked in one turn
// stays hidden if a later turn offers it again.
type Tracker struct {
	mu        sync.Mutex
	clicked   map[string]bool
	committed map[string]bool
}

func NewTracker() *Tracker {
	return &Tracker{
		clicked:   make(map[string]bool),
		committed: make(map[string]bool),
	}
}

// Click moves s from unseen to clicked. Plain suggestions are also marked
// committed, since their text is merged into the pending input. It returns
// false, with no effect, when s was already clicked.
func (t *Tracker) Click(s Suggestion) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.clicked[s.Text] {
		return false
	}
	t.clicked[s.Text] = true
	if s.Category == Plain {
		t.committed[s.Text] = true
	}
	return true
}

func (t *Tracker) Clicked(text string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clicked[text]
}

func (t *Tracker) Committed(text string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committed[text]
}

// Available returns the suggestions from list that have not been clicked.
func (t *Tracker) Available(list []Suggestion) []Suggestion {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Suggestion, 0, len(list))
	for _, s := range list {
		if !t.clicked[s.Text] {
			out = append(out, s)
		}
	}
	return out
}

// Selection is a point-in-time copy of tracker state.
type Selection struct {
	Clicked   []string
	Committed []string
}

// Snapshot returns the clicked and committed texts, sorted.
func (t *Tracker) Snapshot() Selection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Selection{
		Clicked:   sortedKeys(t.clicked),
		Committed: sortedKeys(t.committed),
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
