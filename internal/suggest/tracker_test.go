package suggest

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTracker_ClickOnce(t *testing.T) {
	tr := NewTracker()
	s := Suggestion{Text: "Tell me more", Category: Plain}

	assert.True(t, tr.Click(s))
	assert.False(t, tr.Click(s))

	snap := tr.Snapshot()
	assert.Equal(t, []string{"Tell me more"}, snap.Clicked)
	assert.Equal(t, []string{"Tell me more"}, snap.Committed)
}

func TestTracker_CommittedOnlyForPlain(t *testing.T) {
	tr := NewTracker()
	tr.Click(Suggestion{Text: "p", Category: Plain})
	tr.Click(Suggestion{Text: "c", Category: Confirmatory, Affirmative: true})
	tr.Click(Suggestion{Text: "a", Category: Action, Action: ExportDocument})

	for _, text := range []string{"p", "c", "a"} {
		assert.True(t, tr.Clicked(text), text)
	}
	assert.True(t, tr.Committed("p"))
	assert.False(t, tr.Committed("c"))
	assert.False(t, tr.Committed("a"))
}

func TestTracker_CommittedSubsetOfClicked(t *testing.T) {
	tr := NewTracker()
	for _, s := range []Suggestion{
		{Text: "one", Category: Plain},
		{Text: "two", Category: Confirmatory},
		{Text: "three", Category: Plain},
	} {
		tr.Click(s)
	}

	snap := tr.Snapshot()
	clicked := map[string]bool{}
	for _, c := range snap.Clicked {
		clicked[c] = true
	}
	for _, c := range snap.Committed {
		assert.True(t, clicked[c], "%q committed but not clicked", c)
	}
}

func TestTracker_AvailableKeyedByText(t *testing.T) {
	tr := NewTracker()
	tr.Click(Suggestion{ID: "natural:0", Text: "Yes", Category: Plain})

	later := []Suggestion{
		{ID: "natural:0", Text: "No"},
		{ID: "natural:1", Text: "Yes"},
	}

	assert.Equal(t, []string{"No"}, texts(tr.Available(later)))
}

func TestTracker_ConcurrentDoubleClick(t *testing.T) {
	tr := NewTracker()
	s := Suggestion{Text: "Everything is correct", Category: Confirmatory, Affirmative: true}

	var wins atomic.Int32
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			if tr.Click(s) {
				wins.Add(1)
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())

	assert.Equal(t, int32(1), wins.Load())
}
