package search

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"mobiurban/internal/maps"
	"mobiurban/internal/types"
)

// manualScheduler holds the pending function until the test fires it,
// standing in for the debounce and blur timers.
type manualScheduler struct {
	mu sync.Mutex
	fn func()
}

func (s *manualScheduler) Schedule(_ time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
}

func (s *manualScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = nil
}

func (s *manualScheduler) fire() {
	s.mu.Lock()
	fn := s.fn
	s.fn = nil
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *manualScheduler) pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn != nil
}

type stubSearcher struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]maps.AddressCandidate
	err     error
}

func (s *stubSearcher) Suggest(_ context.Context, query string) ([]maps.AddressCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, query)
	return s.results[query], s.err
}

func (s *stubSearcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func candidates(names ...string) []maps.AddressCandidate {
	out := make([]maps.AddressCandidate, len(names))
	for i, n := range names {
		out[i] = maps.AddressCandidate{
			PlaceID:     n,
			DisplayName: n,
			Coordinate:  types.Coordinate{Lat: -23.55, Lng: -46.63},
		}
	}
	return out
}

func newTestController(searcher *stubSearcher, onSelect func(maps.AddressCandidate)) (*Controller, *manualScheduler, *manualScheduler) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	debounce := &manualScheduler{}
	blur := &manualScheduler{}
	return NewControllerWithSchedulers(searcher, onSelect, debounce, blur, log), debounce, blur
}

func TestDebounceCollapsesKeystrokes(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]maps.AddressCandidate{
		"ave": candidates("Avenida Paulista"),
	}}
	c, debounce, _ := newTestController(searcher, nil)
	ctx := context.Background()

	// Each keystroke replaces the pending lookup; only the last text reaches
	// the provider.
	c.SetQuery(ctx, "a")
	c.SetQuery(ctx, "av")
	c.SetQuery(ctx, "ave")
	debounce.fire()

	if got := searcher.callCount(); got != 1 {
		t.Fatalf("provider called %d times, want 1", got)
	}
	st := c.State()
	if st.Phase != PhaseSuggesting || len(st.Suggestions) != 1 {
		t.Errorf("state = %s with %d suggestions, want suggesting with 1", st.Phase, len(st.Suggestions))
	}
}

func TestShortQueryNeverSearches(t *testing.T) {
	searcher := &stubSearcher{}
	c, debounce, _ := newTestController(searcher, nil)

	c.SetQuery(context.Background(), "av")
	if debounce.pending() {
		t.Error("short query scheduled a lookup")
	}
	if c.State().Phase != PhaseIdle {
		t.Errorf("phase = %s, want idle", c.State().Phase)
	}

	// Deleting back below the threshold closes the list too.
	ctx := context.Background()
	searcher.results = map[string][]maps.AddressCandidate{"ave": candidates("x")}
	c.SetQuery(ctx, "ave")
	debounce.fire()
	c.SetQuery(ctx, "av")
	st := c.State()
	if st.Open || len(st.Suggestions) != 0 {
		t.Errorf("list still open after shrinking query: %+v", st)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]maps.AddressCandidate{
		"avenida p": candidates("Avenida Paulista"),
	}}
	c, debounce, _ := newTestController(searcher, nil)
	ctx := context.Background()

	c.SetQuery(ctx, "avenida p")
	pendingLookup := debounce
	// The user keeps typing before the first lookup lands.
	first := pendingLookup.fn
	c.SetQuery(ctx, "avenida paulista 1000")
	first() // stale response arrives now

	st := c.State()
	if st.Phase != PhaseSearching {
		t.Errorf("phase = %s, want searching (stale result must not apply)", st.Phase)
	}
	if len(st.Suggestions) != 0 {
		t.Errorf("stale suggestions applied: %v", st.Suggestions)
	}
}

func TestNoResultsAndErrorPhases(t *testing.T) {
	ctx := context.Background()

	t.Run("no results", func(t *testing.T) {
		searcher := &stubSearcher{}
		c, debounce, _ := newTestController(searcher, nil)
		c.SetQuery(ctx, "xyzzy street")
		debounce.fire()
		if st := c.State(); st.Phase != PhaseNoResults || !st.Open {
			t.Errorf("state = %+v, want open no_results", st)
		}
	})

	t.Run("provider error", func(t *testing.T) {
		searcher := &stubSearcher{err: errors.New("timeout")}
		c, debounce, _ := newTestController(searcher, nil)
		c.SetQuery(ctx, "avenida")
		debounce.fire()
		if st := c.State(); st.Phase != PhaseError || !st.Open {
			t.Errorf("state = %+v, want open error", st)
		}
	})
}

func TestHighlightWraparound(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]maps.AddressCandidate{
		"ave": candidates("one", "two", "three"),
	}}
	c, debounce, _ := newTestController(searcher, nil)
	c.SetQuery(context.Background(), "ave")
	debounce.fire()

	steps := []struct {
		delta int
		want  int
	}{
		{+1, 0},
		{+1, 1},
		{+1, 2},
		{+1, 0},  // wraps forward
		{-1, 2},  // wraps backward
		{-1, 1},
	}
	for i, s := range steps {
		c.MoveHighlight(s.delta)
		if got := c.State().Highlighted; got != s.want {
			t.Fatalf("step %d: highlighted = %d, want %d", i, got, s.want)
		}
	}
}

func TestHighlightFromEmptyGoesToEnds(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]maps.AddressCandidate{
		"ave": candidates("one", "two", "three"),
	}}
	c, debounce, _ := newTestController(searcher, nil)
	c.SetQuery(context.Background(), "ave")
	debounce.fire()

	c.MoveHighlight(-1)
	if got := c.State().Highlighted; got != 2 {
		t.Errorf("up from nothing = %d, want last (2)", got)
	}
}

func TestSelectEmitsAndCloses(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]maps.AddressCandidate{
		"ave": candidates("Avenida Paulista", "Avenida Brasil"),
	}}
	var selected []maps.AddressCandidate
	c, debounce, _ := newTestController(searcher, func(cand maps.AddressCandidate) {
		selected = append(selected, cand)
	})
	c.SetQuery(context.Background(), "ave")
	debounce.fire()

	if !c.Select(1) {
		t.Fatal("select rejected a valid index")
	}
	if len(selected) != 1 || selected[0].DisplayName != "Avenida Brasil" {
		t.Fatalf("selected = %v", selected)
	}
	st := c.State()
	if st.Open || len(st.Suggestions) != 0 {
		t.Errorf("list still open after select: %+v", st)
	}
	if st.Query != "Avenida Brasil" {
		t.Errorf("query = %q, want the selected label", st.Query)
	}

	if c.Select(0) {
		t.Error("select on an empty list should fail")
	}
}

func TestBlurGraceAllowsSelect(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]maps.AddressCandidate{
		"ave": candidates("Avenida Paulista"),
	}}
	var selected int
	c, debounce, blur := newTestController(searcher, func(maps.AddressCandidate) { selected++ })
	c.SetQuery(context.Background(), "ave")
	debounce.fire()

	// Focus leaves the field, but the user clicks a suggestion inside the
	// grace window.
	c.Blur()
	if !blur.pending() {
		t.Fatal("blur did not schedule a close")
	}
	if !c.Select(0) {
		t.Fatal("select during grace failed")
	}
	if blur.pending() {
		t.Error("select should cancel the pending blur close")
	}
	if selected != 1 {
		t.Errorf("onSelect fired %d times, want 1", selected)
	}
}

func TestBlurClosesAfterGrace(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]maps.AddressCandidate{
		"ave": candidates("Avenida Paulista"),
	}}
	c, debounce, blur := newTestController(searcher, nil)
	c.SetQuery(context.Background(), "ave")
	debounce.fire()

	c.Blur()
	blur.fire()

	st := c.State()
	if st.Open || len(st.Suggestions) != 0 {
		t.Errorf("list open after blur grace elapsed: %+v", st)
	}
	if st.Query != "ave" {
		t.Errorf("blur must keep the typed text, got %q", st.Query)
	}
}

func TestEscapeClosesKeepingText(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]maps.AddressCandidate{
		"ave": candidates("Avenida Paulista"),
	}}
	c, debounce, _ := newTestController(searcher, nil)
	c.SetQuery(context.Background(), "ave")
	debounce.fire()

	c.Escape()
	st := c.State()
	if st.Open {
		t.Error("list open after escape")
	}
	if st.Query != "ave" {
		t.Errorf("escape must keep the typed text, got %q", st.Query)
	}
}

func TestEscapeDiscardsInFlightLookup(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]maps.AddressCandidate{
		"ave": candidates("Avenida Paulista"),
	}}
	c, debounce, _ := newTestController(searcher, nil)
	c.SetQuery(context.Background(), "ave")

	// The lookup has already been dispatched when the user hits Escape; its
	// response lands afterwards and must not reopen the list.
	inFlight := debounce.fn
	c.Escape()
	inFlight()

	st := c.State()
	if st.Open || st.Phase != PhaseIdle || len(st.Suggestions) != 0 {
		t.Errorf("late response reopened the list: %+v", st)
	}
}

func TestBlurCloseDiscardsInFlightLookup(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]maps.AddressCandidate{
		"ave": candidates("Avenida Paulista"),
	}}
	c, debounce, blur := newTestController(searcher, nil)
	c.SetQuery(context.Background(), "ave")

	inFlight := debounce.fn
	c.Blur()
	blur.fire()
	inFlight()

	st := c.State()
	if st.Open || len(st.Suggestions) != 0 {
		t.Errorf("late response reopened the list after blur close: %+v", st)
	}
}

func TestFocusCancelsPendingBlur(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]maps.AddressCandidate{
		"ave": candidates("Avenida Paulista"),
	}}
	c, debounce, blur := newTestController(searcher, nil)
	c.SetQuery(context.Background(), "ave")
	debounce.fire()

	c.Blur()
	c.Focus()
	if blur.pending() {
		t.Error("focus should cancel the pending blur close")
	}
	if st := c.State(); !st.Open {
		t.Error("list should stay open after refocus")
	}
}
