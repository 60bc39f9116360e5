// README: Address search controller: debounced typeahead over the geocoder.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"mobiurban/internal/maps"
)

const (
	// DebounceDelay is how long typing must pause before a lookup fires.
	DebounceDelay = 300 * time.Millisecond
	// BlurGrace keeps the suggestion list open briefly after focus loss so a
	// click on a suggestion still lands.
	BlurGrace = 150 * time.Millisecond
	// MinQueryChars below this no lookup is attempted.
	MinQueryChars = 3
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSearching  Phase = "searching"
	PhaseSuggesting Phase = "suggesting"
	PhaseNoResults  Phase = "no_results"
	PhaseError      Phase = "error"
)

// Searcher is the lookup the controller debounces. *maps.Geocoder satisfies
// it.
type Searcher interface {
	Suggest(ctx context.Context, query string) ([]maps.AddressCandidate, error)
}

// Snapshot is the observable controller state at one instant.
type Snapshot struct {
	Phase       Phase
	Query       string
	Suggestions []maps.AddressCandidate
	// Highlighted is the index of the keyboard-highlighted suggestion, or -1.
	Highlighted int
	Open        bool
}

// Controller drives one address input field. All methods are safe for
// concurrent use; the selection callback runs outside the controller lock.
type Controller struct {
	searcher Searcher
	debounce Scheduler
	blur     Scheduler
	onSelect func(maps.AddressCandidate)
	log      *logrus.Logger

	mu          sync.Mutex
	query       string
	phase       Phase
	suggestions []maps.AddressCandidate
	highlighted int
	open        bool
	// gen is bumped on every query change and every close, so a lookup
	// dispatched before either one is discarded when its response lands.
	gen uint64
}

// NewController wires a controller with production timers. onSelect may be
// nil.
func NewController(searcher Searcher, onSelect func(maps.AddressCandidate), log *logrus.Logger) *Controller {
	return NewControllerWithSchedulers(searcher, onSelect, NewTimerScheduler(), NewTimerScheduler(), log)
}

// NewControllerWithSchedulers lets tests supply deterministic schedulers.
func NewControllerWithSchedulers(searcher Searcher, onSelect func(maps.AddressCandidate), debounce, blur Scheduler, log *logrus.Logger) *Controller {
	return &Controller{
		searcher:    searcher,
		debounce:    debounce,
		blur:        blur,
		onSelect:    onSelect,
		log:         log,
		phase:       PhaseIdle,
		highlighted: -1,
	}
}

// SetQuery records the field's text and schedules a debounced lookup. Short
// queries close the list immediately without calling the provider.
func (c *Controller) SetQuery(ctx context.Context, text string) {
	c.mu.Lock()
	c.query = text
	c.gen++
	if len([]rune(strings.TrimSpace(text))) < MinQueryChars {
		c.suggestions = nil
		c.highlighted = -1
		c.phase = PhaseIdle
		c.open = false
		c.mu.Unlock()
		c.debounce.Cancel()
		return
	}
	c.phase = PhaseSearching
	gen := c.gen
	c.mu.Unlock()

	query := text
	c.debounce.Schedule(DebounceDelay, func() {
		c.runSearch(ctx, query, gen)
	})
}

func (c *Controller) runSearch(ctx context.Context, query string, gen uint64) {
	results, err := c.searcher.Suggest(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		// The field moved on, or the list was closed, while this lookup was
		// in flight.
		return
	}
	c.highlighted = -1
	if err != nil {
		c.log.WithError(err).WithField("query", query).Warn("address lookup failed")
		c.suggestions = nil
		c.phase = PhaseError
		c.open = true
		return
	}
	c.suggestions = results
	if len(results) == 0 {
		c.phase = PhaseNoResults
	} else {
		c.phase = PhaseSuggesting
	}
	c.open = true
}

// MoveHighlight shifts the keyboard highlight by delta, wrapping at both
// ends. No-op unless suggestions are showing.
func (c *Controller) MoveHighlight(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.suggestions)
	if c.phase != PhaseSuggesting || n == 0 {
		return
	}
	if c.highlighted < 0 {
		if delta >= 0 {
			c.highlighted = 0
		} else {
			c.highlighted = n - 1
		}
		return
	}
	c.highlighted = ((c.highlighted+delta)%n + n) % n
}

// Select commits the suggestion at index: the field takes its label, the
// list closes, and any pending blur close is cancelled.
func (c *Controller) Select(index int) bool {
	c.mu.Lock()
	if index < 0 || index >= len(c.suggestions) {
		c.mu.Unlock()
		return false
	}
	cand := c.suggestions[index]
	c.query = cand.DisplayName
	c.close()
	c.mu.Unlock()

	c.debounce.Cancel()
	c.blur.Cancel()
	if c.onSelect != nil {
		c.onSelect(cand)
	}
	return true
}

// SelectHighlighted commits the keyboard-highlighted suggestion, if any.
func (c *Controller) SelectHighlighted() bool {
	c.mu.Lock()
	idx := c.highlighted
	c.mu.Unlock()
	return c.Select(idx)
}

// Blur schedules the list to close after the grace period. A Select or
// Focus inside the window keeps it open.
func (c *Controller) Blur() {
	c.blur.Schedule(BlurGrace, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.close()
	})
}

// Focus cancels a pending blur close.
func (c *Controller) Focus() {
	c.blur.Cancel()
}

// Escape closes the list immediately, keeping the typed text.
func (c *Controller) Escape() {
	c.debounce.Cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.close()
}

// close must be called with the lock held. Bumping gen invalidates any
// lookup still in flight.
func (c *Controller) close() {
	c.suggestions = nil
	c.highlighted = -1
	c.phase = PhaseIdle
	c.open = false
	c.gen++
}

func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := Snapshot{
		Phase:       c.phase,
		Query:       c.query,
		Highlighted: c.highlighted,
		Open:        c.open,
	}
	out.Suggestions = append(out.Suggestions, c.suggestions...)
	return out
}
