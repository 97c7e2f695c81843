// Package pages implements the list+detail controller shared by the
// tickets, contacts, knowledge base and AI agent pages.
package pages

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// State is the controller's lifecycle state.
type State int

const (
	StateLoading State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "loading"
}

// Source says where the displayed list came from.
type Source int

const (
	SourceNone Source = iota
	SourceServer
	SourceMock
)

func (s Source) String() string {
	switch s {
	case SourceServer:
		return "server"
	case SourceMock:
		return "mock"
	default:
		return "none"
	}
}

// Identifiable is implemented by every listed entity.
type Identifiable interface {
	GetID() string
}

// Observer is told about fallbacks and dropped responses.
type Observer interface {
	Fallback(page string)
	Stale(page string)
}

// Result is the outcome of one Load. Err is set whenever the loader failed,
// even though Items then holds the demo dataset.
type Result[T any] struct {
	Items  []T
	Source Source
	Err    error
	Seq    uint64
	// Stale is true when a newer load had already been applied and this
	// result was discarded.
	Stale bool
}

// Config describes one resource page.
type Config[T Identifiable, F any] struct {
	Name string
	// Load fetches the list for filter from the upstream.
	Load func(ctx context.Context, filter F) ([]T, error)
	// Mock returns the bundled demo list.
	Mock func() []T
	// Match is the page's filter predicate. It only runs on demo data: live
	// data is already filtered upstream.
	Match func(item T, filter F) bool
	// OnApply runs after a result has been applied. Calls are serialised and
	// skipped once a newer result has been applied.
	OnApply  func(items []T, source Source)
	Observer Observer
	Logger   *slog.Logger
}

// View is a consistent snapshot for rendering.
type View[T any, F any] struct {
	State    State
	Source   Source
	Err      error
	Filter   F
	Items    []T
	Selected *T
}

// Page is the state machine of one (browser session, resource) pair.
type Page[T Identifiable, F any] struct {
	cfg Config[T, F]

	// mirrorMu serialises OnApply so mirrors follow the applied order.
	mirrorMu sync.Mutex

	mu       sync.Mutex
	issued   uint64
	applied  uint64
	state    State
	source   Source
	err      error
	filter   F
	items    []T
	selected *T
}

// New creates a page in the Loading state.
func New[T Identifiable, F any](cfg Config[T, F]) *Page[T, F] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Page[T, F]{cfg: cfg, state: StateLoading}
}

// Name returns the page name.
func (p *Page[T, F]) Name() string { return p.cfg.Name }

// Load fetches the list for filter. The call is stamped with a sequence
// number; its result is applied only when no newer load was applied first.
// A failed fetch substitutes the demo list filtered by the page predicate.
func (p *Page[T, F]) Load(ctx context.Context, filter F) Result[T] {
	p.mu.Lock()
	p.issued++
	seq := p.issued
	p.state = StateLoading
	p.filter = filter
	p.mu.Unlock()

	items, err := p.cfg.Load(ctx, filter)
	result := Result[T]{Items: items, Source: SourceServer, Err: err, Seq: seq}

	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		p.abandon(seq)
		result.Items, result.Source, result.Stale = nil, SourceNone, true
		return result
	}

	if err != nil {
		result.Items = p.mockFiltered(filter)
		result.Source = SourceMock
		p.cfg.Logger.Warn("page load failed, showing demo data",
			slog.String("page", p.cfg.Name),
			slog.Uint64("seq", seq),
			slog.Any("error", err))
		if p.cfg.Observer != nil {
			p.cfg.Observer.Fallback(p.cfg.Name)
		}
	}
	if result.Items == nil {
		result.Items = []T{}
	}

	if !p.apply(seq, result) {
		result.Stale = true
		p.cfg.Logger.Debug("dropped stale page result", slog.String("page", p.cfg.Name), slog.Uint64("seq", seq))
		if p.cfg.Observer != nil {
			p.cfg.Observer.Stale(p.cfg.Name)
		}
		return result
	}

	if p.cfg.OnApply != nil {
		p.mirror(seq, result)
	}
	return result
}

// mirror hands an applied result to OnApply unless a newer result has been
// applied in the meantime.
func (p *Page[T, F]) mirror(seq uint64, result Result[T]) {
	p.mirrorMu.Lock()
	defer p.mirrorMu.Unlock()

	p.mu.Lock()
	current := p.applied
	p.mu.Unlock()
	if seq != current {
		return
	}
	p.cfg.OnApply(append([]T(nil), result.Items...), result.Source)
}

func (p *Page[T, F]) apply(seq uint64, result Result[T]) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq <= p.applied {
		return false
	}
	p.applied = seq
	p.items = append([]T(nil), result.Items...)
	p.source = result.Source
	p.err = result.Err
	p.state = StateReady
	p.reconcile()
	return true
}

// abandon handles a load whose caller went away. When it was the latest
// load and earlier data exists, the page goes back to Ready.
func (p *Page[T, F]) abandon(seq uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq == p.issued && p.applied > 0 {
		p.state = StateReady
	}
}

func (p *Page[T, F]) mockFiltered(filter F) []T {
	if p.cfg.Mock == nil {
		return []T{}
	}
	all := p.cfg.Mock()
	if p.cfg.Match == nil {
		return all
	}
	out := make([]T, 0, len(all))
	for _, item := range all {
		if p.cfg.Match(item, filter) {
			out = append(out, item)
		}
	}
	return out
}

// reconcile keeps the selection a member of the displayed list: the
// selected id is kept and refreshed when still present, otherwise the first
// item is selected, or nothing when the list is empty. Caller holds mu.
func (p *Page[T, F]) reconcile() {
	if p.selected != nil {
		id := (*p.selected).GetID()
		for i := range p.items {
			if p.items[i].GetID() == id {
				item := p.items[i]
				p.selected = &item
				return
			}
		}
	}
	if len(p.items) > 0 {
		item := p.items[0]
		p.selected = &item
		return
	}
	p.selected = nil
}

// Select replaces the selection with the displayed item id. It reports
// false and leaves the selection alone when id is not displayed.
func (p *Page[T, F]) Select(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.items {
		if p.items[i].GetID() == id {
			item := p.items[i]
			p.selected = &item
			return true
		}
	}
	return false
}

// Merge inserts a newly created item at the head of the list and selects it.
// When the list already holds an item with the same id, that entry is
// replaced in place.
func (p *Page[T, F]) Merge(item T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := item.GetID()
	replaced := false
	for i := range p.items {
		if p.items[i].GetID() == id {
			p.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		p.items = append([]T{item}, p.items...)
	}
	selected := item
	p.selected = &selected
	if p.state == StateLoading && p.applied == 0 {
		p.state = StateReady
	}
}

// Patch replaces the item with id by fn(item) and refreshes the selection.
// It reports whether the item was displayed.
func (p *Page[T, F]) Patch(id string, fn func(T) T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	found := false
	for i := range p.items {
		if p.items[i].GetID() == id {
			p.items[i] = fn(p.items[i])
			found = true
		}
	}
	if found {
		p.reconcile()
	}
	return found
}

// Find returns the displayed item with id.
func (p *Page[T, F]) Find(id string) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// View returns a snapshot of the page.
func (p *Page[T, F]) View() View[T, F] {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := View[T, F]{
		State:  p.state,
		Source: p.source,
		Err:    p.err,
		Filter: p.filter,
		Items:  append([]T(nil), p.items...),
	}
	if p.selected != nil {
		s := *p.selected
		v.Selected = &s
	}
	return v
}
