// Package store holds per-session UI state: preferences and cached copies of
// the entity collections the pages display.
package store

import (
	"sync"

	"github.com/gotrs-io/gotrs-console/internal/models"
)

// Supported UI languages.
const (
	LanguageZH = "zh"
	LanguageEN = "en"

	DefaultLanguage = LanguageZH
)

// Event names the field a mutation touched.
type Event struct {
	Field string
}

// Listener is called after every mutation.
type Listener func(Event)

// Identifiable is implemented by every cached entity.
type Identifiable interface {
	GetID() string
}

// UIStore is one browser session's preferences and collections. Every
// mutation notifies every subscriber; there is no per-field filtering.
type UIStore struct {
	mu               sync.RWMutex
	language         string
	sidebarCollapsed bool

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int

	Tickets  *Collection[models.Ticket]
	Contacts *Collection[models.Contact]
	Agents   *Collection[models.AIAgent]
	Articles *Collection[models.KnowledgeArticle]
}

// New returns a store with the given default language.
func New(defaultLanguage string) *UIStore {
	if !IsSupportedLanguage(defaultLanguage) {
		defaultLanguage = DefaultLanguage
	}
	s := &UIStore{
		language:  defaultLanguage,
		listeners: make(map[int]Listener),
	}
	s.Tickets = newCollection[models.Ticket]("tickets", s.notify)
	s.Contacts = newCollection[models.Contact]("contacts", s.notify)
	s.Agents = newCollection[models.AIAgent]("agents", s.notify)
	s.Articles = newCollection[models.KnowledgeArticle]("articles", s.notify)
	return s
}

// IsSupportedLanguage reports whether lang is zh or en.
func IsSupportedLanguage(lang string) bool {
	return lang == LanguageZH || lang == LanguageEN
}

// Subscribe registers l and returns a function that removes it.
func (s *UIStore) Subscribe(l Listener) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *UIStore) notify(e Event) {
	s.listenersMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l(e)
	}
}

// Language returns the current UI language.
func (s *UIStore) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage switches the UI language. Unsupported values are ignored and
// reported as false.
func (s *UIStore) SetLanguage(lang string) bool {
	if !IsSupportedLanguage(lang) {
		return false
	}
	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()
	s.notify(Event{Field: "language"})
	return true
}

// ToggleLanguage flips between zh and en and returns the new language.
func (s *UIStore) ToggleLanguage() string {
	s.mu.Lock()
	if s.language == LanguageZH {
		s.language = LanguageEN
	} else {
		s.language = LanguageZH
	}
	lang := s.language
	s.mu.Unlock()
	s.notify(Event{Field: "language"})
	return lang
}

// SidebarCollapsed reports the sidebar state.
func (s *UIStore) SidebarCollapsed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sidebarCollapsed
}

// ToggleSidebar flips the sidebar state and returns the new value.
func (s *UIStore) ToggleSidebar() bool {
	s.mu.Lock()
	s.sidebarCollapsed = !s.sidebarCollapsed
	collapsed := s.sidebarCollapsed
	s.mu.Unlock()
	s.notify(Event{Field: "sidebar"})
	return collapsed
}

// Collection is an ordered, id-addressable list of entities.
type Collection[T Identifiable] struct {
	mu     sync.RWMutex
	name   string
	items  []T
	notify func(Event)
}

func newCollection[T Identifiable](name string, notify func(Event)) *Collection[T] {
	return &Collection[T]{name: name, notify: notify}
}

// All returns a copy of the items.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Set replaces the whole collection.
func (c *Collection[T]) Set(items []T) {
	c.mu.Lock()
	c.items = append([]T(nil), items...)
	c.mu.Unlock()
	c.notify(Event{Field: c.name})
}

// Add appends one item.
func (c *Collection[T]) Add(item T) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()
	c.notify(Event{Field: c.name})
}

// Update replaces every item whose id matches with fn(item). It notifies
// even when nothing matched.
func (c *Collection[T]) Update(id string, fn func(T) T) {
	c.mu.Lock()
	for i, item := range c.items {
		if item.GetID() == id {
			c.items[i] = fn(item)
		}
	}
	c.mu.Unlock()
	c.notify(Event{Field: c.name})
}
