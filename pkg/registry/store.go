// Package registry keeps named gates and the name of the currently selected one.
// A Store is passed explicitly to every command handler; there is no global state.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fyerfyer/gatebench/pkg/circuit"
	"github.com/fyerfyer/gatebench/pkg/utils"
	"github.com/google/uuid"
)

// DefaultGateName is the name of the inverter seeded into a new store
const DefaultGateName = "inverter"

var (
	ErrEmptyName    = errors.New("gate name must not be empty")
	ErrGateNotFound = errors.New("gate not found")
	ErrNoSelection  = errors.New("no gate selected")
)

// Entry is a gate registered under a name
type Entry struct {
	ID      uuid.UUID
	Name    string
	Gate    *circuit.Gate
	Created time.Time
}

// Store holds named gates and the current selection
type Store struct {
	entries  map[string]*Entry
	selected string
	policy   circuit.CapacityPolicy
	logger   *utils.Logger
	seed     bool
}

// Option configures a Store
type Option func(*Store)

// WithPolicy sets the capacity policy used for gates built by the store
func WithPolicy(policy circuit.CapacityPolicy) Option {
	return func(s *Store) {
		s.policy = policy
	}
}

// WithLogger sets the logger used to report registry changes
func WithLogger(logger *utils.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithoutSeed creates the store without the default inverter
func WithoutSeed() Option {
	return func(s *Store) {
		s.seed = false
	}
}

// NewStore creates a store holding an inverter named DefaultGateName, selected
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*Entry),
		policy:  circuit.DefaultPolicy,
		logger:  utils.DefaultLogger,
		seed:    true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.seed {
		// Cannot fail: the name is non-empty
		_, _ = s.Put(DefaultGateName, circuit.NewGate(circuit.WithPolicy(s.policy)))
	}
	return s
}

// Policy returns the capacity policy of the store
func (s *Store) Policy() circuit.CapacityPolicy {
	return s.policy
}

// NewGate builds a gate from terms under the store policy.
// It also returns the number of terminals dropped by truncation.
func (s *Store) NewGate(terms []circuit.Terminal) (*circuit.Gate, int) {
	g := circuit.NewGateFromTerminals(terms, circuit.WithPolicy(s.policy))
	dropped := len(terms) - g.TerminalCount()
	if dropped > 0 {
		s.logger.Warning("gate truncated to %d terminals, %d dropped", g.TerminalCount(), dropped)
	}
	return g, dropped
}

// Put registers gate under name, replacing any gate of that name, and selects it
func (s *Store) Put(name string, gate *circuit.Gate) (*Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if _, exists := s.entries[name]; exists {
		s.logger.Registry("replacing gate %q", name)
	}

	entry := &Entry{
		ID:      uuid.New(),
		Name:    name,
		Gate:    gate,
		Created: time.Now(),
	}
	s.entries[name] = entry
	s.selected = name
	s.logger.Registry("registered gate %q (%s) with %d terminals", name, entry.ID, gate.TerminalCount())
	return entry, nil
}

// Get returns the entry registered under name
func (s *Store) Get(name string) (*Entry, error) {
	entry, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGateNotFound, name)
	}
	return entry, nil
}

// Remove deletes the gate registered under name.
// Removing the selected gate leaves the store without a selection.
func (s *Store) Remove(name string) error {
	if _, ok := s.entries[name]; !ok {
		return fmt.Errorf("%w: %q", ErrGateNotFound, name)
	}
	delete(s.entries, name)
	if s.selected == name {
		s.selected = ""
	}
	s.logger.Registry("removed gate %q", name)
	return nil
}

// Select makes name the current gate
func (s *Store) Select(name string) error {
	if _, ok := s.entries[name]; !ok {
		return fmt.Errorf("%w: %q", ErrGateNotFound, name)
	}
	s.selected = name
	s.logger.Registry("selected gate %q", name)
	return nil
}

// Selected returns the entry of the current gate
func (s *Store) Selected() (*Entry, error) {
	if s.selected == "" {
		return nil, ErrNoSelection
	}
	return s.Get(s.selected)
}

// SelectedName returns the name of the current gate, or "" when none is selected
func (s *Store) SelectedName() string {
	return s.selected
}

// Names returns the registered names in sorted order
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered gates
func (s *Store) Len() int {
	return len(s.entries)
}
