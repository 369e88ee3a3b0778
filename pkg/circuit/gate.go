package circuit

import (
	"fmt"
	"io"
	"strings"
)

// DefaultCapacity is the terminal limit of a bounded gate
const DefaultCapacity = 20

// CapacityPolicy decides whether a gate's terminal count is hard-bounded.
// The zero value is Bounded(0).
type CapacityPolicy struct {
	unbounded bool
	limit     int
}

// DefaultPolicy is the conservative policy used when none is given
var DefaultPolicy = Bounded(DefaultCapacity)

// Bounded returns a policy that never lets a gate hold more than limit terminals
func Bounded(limit int) CapacityPolicy {
	if limit < 0 {
		limit = 0
	}
	return CapacityPolicy{limit: limit}
}

// Unbounded returns a policy under which gates grow by reallocation
func Unbounded() CapacityPolicy {
	return CapacityPolicy{unbounded: true}
}

// IsBounded returns true if the policy has a fixed limit
func (p CapacityPolicy) IsBounded() bool {
	return !p.unbounded
}

// Limit returns the terminal limit and whether one applies
func (p CapacityPolicy) Limit() (int, bool) {
	return p.limit, !p.unbounded
}

// String returns a string representation of the policy
func (p CapacityPolicy) String() string {
	if !p.unbounded {
		return fmt.Sprintf("bounded(%d)", p.limit)
	}
	return "unbounded"
}

// GateOption configures a gate at construction
type GateOption func(*Gate)

// WithPolicy sets the capacity policy of a gate
func WithPolicy(policy CapacityPolicy) GateOption {
	return func(g *Gate) {
		g.policy = policy
	}
}

// Gate represents one circuit element as an ordered list of terminals.
// Index order is insertion order. A gate exclusively owns its terminals.
// A zero Gate holds no terminals and cannot grow; use the constructors.
type Gate struct {
	terminals []Terminal
	policy    CapacityPolicy
}

func newGate(opts []GateOption) *Gate {
	g := &Gate{policy: DefaultPolicy}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewGate creates the default gate: an inverter with one input at Low
// and one output preset to High. The output is not computed from the input.
func NewGate(opts ...GateOption) *Gate {
	return NewGateFromTerminals([]Terminal{
		{direction: Input, signal: Low},
		{direction: Output, signal: High},
	}, opts...)
}

// NewEmptyGate creates a gate without terminals
func NewEmptyGate(opts ...GateOption) *Gate {
	return newGate(opts)
}

// NewGateWithCounts creates a gate with the given number of unconnected inputs
// followed by outputs, all at Low.
func NewGateWithCounts(inputs, outputs int, opts ...GateOption) (*Gate, error) {
	if inputs < 0 || outputs < 0 {
		return nil, fmt.Errorf("negative terminal count: %d inputs, %d outputs", inputs, outputs)
	}

	g := newGate(opts)
	if limit, ok := g.policy.Limit(); ok && inputs+outputs > limit {
		return nil, fmt.Errorf("%w: %d terminals requested, limit is %d",
			ErrCapacityExceeded, inputs+outputs, limit)
	}

	g.terminals = make([]Terminal, 0, inputs+outputs)
	for i := 0; i < inputs; i++ {
		g.terminals = append(g.terminals, NewInputTerminal())
	}
	for i := 0; i < outputs; i++ {
		g.terminals = append(g.terminals, NewOutputTerminal())
	}
	return g, nil
}

// NewGateFromTerminals creates a gate holding copies of terms.
// Under a bounded policy terminals beyond the limit are dropped, not rejected.
func NewGateFromTerminals(terms []Terminal, opts ...GateOption) *Gate {
	g := newGate(opts)
	if limit, ok := g.policy.Limit(); ok && len(terms) > limit {
		terms = terms[:limit]
	}
	g.terminals = make([]Terminal, 0, len(terms))
	g.terminals = append(g.terminals, terms...)
	return g
}

// Clone returns a deep copy of the gate
func (g *Gate) Clone() *Gate {
	c := &Gate{policy: g.policy}
	c.terminals = make([]Terminal, len(g.terminals), cap(g.terminals))
	copy(c.terminals, g.terminals)
	return c
}

// Policy returns the capacity policy of the gate
func (g *Gate) Policy() CapacityPolicy {
	return g.policy
}

// TerminalCount returns the number of terminals
func (g *Gate) TerminalCount() int {
	return len(g.terminals)
}

func (g *Gate) checkIndex(n int) error {
	if n < 0 || n >= len(g.terminals) {
		return fmt.Errorf("%w: index %d, gate has %d terminals", ErrIndexOutOfRange, n, len(g.terminals))
	}
	return nil
}

// Terminal returns a copy of the terminal at index n
func (g *Gate) Terminal(n int) (Terminal, error) {
	if err := g.checkIndex(n); err != nil {
		return Terminal{}, err
	}
	return g.terminals[n], nil
}

// Terminals returns a copy of all terminals in index order
func (g *Gate) Terminals() []Terminal {
	out := make([]Terminal, len(g.terminals))
	copy(out, g.terminals)
	return out
}

// Inputs returns copies of the input terminals in index order
func (g *Gate) Inputs() []Terminal {
	return g.filter(Input)
}

// Outputs returns copies of the output terminals in index order
func (g *Gate) Outputs() []Terminal {
	return g.filter(Output)
}

func (g *Gate) filter(direction Direction) []Terminal {
	out := make([]Terminal, 0, len(g.terminals))
	for _, t := range g.terminals {
		if t.direction == direction {
			out = append(out, t)
		}
	}
	return out
}

// Signal returns the signal of terminal n
func (g *Gate) Signal(n int) (Signal, error) {
	if err := g.checkIndex(n); err != nil {
		return Low, err
	}
	return g.terminals[n].signal, nil
}

// SignalUnchecked returns the signal of terminal n without a bounds check.
// It is meant for trusted callers that already validated n; an out-of-range
// index panics.
func (g *Gate) SignalUnchecked(n int) Signal {
	return g.terminals[n].signal
}

// SetSignal sets the signal of terminal n and returns the stored value
func (g *Gate) SetSignal(n int, signal Signal) (Signal, error) {
	if err := g.checkIndex(n); err != nil {
		return Low, err
	}
	if err := g.terminals[n].SetSignal(signal); err != nil {
		return g.terminals[n].signal, fmt.Errorf("terminal %d: %w", n, err)
	}
	return g.terminals[n].signal, nil
}

// Connect adds a connection to terminal n and returns its new count
func (g *Gate) Connect(n int) (int, error) {
	if err := g.checkIndex(n); err != nil {
		return 0, err
	}
	count, err := g.terminals[n].Connect()
	if err != nil {
		return count, fmt.Errorf("terminal %d: %w", n, err)
	}
	return count, nil
}

// Disconnect removes a connection from terminal n and returns its new count
func (g *Gate) Disconnect(n int) (int, error) {
	if err := g.checkIndex(n); err != nil {
		return 0, err
	}
	count, err := g.terminals[n].Disconnect()
	if err != nil {
		return count, fmt.Errorf("terminal %d: %w", n, err)
	}
	return count, nil
}

// AddTerminal appends a terminal to the gate.
// A bounded gate at its limit rejects the terminal. An unbounded gate moves its
// terminals into new storage one slot larger before appending.
func (g *Gate) AddTerminal(t Terminal) error {
	n := len(g.terminals)
	if limit, ok := g.policy.Limit(); ok {
		if n >= limit {
			return fmt.Errorf("%w: gate already holds %d terminals", ErrCapacityExceeded, limit)
		}
		g.terminals = append(g.terminals, t)
		return nil
	}

	grown := make([]Terminal, n+1)
	copy(grown, g.terminals)
	grown[n] = t
	g.terminals = grown
	return nil
}

// AddTerminalWith creates a terminal at Low with the given direction and
// connection count and appends it
func (g *Gate) AddTerminalWith(direction Direction, connections int) error {
	t, err := NewTerminal(direction, connections, Low)
	if err != nil {
		return err
	}
	return g.AddTerminal(t)
}

// BulkRead reads the signal of every terminal in index order.
// With prompts enabled each read is preceded by a prompt naming the terminal.
// It stops at the first failure; earlier terminals keep their new signals.
func (g *Gate) BulkRead(r *SignalReader) error {
	for i := range g.terminals {
		r.Prompt("Enter state for terminal#%d (%s)>", i+1, g.terminals[i].direction)
		if err := g.terminals[i].ParseSignal(r); err != nil {
			return fmt.Errorf("terminal %d: %w", i, err)
		}
	}
	return nil
}

// Format writes the gate as an Inputs line and an Outputs line
func (g *Gate) Format(w io.Writer) error {
	return g.FormatWith(w, Signal.Token)
}

// FormatWith writes the gate like Format, rendering each signal with token
func (g *Gate) FormatWith(w io.Writer, token func(Signal) string) error {
	var builder strings.Builder

	builder.WriteString("Inputs:  ")
	for _, t := range g.terminals {
		if t.direction == Input {
			builder.WriteString(token(t.signal))
		}
	}
	builder.WriteString("\nOutputs: ")
	for _, t := range g.terminals {
		if t.direction == Output {
			builder.WriteString(token(t.signal))
		}
	}
	builder.WriteString("\n")

	_, err := io.WriteString(w, builder.String())
	return err
}

// String returns a string representation of the gate
func (g *Gate) String() string {
	parts := make([]string, len(g.terminals))
	for i, t := range g.terminals {
		parts[i] = t.String()
	}
	return fmt.Sprintf("Gate[%s]", strings.Join(parts, ", "))
}
