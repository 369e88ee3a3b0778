package circuit

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTerminal(t *testing.T, direction Direction, connections int, signal Signal) Terminal {
	t.Helper()
	term, err := NewTerminal(direction, connections, signal)
	require.NoError(t, err)
	return term
}

// TestDefaultGate tests that the default gate is a preset inverter
func TestDefaultGate(t *testing.T) {
	g := NewGate()

	require.Equal(t, 2, g.TerminalCount())

	in, err := g.Terminal(0)
	require.NoError(t, err)
	assert.Equal(t, Input, in.Direction())
	assert.Equal(t, Low, in.Signal())
	assert.Equal(t, 0, in.Connections())

	out, err := g.Terminal(1)
	require.NoError(t, err)
	assert.Equal(t, Output, out.Direction())
	assert.Equal(t, High, out.Signal())
	assert.Equal(t, 0, out.Connections())

	assert.Equal(t, DefaultPolicy, g.Policy())
}

func TestNewGateWithCounts(t *testing.T) {
	g, err := NewGateWithCounts(3, 2)
	require.NoError(t, err)
	require.Equal(t, 5, g.TerminalCount())
	assert.Len(t, g.Inputs(), 3)
	assert.Len(t, g.Outputs(), 2)

	for i, term := range g.Terminals() {
		assert.Equal(t, i >= 3, term.IsOutput(), "terminal %d", i)
		assert.Equal(t, Low, term.Signal())
	}

	_, err = NewGateWithCounts(15, 6)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = NewGateWithCounts(-1, 2)
	assert.Error(t, err)

	g, err = NewGateWithCounts(15, 6, WithPolicy(Unbounded()))
	require.NoError(t, err)
	assert.Equal(t, 21, g.TerminalCount())
}

// TestNewGateFromTerminalsTruncates tests the silent truncation of oversized lists
func TestNewGateFromTerminalsTruncates(t *testing.T) {
	terms := make([]Terminal, 25)
	for i := range terms {
		terms[i] = mustTerminal(t, Output, i%4, High)
	}

	g := NewGateFromTerminals(terms)
	assert.Equal(t, DefaultCapacity, g.TerminalCount())

	g = NewGateFromTerminals(terms, WithPolicy(Bounded(4)))
	assert.Equal(t, 4, g.TerminalCount())

	g = NewGateFromTerminals(terms, WithPolicy(Unbounded()))
	assert.Equal(t, 25, g.TerminalCount())

	// The gate keeps its own copy
	terms[0] = NewInputTerminal()
	first, err := g.Terminal(0)
	require.NoError(t, err)
	assert.Equal(t, Output, first.Direction())
}

func TestNewGateTinyBound(t *testing.T) {
	g := NewGate(WithPolicy(Bounded(1)))
	require.Equal(t, 1, g.TerminalCount())
	assert.Equal(t, Low, g.SignalUnchecked(0))
}

// TestSignalAccess tests checked and unchecked signal access
func TestSignalAccess(t *testing.T) {
	g := NewGate()

	got, err := g.SetSignal(0, Undefined)
	require.NoError(t, err)
	assert.Equal(t, Undefined, got)

	got, err = g.Signal(0)
	require.NoError(t, err)
	assert.Equal(t, Undefined, got)
	assert.Equal(t, Undefined, g.SignalUnchecked(0))
	assert.Equal(t, High, g.SignalUnchecked(1))

	n := g.TerminalCount()
	_, err = g.Signal(n)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = g.SetSignal(n, High)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = g.Signal(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	got, err = g.SetSignal(1, Signal(9))
	assert.ErrorIs(t, err, ErrInvalidSignal)
	assert.Equal(t, High, got)

	assert.Panics(t, func() { g.SignalUnchecked(n) })
}

// TestGateConnect tests connection handling through the gate
func TestGateConnect(t *testing.T) {
	g := NewGate()

	count, err := g.Connect(0)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = g.Connect(0)
	assert.ErrorIs(t, err, ErrConnectionLimitExceeded)

	for want := 1; want <= 3; want++ {
		count, err = g.Connect(1)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}
	_, err = g.Connect(1)
	assert.ErrorIs(t, err, ErrConnectionLimitExceeded)

	count, err = g.Disconnect(0)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	_, err = g.Disconnect(0)
	assert.ErrorIs(t, err, ErrNoConnectionToRemove)

	_, err = g.Connect(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = g.Disconnect(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	term, err := g.Terminal(1)
	require.NoError(t, err)
	assert.Equal(t, 3, term.Connections())
}

// TestAddTerminalBounded tests the capacity limit of a bounded gate
func TestAddTerminalBounded(t *testing.T) {
	g := NewEmptyGate()
	limit, ok := g.Policy().Limit()
	require.True(t, ok)

	for i := 0; i < limit; i++ {
		require.NoError(t, g.AddTerminal(NewInputTerminal()), "terminal %d", i)
	}

	err := g.AddTerminal(NewOutputTerminal())
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, limit, g.TerminalCount())
	assert.Empty(t, g.Outputs())
}

// TestHugeLimitAllocatesOnDemand tests that a large bound reserves no storage up front
func TestHugeLimitAllocatesOnDemand(t *testing.T) {
	policy := WithPolicy(Bounded(1 << 62))

	var g *Gate
	require.NotPanics(t, func() { g = NewEmptyGate(policy) })
	assert.Equal(t, 0, g.TerminalCount())
	require.NoError(t, g.AddTerminal(NewOutputTerminal()))
	assert.Equal(t, 1, g.TerminalCount())

	require.NotPanics(t, func() { g = NewGate(policy) })
	assert.Equal(t, 2, g.TerminalCount())

	g, err := NewGateWithCounts(2, 1, policy)
	require.NoError(t, err)
	assert.Equal(t, 3, g.TerminalCount())
	assert.Equal(t, "bounded(4611686018427387904)", g.Policy().String())
}

// TestZeroGateIsBounded tests that a gate built without constructors cannot grow
func TestZeroGateIsBounded(t *testing.T) {
	var g Gate
	assert.True(t, g.Policy().IsBounded())

	err := g.AddTerminal(NewInputTerminal())
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 0, g.TerminalCount())
}

// TestAddTerminalUnbounded tests growth past the default capacity
func TestAddTerminalUnbounded(t *testing.T) {
	g := NewGate(WithPolicy(Unbounded()))
	_, err := g.SetSignal(0, Undefined)
	require.NoError(t, err)

	for i := 0; i < 2*DefaultCapacity; i++ {
		require.NoError(t, g.AddTerminalWith(Output, i%4))
	}

	assert.Equal(t, 2+2*DefaultCapacity, g.TerminalCount())
	assert.Equal(t, Undefined, g.SignalUnchecked(0))
	assert.Equal(t, High, g.SignalUnchecked(1))

	last, err := g.Terminal(g.TerminalCount() - 1)
	require.NoError(t, err)
	assert.Equal(t, (2*DefaultCapacity-1)%4, last.Connections())
}

func TestAddTerminalWithValidates(t *testing.T) {
	g := NewEmptyGate()

	err := g.AddTerminalWith(Input, 2)
	assert.ErrorIs(t, err, ErrConnectionLimitExceeded)
	assert.Equal(t, 0, g.TerminalCount())

	require.NoError(t, g.AddTerminalWith(Input, 1))
	term, err := g.Terminal(0)
	require.NoError(t, err)
	assert.Equal(t, 1, term.Connections())
	assert.Equal(t, Low, term.Signal())
}

// TestCloneIsDeep tests that clones share no terminal state
func TestCloneIsDeep(t *testing.T) {
	g := NewGate()
	c := g.Clone()

	_, err := c.SetSignal(0, High)
	require.NoError(t, err)
	_, err = c.Connect(1)
	require.NoError(t, err)
	require.NoError(t, c.AddTerminal(NewInputTerminal()))

	assert.Equal(t, Low, g.SignalUnchecked(0))
	orig, err := g.Terminal(1)
	require.NoError(t, err)
	assert.Equal(t, 0, orig.Connections())
	assert.Equal(t, 2, g.TerminalCount())
	assert.Equal(t, g.Policy(), c.Policy())
}

// TestFormat tests grouping of signals by direction
func TestFormat(t *testing.T) {
	g := NewGateFromTerminals([]Terminal{
		mustTerminal(t, Input, 0, Low),
		mustTerminal(t, Output, 0, High),
		mustTerminal(t, Input, 0, Undefined),
	})

	var out strings.Builder
	require.NoError(t, g.Format(&out))

	want := "Inputs:   Low    X   \nOutputs:  High \n"
	assert.Equal(t, want, out.String())

	// Formatting does not touch state
	assert.Equal(t, Low, g.SignalUnchecked(0))
	assert.Equal(t, High, g.SignalUnchecked(1))
	assert.Equal(t, Undefined, g.SignalUnchecked(2))
}

func TestFormatWith(t *testing.T) {
	g := NewGate()

	var out strings.Builder
	err := g.FormatWith(&out, func(s Signal) string { return "[" + s.String() + "]" })
	require.NoError(t, err)
	assert.Equal(t, "Inputs:  [Low]\nOutputs: [High]\n", out.String())

	empty := NewEmptyGate()
	out.Reset()
	require.NoError(t, empty.Format(&out))
	assert.Equal(t, "Inputs:  \nOutputs: \n", out.String())
}

// TestBulkRead tests reading all signals with and without prompts
func TestBulkRead(t *testing.T) {
	g := NewGate()
	require.NoError(t, g.AddTerminalWith(Output, 0))

	var sink strings.Builder
	r := NewSignalReader(strings.NewReader("1 q0\nX"), &sink, WithPrompts(true))
	require.NoError(t, g.BulkRead(r))

	assert.Equal(t, High, g.SignalUnchecked(0))
	assert.Equal(t, Low, g.SignalUnchecked(1))
	assert.Equal(t, Undefined, g.SignalUnchecked(2))

	want := "Enter state for terminal#1 (Input)>" +
		"Enter state for terminal#2 (Output)>" + RetryPrompt +
		"Enter state for terminal#3 (Output)>"
	assert.Equal(t, want, sink.String())

	sink.Reset()
	quiet := NewSignalReader(strings.NewReader("001"), &sink)
	require.NoError(t, g.BulkRead(quiet))
	assert.Empty(t, sink.String())
	assert.Equal(t, High, g.SignalUnchecked(2))
}

func TestBulkReadStopsOnFailure(t *testing.T) {
	g := NewGate()

	r := NewSignalReader(strings.NewReader("X"), io.Discard)
	err := g.BulkRead(r)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	assert.Equal(t, Undefined, g.SignalUnchecked(0))
	assert.Equal(t, High, g.SignalUnchecked(1))
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "bounded(20)", DefaultPolicy.String())
	assert.Equal(t, "unbounded", Unbounded().String())
	assert.False(t, Unbounded().IsBounded())

	limit, ok := Bounded(-3).Limit()
	assert.True(t, ok)
	assert.Equal(t, 0, limit)
}

func TestGateString(t *testing.T) {
	assert.Equal(t, "Gate[Input(0)=Low, Output(0)=High]", NewGate().String())
}
