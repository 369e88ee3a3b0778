package circuit

import (
	"fmt"
)

// Terminal represents a single connection point of a gate.
// The zero value is an unconnected Input terminal at Low.
type Terminal struct {
	direction   Direction // Fixed at construction
	connections int       // Number of attached connections
	signal      Signal    // Current value
}

// NewTerminal creates a terminal with the given direction, connection count and signal.
// The count must lie within [0, direction.MaxConnections()].
func NewTerminal(direction Direction, connections int, signal Signal) (Terminal, error) {
	if connections < 0 {
		return Terminal{}, fmt.Errorf("%w: got %d", ErrNegativeConnections, connections)
	}
	if connections > direction.MaxConnections() {
		return Terminal{}, fmt.Errorf("%w: %s terminal allows 0..%d connections, got %d",
			ErrConnectionLimitExceeded, direction, direction.MaxConnections(), connections)
	}
	if !signal.Valid() {
		return Terminal{}, fmt.Errorf("%w: %d", ErrInvalidSignal, int(signal))
	}

	return Terminal{
		direction:   direction,
		connections: connections,
		signal:      signal,
	}, nil
}

// NewInputTerminal creates an unconnected input terminal at Low
func NewInputTerminal() Terminal {
	return Terminal{direction: Input, signal: Low}
}

// NewOutputTerminal creates an unconnected output terminal at Low
func NewOutputTerminal() Terminal {
	return Terminal{direction: Output, signal: Low}
}

// Direction returns the terminal direction
func (t *Terminal) Direction() Direction {
	return t.direction
}

// IsOutput returns true if the terminal is an output
func (t *Terminal) IsOutput() bool {
	return t.direction == Output
}

// Connections returns the current number of connections
func (t *Terminal) Connections() int {
	return t.connections
}

// Signal returns the current signal
func (t *Terminal) Signal() Signal {
	return t.signal
}

// SetSignal sets the signal of the terminal
func (t *Terminal) SetSignal(signal Signal) error {
	if !signal.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSignal, int(signal))
	}
	t.signal = signal
	return nil
}

// Connect increases the number of connections and returns the new count.
// It fails without changing state when the directional bound is reached.
func (t *Terminal) Connect() (int, error) {
	limit := t.direction.MaxConnections()
	if t.connections >= limit {
		return t.connections, fmt.Errorf("%w: %s terminal already has %d of %d",
			ErrConnectionLimitExceeded, t.direction, t.connections, limit)
	}
	t.connections++
	return t.connections, nil
}

// Disconnect decreases the number of connections and returns the new count.
// A terminal may be disconnected down to zero connections.
func (t *Terminal) Disconnect() (int, error) {
	if t.connections <= 0 {
		return t.connections, ErrNoConnectionToRemove
	}
	t.connections--
	return t.connections, nil
}

// ParseSignal reads the terminal signal from r.
// Invalid characters are answered with a retry prompt; on failure the signal is unchanged.
func (t *Terminal) ParseSignal(r *SignalReader) error {
	signal, err := r.ReadSignal()
	if err != nil {
		return err
	}
	t.signal = signal
	return nil
}

// String returns a string representation of the terminal
func (t Terminal) String() string {
	return fmt.Sprintf("%s(%d)=%s", t.direction, t.connections, t.signal)
}
