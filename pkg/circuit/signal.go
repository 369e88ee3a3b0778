package circuit

// Signal represents the tri-state value carried by a terminal
type Signal int

const (
	Low       Signal = iota // Logic 0
	High                    // Logic 1
	Undefined               // Unknown/floating
)

// Fixed-width display tokens, one per signal value
const (
	lowToken       = " Low  "
	highToken      = " High "
	undefinedToken = "  X   "
)

// String returns a string representation of the signal
func (s Signal) String() string {
	switch s {
	case Low:
		return "Low"
	case High:
		return "High"
	case Undefined:
		return "X"
	default:
		return "?"
	}
}

// Token returns the fixed-width token used when a gate is formatted.
// Values outside the tri-state domain render as Undefined.
func (s Signal) Token() string {
	switch s {
	case Low:
		return lowToken
	case High:
		return highToken
	default:
		return undefinedToken
	}
}

// Valid reports whether s is one of Low, High or Undefined
func (s Signal) Valid() bool {
	return s >= Low && s <= Undefined
}

// SignalFromChar maps an input character to a signal.
// It accepts '0', '1', 'X' and 'x'.
func SignalFromChar(ch rune) (Signal, bool) {
	switch ch {
	case '0':
		return Low, true
	case '1':
		return High, true
	case 'X', 'x':
		return Undefined, true
	default:
		return Low, false
	}
}

// Direction represents whether a terminal is a gate input or output
type Direction int

const (
	Input Direction = iota
	Output
)

// String returns a string representation of the direction
func (d Direction) String() string {
	switch d {
	case Input:
		return "Input"
	case Output:
		return "Output"
	default:
		return "Unknown"
	}
}

// MaxConnections returns the connection bound for the direction:
// an output may drive 3 connections, an input accepts 1.
func (d Direction) MaxConnections() int {
	if d == Output {
		return 3
	}
	return 1
}
