package utils

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/fyerfyer/gatebench/pkg/circuit"
	"gopkg.in/yaml.v3"
)

// terminalSpecRegex matches "dir[:connections[:signal]]", e.g. "in", "out:2", "out:2:X"
var terminalSpecRegex = regexp.MustCompile(`^(?i)(in|input|out|output)(?::(\d+)(?::([01xX]))?)?$`)

// ParseDirection converts "in"/"input" or "out"/"output" to a Direction
func ParseDirection(s string) (circuit.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "input":
		return circuit.Input, nil
	case "out", "output":
		return circuit.Output, nil
	default:
		return circuit.Input, fmt.Errorf("invalid direction: %q (expected in or out)", s)
	}
}

// ParseTerminalSpec parses a terminal description like "out:2:X".
// Connections default to 0 and the signal defaults to Low.
func ParseTerminalSpec(spec string) (circuit.Terminal, error) {
	matches := terminalSpecRegex.FindStringSubmatch(strings.TrimSpace(spec))
	if matches == nil {
		return circuit.Terminal{}, fmt.Errorf("invalid terminal spec: %q (expected dir[:connections[:signal]])", spec)
	}

	direction, err := ParseDirection(matches[1])
	if err != nil {
		return circuit.Terminal{}, err
	}

	connections := 0
	if matches[2] != "" {
		connections, err = strconv.Atoi(matches[2])
		if err != nil {
			return circuit.Terminal{}, fmt.Errorf("invalid connection count in %q: %w", spec, err)
		}
	}

	signal := circuit.Low
	if matches[3] != "" {
		signal, _ = circuit.SignalFromChar(rune(matches[3][0]))
	}

	term, err := circuit.NewTerminal(direction, connections, signal)
	if err != nil {
		return circuit.Terminal{}, fmt.Errorf("terminal spec %q: %w", spec, err)
	}
	return term, nil
}

// ParseTerminalSpecs parses a list of terminal descriptions in order
func ParseTerminalSpecs(specs []string) ([]circuit.Terminal, error) {
	terms := make([]circuit.Terminal, 0, len(specs))
	for _, spec := range specs {
		term, err := ParseTerminalSpec(spec)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// TerminalDocument is the YAML shape of one terminal
type TerminalDocument struct {
	Index       int    `yaml:"index"`
	Direction   string `yaml:"direction"`
	Connections int    `yaml:"connections"`
	Signal      string `yaml:"signal"`
}

// GateDocument is the YAML shape of a named gate
type GateDocument struct {
	Name      string             `yaml:"name"`
	ID        string             `yaml:"id,omitempty"`
	Policy    string             `yaml:"policy"`
	Terminals []TerminalDocument `yaml:"terminals"`
}

// NewGateDocument describes gate g under the given name and id
func NewGateDocument(name, id string, g *circuit.Gate) GateDocument {
	doc := GateDocument{
		Name:      name,
		ID:        id,
		Policy:    g.Policy().String(),
		Terminals: make([]TerminalDocument, 0, g.TerminalCount()),
	}
	for i, t := range g.Terminals() {
		doc.Terminals = append(doc.Terminals, TerminalDocument{
			Index:       i,
			Direction:   strings.ToLower(t.Direction().String()),
			Connections: t.Connections(),
			Signal:      t.Signal().String(),
		})
	}
	return doc
}

// WriteGateYAML writes gate documents to w as a YAML sequence
func WriteGateYAML(w io.Writer, docs ...GateDocument) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(docs); err != nil {
		return fmt.Errorf("failed to encode gates: %w", err)
	}
	return encoder.Close()
}
