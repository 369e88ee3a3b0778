package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/fyerfyer/gatebench/pkg/circuit"
	"github.com/fyerfyer/gatebench/pkg/registry"
	"github.com/fyerfyer/gatebench/pkg/utils"
	"github.com/muesli/termenv"
)

const menu = `Ask...
    [0]Exit
    [1]New gate
    [2]Remove gate
    [3]List gates
    [4]Select gate
    [5]Print gate
    [6]Add terminals
    [7]Get terminal state
    [8]Set terminal state
    [9]Connect terminal
    [10]Disconnect terminal
    [11]Renew states
>>`

var (
	errNotNumber   = errors.New("not a number")
	errNoTerminals = errors.New("gate has no terminals")
)

// command is one numbered menu entry
type command struct {
	name string
	run  func() error
}

// Console runs the numbered gate menu over an input stream and an output sink
type Console struct {
	store       *registry.Store
	src         *contextReader
	in          *bufio.Reader
	out         io.Writer
	signals     *circuit.SignalReader
	logger      *utils.Logger
	interactive bool
	maxRetries  int
	color       bool
	term        *termenv.Output
	commands    []command
}

// Option configures a Console
type Option func(*Console)

// WithLogger sets the logger
func WithLogger(logger *utils.Logger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

// WithInteractive enables per-terminal prompts when renewing states
func WithInteractive(interactive bool) Option {
	return func(c *Console) {
		c.interactive = interactive
	}
}

// WithMaxRetries bounds invalid characters per signal read (0 = unbounded)
func WithMaxRetries(n int) Option {
	return func(c *Console) {
		c.maxRetries = n
	}
}

// WithColor renders signal tokens with ANSI colours
func WithColor(enabled bool) Option {
	return func(c *Console) {
		c.color = enabled
	}
}

// New creates a console over store reading from in and writing to out
func New(store *registry.Store, in io.Reader, out io.Writer, opts ...Option) *Console {
	src := &contextReader{src: in}
	c := &Console{
		store:  store,
		src:    src,
		in:     bufio.NewReader(src),
		out:    out,
		logger: utils.DefaultLogger,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.signals = circuit.NewSignalReader(c.in, c.out,
		circuit.WithMaxRetries(c.maxRetries),
		circuit.WithPrompts(c.interactive),
	)
	c.term = termenv.NewOutput(out, termenv.WithProfile(termenv.ANSI))
	c.commands = []command{
		{"exit", nil},
		{"new gate", c.newGate},
		{"remove gate", c.removeGate},
		{"list gates", c.listGates},
		{"select gate", c.selectGate},
		{"print gate", c.printGate},
		{"add terminals", c.addTerminals},
		{"get terminal state", c.getState},
		{"set terminal state", c.setState},
		{"connect terminal", c.connect},
		{"disconnect terminal", c.disconnect},
		{"renew states", c.renewStates},
	}
	return c
}

// Run shows the menu and dispatches choices until Exit is chosen or the input ends.
// Command failures are reported and the loop continues. Cancelling ctx ends the
// loop with ctx.Err(), also while it waits for input.
func (c *Console) Run(ctx context.Context) error {
	c.src.ctx = ctx
	defer func() { c.src.ctx = nil }()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(c.out, menu)
		choice, err := c.readInt()
		if errors.Is(err, errNotNumber) {
			fmt.Fprintln(c.out, "Try again!")
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return endOfInput(err)
		}
		if choice < 0 || choice >= len(c.commands) {
			fmt.Fprintln(c.out, "Try again!")
			continue
		}

		cmd := c.commands[choice]
		c.logger.Console("choice %d (%s)", choice, cmd.name)
		if cmd.run == nil {
			return nil
		}

		if err := cmd.run(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if isEndOfInput(err) {
				return endOfInput(err)
			}
			c.logger.Debug("%s failed: %v", cmd.name, err)
			fmt.Fprintf(c.out, "Error: %v", err)
		}
		fmt.Fprintln(c.out)
	}
}

func isEndOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// endOfInput turns a drained input stream into a clean exit
func endOfInput(err error) error {
	if isEndOfInput(err) {
		return nil
	}
	return err
}

func (c *Console) skipSpace() error {
	for {
		r, _, err := c.in.ReadRune()
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			return c.in.UnreadRune()
		}
	}
}

// readToken reads one whitespace-delimited word
func (c *Console) readToken() (string, error) {
	if err := c.skipSpace(); err != nil {
		return "", err
	}

	var builder strings.Builder
	for {
		r, _, err := c.in.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) && builder.Len() > 0 {
				return builder.String(), nil
			}
			return "", err
		}
		if unicode.IsSpace(r) {
			return builder.String(), nil
		}
		builder.WriteRune(r)
	}
}

// readLine reads the rest of the next non-blank line, trimmed
func (c *Console) readLine() (string, error) {
	if err := c.skipSpace(); err != nil {
		return "", err
	}

	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) readInt() (int, error) {
	token, err := c.readToken()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNotNumber, token)
	}
	return n, nil
}

// readIntInRange prompts until a number in [low, high] is entered
func (c *Console) readIntInRange(prompt string, low, high int) (int, error) {
	for {
		fmt.Fprint(c.out, prompt)
		n, err := c.readInt()
		if err != nil && !errors.Is(err, errNotNumber) {
			return 0, err
		}
		if err == nil && n >= low && n <= high {
			return n, nil
		}
	}
}

// readIndex prompts for a terminal index of g
func (c *Console) readIndex(g *circuit.Gate) (int, error) {
	n := g.TerminalCount()
	if n == 0 {
		return 0, errNoTerminals
	}
	return c.readIntInRange(fmt.Sprintf("Input terminal number (from 0 to %d): ", n-1), 0, n-1)
}

// readYes reads a 0/1 answer; only "1" means yes
func (c *Console) readYes(prompt string) (bool, error) {
	fmt.Fprint(c.out, prompt)
	token, err := c.readToken()
	if err != nil {
		return false, err
	}
	return token == "1", nil
}

// readTerminal asks for direction, connection count and state of a new terminal
func (c *Console) readTerminal() (circuit.Terminal, error) {
	var direction circuit.Direction
	fmt.Fprint(c.out, "Input iotype ('in':'out'): ")
	for {
		token, err := c.readToken()
		if err != nil {
			return circuit.Terminal{}, err
		}
		if direction, err = utils.ParseDirection(token); err == nil {
			break
		}
	}

	limit := direction.MaxConnections()
	prompt := "Input number of connections(0 or 1): "
	if direction == circuit.Output {
		prompt = fmt.Sprintf("Input number of connections(from 0 to %d): ", limit)
	}
	connections, err := c.readIntInRange(prompt, 0, limit)
	if err != nil {
		return circuit.Terminal{}, err
	}

	fmt.Fprint(c.out, "Input state (0,1 or X): ")
	signal, err := c.signals.ReadSignal()
	if err != nil {
		return circuit.Terminal{}, err
	}

	return circuit.NewTerminal(direction, connections, signal)
}

// token renders a signal for display
func (c *Console) token(s circuit.Signal) string {
	tok := s.Token()
	if !c.color {
		return tok
	}

	style := c.term.String(tok)
	switch s {
	case circuit.High:
		style = style.Foreground(termenv.ANSIGreen)
	case circuit.Low:
		style = style.Foreground(termenv.ANSIBlue)
	default:
		style = style.Foreground(termenv.ANSIYellow)
	}
	return style.String()
}
