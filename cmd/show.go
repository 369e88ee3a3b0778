package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fyerfyer/gatebench/pkg/circuit"
	"github.com/fyerfyer/gatebench/pkg/registry"
	"github.com/fyerfyer/gatebench/pkg/utils"
	"github.com/spf13/cobra"
)

type showOptions struct {
	inputs    int
	outputs   int
	terminals []string
	preset    string
	signals   string
	output    string
}

func newShowCmd(a *app) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Build one gate and print it",
		Long: `Build a gate from terminal counts, terminal specs (dir[:connections[:signal]])
or a preset from the config, optionally read its signals, and print it.
Without any of these the default inverter is shown.`,
		Example: `  gatebench show --inputs 2 --outputs 1 --signals 10X
  gatebench show --terminal in:1:1 --terminal out:3:X --output yaml
  gatebench show --preset and2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShow(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.inputs, "inputs", 0, "number of input terminals")
	flags.IntVar(&opts.outputs, "outputs", 0, "number of output terminals")
	flags.StringArrayVarP(&opts.terminals, "terminal", "t", nil, "terminal spec, repeatable (e.g. out:2:X)")
	flags.StringVar(&opts.preset, "preset", "", "name of a preset gate from the config")
	flags.StringVar(&opts.signals, "signals", "", "signals for every terminal in index order (0, 1 or X)")
	flags.StringVarP(&opts.output, "output", "o", "text", "output format: text or yaml")
	cmd.MarkFlagsMutuallyExclusive("preset", "terminal", "inputs")
	cmd.MarkFlagsMutuallyExclusive("preset", "terminal", "outputs")
	return cmd
}

func (a *app) runShow(cmd *cobra.Command, opts *showOptions) error {
	defer a.logger.Close()

	if opts.output != "text" && opts.output != "yaml" {
		return fmt.Errorf("invalid output format: %q (expected text or yaml)", opts.output)
	}

	name, id, g, err := a.buildGate(cmd, opts)
	if err != nil {
		return err
	}

	if opts.signals != "" {
		r := circuit.NewSignalReader(strings.NewReader(opts.signals), io.Discard,
			circuit.WithMaxRetries(a.cfg.Input.MaxRetries))
		if err := g.BulkRead(r); err != nil {
			return fmt.Errorf("read signals: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if opts.output == "yaml" {
		return utils.WriteGateYAML(out, utils.NewGateDocument(name, id, g))
	}
	fmt.Fprintf(out, "%s gate:\n", name)
	return g.Format(out)
}

// buildGate returns the gate selected by opts with its display name and id
func (a *app) buildGate(cmd *cobra.Command, opts *showOptions) (string, string, *circuit.Gate, error) {
	flags := cmd.Flags()

	switch {
	case opts.preset != "":
		entry, err := a.store.Get(opts.preset)
		if err != nil {
			return "", "", nil, err
		}
		return entry.Name, entry.ID.String(), entry.Gate, nil

	case len(opts.terminals) > 0:
		terms, err := utils.ParseTerminalSpecs(opts.terminals)
		if err != nil {
			return "", "", nil, err
		}
		g, dropped := a.store.NewGate(terms)
		if dropped > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d terminals dropped, capacity is %s\n", dropped, g.Policy())
		}
		return "custom", "", g, nil

	case flags.Changed("inputs") || flags.Changed("outputs"):
		g, err := circuit.NewGateWithCounts(opts.inputs, opts.outputs, circuit.WithPolicy(a.store.Policy()))
		if err != nil {
			return "", "", nil, err
		}
		return fmt.Sprintf("%din/%dout", opts.inputs, opts.outputs), "", g, nil

	default:
		entry, err := a.store.Get(registry.DefaultGateName)
		if err != nil {
			return "", "", nil, err
		}
		return entry.Name, entry.ID.String(), entry.Gate, nil
	}
}
