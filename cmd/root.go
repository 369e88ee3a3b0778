package main

import (
	"fmt"

	"github.com/fyerfyer/gatebench/pkg/config"
	"github.com/fyerfyer/gatebench/pkg/registry"
	"github.com/fyerfyer/gatebench/pkg/utils"
	"github.com/spf13/cobra"
)

// Version is the gatebench release
const Version = "0.1.0"

// app carries the state shared by all subcommands once configuration is loaded
type app struct {
	configPath string
	logLevel   string
	capacity   int
	unbounded  bool

	cfg    *config.Config
	logger *utils.Logger
	store  *registry.Store
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "gatebench",
		Short:         "gatebench is an interactive workbench for logic gates",
		Long:          `gatebench creates, inspects and mutates logic gates made of input and output terminals carrying Low, High or undefined signals.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: ./gatebench.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: error, warning, info, debug or trace")
	flags.IntVar(&a.capacity, "capacity", 0, "terminal limit of bounded gates")
	flags.BoolVar(&a.unbounded, "unbounded", false, "let gates grow without a terminal limit")

	root.AddCommand(newShellCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// setup loads configuration, applies flag overrides, and builds the logger and registry.
// Commands that run after a successful setup must close the logger.
func (a *app) setup(cmd *cobra.Command) error {
	v := config.New()
	if err := config.ReadFile(v, a.configPath); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		v.Set(config.KeyLogLevel, a.logLevel)
	}
	if flags.Changed("capacity") {
		v.Set(config.KeyCapacityPolicy, config.PolicyBounded)
		v.Set(config.KeyCapacityLimit, a.capacity)
	}
	if a.unbounded {
		v.Set(config.KeyCapacityPolicy, config.PolicyUnbounded)
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	if cfg.Log.File != "" {
		if a.logger, err = utils.NewFileLogger(cfg.LogLevel(), cfg.Log.File); err != nil {
			return err
		}
	} else {
		a.logger = utils.NewLogger(cfg.LogLevel())
		a.logger.SetOutput(cmd.ErrOrStderr())
	}

	a.store = registry.NewStore(registry.WithPolicy(policy), registry.WithLogger(a.logger))
	if err := a.seedPresets(); err != nil {
		a.logger.Close()
		return err
	}

	a.logger.Debug("config loaded: policy %s, %d preset gates", policy, len(cfg.Gates))
	return nil
}

// seedPresets registers the preset gates from the config and keeps the inverter selected
func (a *app) seedPresets() error {
	for _, preset := range a.cfg.Gates {
		terms, err := utils.ParseTerminalSpecs(preset.Terminals)
		if err != nil {
			return fmt.Errorf("preset %q: %w", preset.Name, err)
		}
		g, _ := a.store.NewGate(terms)
		if _, err := a.store.Put(preset.Name, g); err != nil {
			return fmt.Errorf("preset %q: %w", preset.Name, err)
		}
	}
	return a.store.Select(registry.DefaultGateName)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gatebench v%s\n", Version)
		},
	}
}
