package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"nodeflow/internal/logging"
)

var version = "0.3.0"

type rootOptions struct {
	configPath string
	logLevel   string
	demo       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "nodeflow [file]",
		Short:         "Terminal node-graph editor",
		Long:          "nodeflow edits node graphs in the terminal: drag from an output port to an input port to connect them.",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			return runEditor(opts, file)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/nodeflow/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "start with the demo shader graph")

	cmd.AddCommand(
		exportCmd(opts),
		checkCmd(),
	)
	return cmd
}

// setup loads the config and opens the log. The returned logger must be
// closed.
func setup(opts *rootOptions) (*Config, *logging.Logger, error) {
	config, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	level := config.logLevel()
	if opts.logLevel != "" {
		if level, err = logging.ParseLevel(opts.logLevel); err != nil {
			return nil, nil, err
		}
	}
	logger, err := logging.New(logging.Config{
		Level:   level,
		LogDir:  config.LogDir,
		Service: "nodeflow",
	})
	if err != nil {
		warn.Fprintf(os.Stderr, "nodeflow: logging disabled: %v\n", err)
	}
	return config, logger, nil
}

func runEditor(opts *rootOptions, file string) error {
	config, logger, err := setup(opts)
	if err != nil {
		return err
	}
	defer logger.Close()

	m, err := newModel(config, logger, file, opts.demo)
	if err != nil {
		return err
	}
	defer m.close()

	logger.Info("editor started", "file", file, "version", version)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		bad.Fprintf(os.Stderr, "nodeflow: %v\n", err)
		os.Exit(1)
	}
}
