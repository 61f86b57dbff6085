package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nconklindev/vizprep/internal/config"
	"github.com/nconklindev/vizprep/internal/logging"
	"github.com/nconklindev/vizprep/internal/pipeline"
	"github.com/nconklindev/vizprep/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vizprep",
		Short:         "Format spreadsheet and CSV data as Category,Value pairs for the bar chart visualizer",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, loadConfig(cmd))
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("vizprep {{.Version}}\ncommit: %s\nbuilt: %s\n", commit, date))

	root.AddCommand(newConvertCmd())

	return root
}

// loadConfig falls back to defaults when the configuration cannot be loaded.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v. Using defaults.\n", err)
		return config.Default()
	}
	return cfg
}

func newLogger(cmd *cobra.Command, cfg config.LoggingConfig) (*slog.Logger, func() error) {
	logger, closeFn, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v. Logging disabled.\n", err)
		logger, closeFn, _ = logging.New(config.LoggingConfig{Output: "none"})
	}
	return logger, closeFn
}

func runTUI(cmd *cobra.Command, cfg *config.Config) error {
	// Terminal output would tear the alternate screen.
	logCfg := cfg.Logging
	if logCfg.Output == "stderr" || logCfg.Output == "both" {
		logCfg.Output = "file"
	}

	logger, closeLog := newLogger(cmd, logCfg)
	defer closeLog()

	p := pipeline.New(logger, cfg.Output)

	prog := tea.NewProgram(ui.InitialModel(p, cfg.Picker), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := prog.Run()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return err
	}

	if m, ok := final.(ui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
