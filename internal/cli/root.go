// Package cli implements the rigsmith command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rigsmith/internal/config"
	"rigsmith/internal/logging"
)

// Process exit codes.
const (
	ExitOK                = 0
	ExitError             = 1
	ExitAllocationFailure = 2
)

// ExitCodeError carries a non-default exit code out of a command.
type ExitCodeError struct {
	Code int
	Err  error
}

func (e *ExitCodeError) Error() string { return e.Err.Error() }

func (e *ExitCodeError) Unwrap() error { return e.Err }

type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	trace      bool

	cfg      config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
}

// Execute runs the command line with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	// cobra skips post-run hooks when RunE fails, so teardown runs here.
	if terr := a.teardown(); err == nil {
		err = terr
	}
	if err == nil {
		return ExitOK
	}
	fmt.Fprintln(stderr, "error:", err)
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitError
}

// NewRootCommand builds the command tree writing to stdout and stderr.
// Callers that execute it directly skip the logger sync and metrics
// textfile that Execute performs.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	return (&app{stdout: stdout, stderr: stderr}).rootCommand()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "rigsmith",
		Short: "PC build compatibility checker and budget auto-builder",
		Long: `rigsmith filters a parts catalogue to components compatible with a partial
build and allocates a total budget across categories to pick a complete build.

Examples:
  rigsmith ingest
  rigsmith search motherboard b650 --build build.yaml
  rigsmith check build.yaml --prices
  rigsmith autobuild --budget 20000000 --purpose gaming`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "rigsmith.yaml", "Path to the YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level")
	root.PersistentFlags().BoolVar(&a.trace, "trace", false, "Write one JSON span per engine operation to stderr")

	root.AddCommand(
		a.ingestCommand(),
		a.searchCommand(),
		a.checkCommand(),
		a.autobuildCommand(),
		a.statsCommand(),
	)
	return root
}

func (a *app) setup(*cobra.Command, []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) teardown() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.registry != nil && a.cfg.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.Metrics.Textfile, a.registry); err != nil {
			return fmt.Errorf("write metrics textfile: %w", err)
		}
	}
	return nil
}
