// Package cli implements the pinhole command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/mesh-intelligence/pinhole/internal/bootstrap"
	"github.com/mesh-intelligence/pinhole/internal/paths"
	"github.com/mesh-intelligence/pinhole/internal/snapshot"
	"github.com/mesh-intelligence/pinhole/pkg/log"
	"github.com/mesh-intelligence/pinhole/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userErrors are the failures caused by bad input rather than the system.
var userErrors = []error{
	bootstrap.ErrInvalidConfig,
	bootstrap.ErrInvalidPreference,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	snapshot.ErrUnsupportedVersion,
	errUsage,
}

var errUsage = errors.New("usage")

// classify attaches an exit code to err.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return &exitError{code: exitUserError, err: err}
		}
	}
	return &exitError{code: exitSysError, err: err}
}

func usageErrorf(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))}
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	configDir string
	dataDir   string
	jsonOut   bool
	logLevel  string
	logJSON   bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Replaced in tests.
	isTerminal func(io.Reader) bool
	prompt     prompter
	meters     metric.MeterProvider

	// Populated by the root PersistentPreRunE.
	cfg      *viper.Viper
	logger   log.Logger
	closeLog func()
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:      stdin,
		stdout:     stdout,
		stderr:     &syncWriter{w: stderr},
		isTerminal: isTerminal,
		prompt:     promptuiPrompter{},
		meters:     otel.GetMeterProvider(),
		logger:     log.NewNoop(),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pinhole",
		Short:         "Seed and inspect the pinhole location database",
		Long:          "pinhole prepares the local photography database: it seeds the\nbuilt-in tips, locations and camera profiles exactly once and\nstores user preferences.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return classify(a.setup())
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", "", "configuration directory (default: per-user config dir)")
	pf.StringVar(&a.dataDir, "data-dir", "", "data directory (default: per-user data dir)")
	pf.BoolVar(&a.jsonOut, "json", false, "output as JSON")
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.BoolVar(&a.logJSON, "log-json", false, "write logs as JSON lines")

	root.AddCommand(
		a.versionCmd(),
		a.initCmd(),
		a.statusCmd(),
		a.settingsCmd(),
		a.watchCmd(),
		a.exportCmd(),
		a.importCmd(),
	)
	return root
}

// setup resolves the configuration directory, loads config.yaml and builds
// the logger.
func (a *app) setup() error {
	dir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.configDir = dir

	v, err := loadConfig(dir)
	if err != nil {
		return err
	}
	a.cfg = v

	level := log.ParseLevel(a.logLevel)
	var sink log.Logger
	if a.logJSON {
		sink = log.NewZerologWithLogger(zerolog.New(a.stderr).Level(level).With().Timestamp().Logger())
	} else {
		sink = log.NewZerolog(a.stderr, level)
	}
	async := log.NewAsync(sink, 256)
	a.logger = async
	a.closeLog = async.Close
	return nil
}

// Run executes the command line in args and returns the exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return newApp(stdin, stdout, stderr).run(ctx, args)
}

func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if a.closeLog != nil {
		a.closeLog()
	}
	if err == nil {
		return exitSuccess
	}

	color.New(color.FgRed).Fprintf(a.stderr, "error: %s\n", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Flag and argument errors from cobra itself.
	return exitUserError
}

// Execute runs pinhole with the process arguments, cancelling on SIGINT or
// SIGTERM.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
