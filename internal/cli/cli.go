package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/paramgrid/internal/app"
)

// ExitError is an error that carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// options are the persistent flags shared by every command.
type options struct {
	logLevel  string
	logFormat string
	store     string
	schema    []string
	live      string
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	return filepath.SplitList(v)
}

// NewRootCommand builds the command tree. Command output goes to out, logs
// to errW.
func NewRootCommand(out, errW io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "paramgrid",
		Short: "Typed, animatable parameter registry",
		Long: `paramgrid declares typed parameters from HCL or YAML schemas into a
property store and reads, writes and keyframes them at runtime.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.logLevel = strings.ToLower(opts.logLevel)
			opts.logFormat = strings.ToLower(opts.logFormat)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError("%s", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", envStr("PARAMGRID_LOG_LEVEL", "info"), "Logging level: debug, info, warn or error.")
	pf.StringVar(&opts.logFormat, "log-format", envStr("PARAMGRID_LOG_FORMAT", "text"), "Log output format: text or json.")
	pf.StringVar(&opts.store, "store", envStr("PARAMGRID_STORE", ""), "Path to the sqlite store. Empty uses an in-memory store.")
	pf.StringSliceVar(&opts.schema, "schema", envList("PARAMGRID_SCHEMA"), "Schema file or directory (.hcl, .yaml). Repeatable.")
	pf.StringVar(&opts.live, "live", envStr("PARAMGRID_LIVE", ""), "socket.io server URL to publish changes to.")

	root.AddCommand(
		newValidateCommand(opts, errW),
		newDescribeCommand(opts, errW),
		newGetCommand(opts, errW),
		newSetCommand(opts, errW),
		newKeysCommand(opts, errW),
		newDeleteKeyCommand(opts, errW),
		newServeCommand(opts, errW),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, out, errW io.Writer) error {
	root := NewRootCommand(out, errW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// openApp builds the App for one command run.
func openApp(ctx context.Context, opts *options, errW io.Writer) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		SchemaPaths: opts.schema,
		StorePath:   opts.store,
		LiveURL:     opts.live,
		LogFormat:   opts.logFormat,
		LogLevel:    opts.logLevel,
	})
	if err != nil {
		return nil, usageError("%s", err)
	}
	return app.New(ctx, cfg, errW)
}
