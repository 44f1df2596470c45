package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/spf13/cobra"
	"github.com/vk/paramgrid/internal/app"
	"github.com/vk/paramgrid/internal/instance"
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// withApp opens the App, runs fn with a logger-carrying context and closes
// the App again.
func withApp(cmd *cobra.Command, opts *options, errW io.Writer, fn func(ctx context.Context, a *app.App) error) (err error) {
	a, err := openApp(cmd.Context(), opts, errW)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a.Context(cmd.Context()), a)
}

func newValidateCommand(opts *options, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Declare the schema into a scratch store and report conflicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.schema) == 0 {
				return usageError("validate needs at least one --schema path")
			}
			scratch := *opts
			scratch.store = ""
			scratch.live = ""
			return withApp(cmd, &scratch, errW, func(ctx context.Context, a *app.App) error {
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %d parameters\n", len(a.Descriptors().Names()))
				return nil
			})
		},
	}
}

func newDescribeCommand(opts *options, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "List parameters with their type, label, default and behaviour",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, errW, func(ctx context.Context, a *app.App) error {
				names, err := a.Instances().Names(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tTYPE\tLABEL\tDEFAULT\tANIMATES\tPOLICY")
				for _, name := range names {
					p, err := a.Instances().GetParam(ctx, name)
					if err != nil {
						return err
					}
					label, err := p.Label()
					if err != nil {
						return err
					}
					h := p.Handle()
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						name, p.Type(), label,
						slotString(h, propstore.SlotDefault),
						slotString(h, propstore.SlotAnimates),
						policyString(h))
				}
				return tw.Flush()
			})
		},
	}
}

func newGetCommand(opts *options, errW io.Writer) *cobra.Command {
	var at float64
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Print a parameter's value, at the current time or --time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, errW, func(ctx context.Context, a *app.App) error {
				p, err := animated(ctx, a, args[0])
				if err != nil {
					return err
				}
				t := a.Store().Time()
				if cmd.Flags().Changed("time") {
					t = at
				}
				v, err := p.RawValueAtTime(t)
				if err != nil {
					return err
				}
				return printValue(cmd.OutOrStdout(), v)
			})
		},
	}
	cmd.Flags().Float64Var(&at, "time", 0, "Evaluate at this time.")
	return cmd
}

func newSetCommand(opts *options, errW io.Writer) *cobra.Command {
	var at float64
	cmd := &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Set a parameter's value, or the key at --time",
		Long: `Set a parameter's value. The value is an HCL expression such as 42,
0.5, true, "text" or {x = 1, y = 2}; a bare word is taken as a string.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := parseValue(args[1])
			return withApp(cmd, opts, errW, func(ctx context.Context, a *app.App) error {
				p, err := animated(ctx, a, args[0])
				if err != nil {
					return err
				}
				return a.Instances().EditBlock(ctx, "set "+args[0], func() error {
					if cmd.Flags().Changed("time") {
						return p.SetRawValueAtTime(at, v)
					}
					return p.SetRawValue(v)
				})
			})
		},
	}
	cmd.Flags().Float64Var(&at, "time", 0, "Set the key at this time.")
	return cmd
}

func newKeysCommand(opts *options, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "keys <name>",
		Short: "List a parameter's keyframes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, errW, func(ctx context.Context, a *app.App) error {
				p, err := animated(ctx, a, args[0])
				if err != nil {
					return err
				}
				n, err := p.NumKeys()
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "INDEX\tTIME\tVALUE")
				for i := 0; i < n; i++ {
					t, err := p.KeyTime(i)
					if err != nil {
						return err
					}
					v, err := p.RawValueAtTime(t)
					if err != nil {
						return err
					}
					fmt.Fprintf(tw, "%d\t%g\t%s\n", i, t, formatValue(v))
				}
				return tw.Flush()
			})
		},
	}
}

func newDeleteKeyCommand(opts *options, errW io.Writer) *cobra.Command {
	var (
		at  float64
		all bool
	)
	cmd := &cobra.Command{
		Use:   "delete-key <name>",
		Short: "Delete the key at --time, or every key with --all",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasTime := cmd.Flags().Changed("time")
			if hasTime == all {
				return usageError("delete-key needs exactly one of --time or --all")
			}
			return withApp(cmd, opts, errW, func(ctx context.Context, a *app.App) error {
				p, err := animated(ctx, a, args[0])
				if err != nil {
					return err
				}
				return a.Instances().EditBlock(ctx, "delete-key "+args[0], func() error {
					if all {
						return p.DeleteAllKeys()
					}
					return p.DeleteKeyAtTime(at)
				})
			})
		},
	}
	cmd.Flags().Float64Var(&at, "time", 0, "Time of the key to delete.")
	cmd.Flags().BoolVar(&all, "all", false, "Delete every key.")
	return cmd
}

func newServeCommand(opts *options, errW io.Writer) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /health and /metrics until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, errW, func(ctx context.Context, a *app.App) error {
				ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return a.Serve(ctx, addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9090", "Listen address.")
	return cmd
}

func animated(ctx context.Context, a *app.App, name string) (instance.Animated, error) {
	p, err := a.Instances().GetParam(ctx, name)
	if err != nil {
		return nil, err
	}
	v, ok := p.(instance.Animated)
	if !ok {
		return nil, fmt.Errorf("%s %q holds no value", p.Type(), name)
	}
	return v, nil
}

// parseValue reads s as an HCL literal expression, falling back to the raw
// string.
func parseValue(s string) cty.Value {
	expr, diags := hclsyntax.ParseExpression([]byte(s), "<value>", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.StringVal(s)
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.StringVal(s)
	}
	return v
}

func formatValue(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return v.GoString()
	}
	return string(b)
}

func printValue(w io.Writer, v cty.Value) error {
	_, err := fmt.Fprintln(w, formatValue(v))
	return err
}

func slotString(h propstore.Handle, slot propstore.Slot) string {
	v, err := h.Get(slot)
	if errors.Is(err, param.ErrUnknownSlot) {
		return "-"
	}
	if err != nil {
		return "error: " + err.Error()
	}
	return formatValue(v)
}

func policyString(h propstore.Handle) string {
	c, err := propstore.Behavior{P: h}.CacheInvalidation()
	if err != nil {
		return "-"
	}
	return c.String()
}
