package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CTAG07/Turbofish/pkg/turbofish"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "turbofish",
		Short: "Serve and generate turbofish type annotations",
		Long: `turbofish serves a web page of randomly generated generic type annotations
written in turbofish notation, e.g. Vec::<Option::<i32>>.

Run "turbofish serve" to start the server.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newGenCmd(), newParseCmd())
	return root
}

func newServeCmd() *cobra.Command {
	configPath := os.Getenv("TURBOFISH_CONFIG")
	if configPath == "" {
		configPath = "./config.json"
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Runs the public turbofish server and the admin API. The config file is
created with defaults if it does not exist; its format follows the extension
(.json, .toml, .yaml).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", configPath, "path to the config file (env TURBOFISH_CONFIG)")
	return cmd
}

func newGenCmd() *cobra.Command {
	var (
		depth   int
		count   int
		reverse bool
		seed    uint64
		maxArgs int
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Print randomly generated turbofish expressions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 0 {
				return fmt.Errorf("count must not be negative, got %d", count)
			}
			gen := turbofish.NewGenerator(turbofish.WithMaxArgs(maxArgs))

			var src turbofish.Source = turbofish.NewSource()
			if cmd.Flags().Changed("seed") {
				src = turbofish.NewSeededSource(seed)
			}

			for i := 0; i < count; i++ {
				var expr turbofish.Expression
				if reverse {
					expr = gen.GenerateReverse(src, depth)
				} else {
					expr = gen.Generate(src, depth)
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), turbofish.Render(expr)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", turbofish.DefaultMaxDepth, "maximum nesting depth")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of expressions to print")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "generate innermost-first")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible output")
	cmd.Flags().IntVar(&maxArgs, "max-args", turbofish.DefaultMaxArgs, "maximum type arguments per level")
	return cmd
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <turbofish>",
		Short: "Validate a turbofish and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := turbofish.Parse(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t(depth %d)\n", turbofish.Render(expr), expr.Depth())
			return err
		},
	}
}
