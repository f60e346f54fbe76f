package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"alox/internal/prof"
	"alox/internal/version"
)

var (
	traceCleanup = func() {}
	profiling    *prof.Session
)

var rootCmd = &cobra.Command{
	Use:   "alox",
	Short: "alox IR compiler",
	Long: `alox lowers parser output of actor programs into a typed,
block-structured IR, runs the pass pipeline over it and reports diagnostics`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return err
		}
		useColor, err := readColorMode(colorFlag, isTerminal(os.Stdout))
		if err != nil {
			return err
		}
		color.NoColor = !useColor

		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup

		opts, err := profileOptions(cmd)
		if err != nil || !opts.Enabled() {
			return err
		}
		profiling, err = prof.Start(opts)
		return err
	},
}

// main registers subcommands and persistent flags, then executes the root
// command. A failed command exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(irCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics to keep (0: manifest or 100)")
	pf.Int("jobs", 0, "parallel lowering jobs (0: manifest or GOMAXPROCS)")
	pf.String("ui", "auto", "progress UI (auto|on|off)")
	pf.Bool("no-cache", false, "do not read or write the IR disk cache")
	pf.Bool("clear-cache", false, "drop every IR cache entry before compiling")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode ring|both")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat trace events at this interval")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	if perr := profiling.Stop(); perr != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", perr)
	}
	traceCleanup()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func profileOptions(cmd *cobra.Command) (prof.Options, error) {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = pf.GetString("cpu-profile"); err != nil {
		return opts, err
	}
	if opts.Mem, err = pf.GetString("mem-profile"); err != nil {
		return opts, err
	}
	opts.Trace, err = pf.GetString("runtime-trace")
	return opts, err
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
