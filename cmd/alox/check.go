package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alox/internal/diagfmt"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Lower and check modules, reporting diagnostics",
	Long: `Lower the given parser output files (or the modules listed in alox.toml)
and run the pass pipeline. Exits with status 1 when any error is reported.`,
	RunE: runCheck,
}

func init() {
	addCompileFlags(checkCmd)
	checkCmd.Flags().String("format", "pretty", "diagnostic format (pretty|json)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	opts, err := prettyOptions(cmd, os.Stdout)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	res, err := runCompile(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.PathMode,
			IncludeNotes:     opts.ShowNotes,
		}
		if err := diagfmt.JSON(out, res.Bag, res.FileSet, jsonOpts); err != nil {
			return err
		}
	} else {
		diagfmt.Pretty(out, res.Bag, res.FileSet, opts)
	}

	if n := countErrors(res); n > 0 {
		return errDiagnostics{errors: n}
	}
	if !quiet && format == "pretty" {
		fmt.Fprintf(out, "ok: %d modules checked\n", len(res.Table.Modules()))
	}
	return nil
}
