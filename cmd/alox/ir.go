package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"alox/internal/diagfmt"
	"alox/internal/ir"
)

var irCmd = &cobra.Command{
	Use:   "ir [files...]",
	Short: "Print the IR of every lowered module",
	Long: `Lower and check the given parser output files (or the modules listed in
alox.toml) and print their IR. Diagnostics go to stderr.`,
	RunE: runIR,
}

func init() {
	addCompileFlags(irCmd)
	irCmd.Flags().StringP("output", "o", "", "write the IR to a file instead of stdout")
}

func runIR(cmd *cobra.Command, args []string) error {
	opts, err := prettyOptions(cmd, os.Stderr)
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	res, err := runCompile(cmd, args)
	if err != nil {
		return err
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, opts)

	var out io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	first := true
	for _, mr := range res.Modules {
		if mr.Module == nil {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		if err := ir.Print(w, res.Table, mr.Module); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write IR: %w", err)
	}

	if n := countErrors(res); n > 0 {
		return errDiagnostics{errors: n}
	}
	return nil
}
