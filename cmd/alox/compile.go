package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alox/internal/diag"
	"alox/internal/diagfmt"
	"alox/internal/driver"
	"alox/internal/observ"
)

func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-optimize", false, "skip dead-block removal and the resolution check")
	cmd.Flags().Bool("reachability", false, "also remove blocks unreachable from the entry block")
	cmd.Flags().String("path-mode", "auto", "diagnostic paths (auto|absolute|relative|basename)")
	cmd.Flags().Int8("context", 1, "source lines shown above a diagnostic (-1 hides the excerpt)")
	cmd.Flags().Bool("notes", true, "show diagnostic notes")
}

// runCompile compiles the inputs of cmd, showing the progress view when
// enabled and the phase timings when --timings is set.
func runCompile(cmd *cobra.Command, args []string) (*driver.Result, error) {
	in, req, err := buildRequest(cmd, args)
	if err != nil {
		return nil, err
	}
	pf := cmd.Root().PersistentFlags()
	quiet, err := pf.GetBool("quiet")
	if err != nil {
		return nil, err
	}
	timings, err := pf.GetBool("timings")
	if err != nil {
		return nil, err
	}
	uiFlag, err := pf.GetString("ui")
	if err != nil {
		return nil, err
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return nil, err
	}

	if timings {
		req.Timer = observ.NewTimer()
	}
	var res *driver.Result
	if !quiet && shouldUseTUI(mode) {
		res, err = compileWithUI(cmd.Context(), in.title, req)
	} else {
		res, err = driver.Compile(cmd.Context(), req)
	}
	if err != nil {
		return res, err
	}
	if timings {
		fmt.Fprint(cmd.ErrOrStderr(), req.Timer.Summary())
	}
	return res, nil
}

// prettyOptions reads the rendering flags; colour is decided for out.
func prettyOptions(cmd *cobra.Command, out *os.File) (diagfmt.PrettyOpts, error) {
	pathFlag, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return diagfmt.PrettyOpts{}, err
	}
	pathMode, ok := diagfmt.ParsePathMode(pathFlag)
	if !ok {
		return diagfmt.PrettyOpts{}, fmt.Errorf("invalid --path-mode value %q", pathFlag)
	}
	ctxLines, err := cmd.Flags().GetInt8("context")
	if err != nil {
		return diagfmt.PrettyOpts{}, err
	}
	notes, err := cmd.Flags().GetBool("notes")
	if err != nil {
		return diagfmt.PrettyOpts{}, err
	}
	return diagfmt.PrettyOpts{
		Color:     colorFor(out),
		Context:   ctxLines,
		PathMode:  pathMode,
		ShowNotes: notes,
	}, nil
}

// colorFor applies --color to f; auto also requires f to be a terminal.
func colorFor(f *os.File) bool {
	value, err := rootCmd.PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	useColor, err := readColorMode(value, isTerminal(f))
	return err == nil && useColor
}

// errDiagnostics reports that diagnostics were printed and the command failed.
type errDiagnostics struct{ errors int }

func (e errDiagnostics) Error() string {
	if e.errors == 1 {
		return "compilation failed with 1 error"
	}
	return fmt.Sprintf("compilation failed with %d errors", e.errors)
}

func countErrors(res *driver.Result) int {
	n := 0
	for _, d := range res.Bag.Items() {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}
