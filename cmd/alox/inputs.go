package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alox/internal/driver"
	"alox/internal/project"
)

// overrides are the command-line values that take precedence over the
// manifest. Zero values leave the manifest setting alone.
type overrides struct {
	jobs           int
	maxDiagnostics int
	noCache        bool
	clearCache     bool
	noOptimize     bool
	reachability   bool
}

// inputs is what a compile command works on.
type inputs struct {
	title  string
	files  []string
	config project.BuildConfig
}

// collectInputs uses explicit files when given, and the manifest found at or
// above dir otherwise.
func collectInputs(dir string, args []string) (inputs, error) {
	if len(args) > 0 {
		return inputs{
			title: "alox",
			files: args,
			config: project.BuildConfig{
				Optimize:       true,
				Cache:          true,
				MaxDiagnostics: project.DefaultMaxDiagnostics,
			},
		}, nil
	}
	m, ok, err := project.LoadManifest(dir)
	if err != nil {
		return inputs{}, err
	}
	if !ok {
		return inputs{}, fmt.Errorf("no input files given and no %s found", project.ManifestName)
	}
	files, err := m.ModuleFiles()
	if err != nil {
		return inputs{}, err
	}
	return inputs{title: m.Config.Package.Name, files: files, config: m.Config.Build}, nil
}

// request merges the build config with the command-line overrides.
func (in inputs) request(o overrides) driver.Request {
	cfg := in.config
	req := driver.Request{
		Files:          in.files,
		Jobs:           cfg.Jobs,
		Optimize:       cfg.Optimize && !o.noOptimize,
		Reachability:   cfg.Reachability || o.reachability,
		MaxDiagnostics: cfg.MaxDiagnostics,
	}
	if o.jobs > 0 {
		req.Jobs = o.jobs
	}
	if o.maxDiagnostics > 0 {
		req.MaxDiagnostics = o.maxDiagnostics
	}
	if !req.Optimize {
		req.Reachability = false
	}
	return req
}

func (in inputs) wantsCache(o overrides) bool {
	return in.config.Cache && !o.noCache
}

func readOverrides(cmd *cobra.Command) (overrides, error) {
	var o overrides
	var err error
	pf := cmd.Root().PersistentFlags()
	if o.jobs, err = pf.GetInt("jobs"); err != nil {
		return o, err
	}
	if o.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return o, err
	}
	if o.noCache, err = pf.GetBool("no-cache"); err != nil {
		return o, err
	}
	if o.clearCache, err = pf.GetBool("clear-cache"); err != nil {
		return o, err
	}
	if o.noOptimize, err = cmd.Flags().GetBool("no-optimize"); err != nil {
		return o, err
	}
	if o.reachability, err = cmd.Flags().GetBool("reachability"); err != nil {
		return o, err
	}
	if o.jobs < 0 || o.maxDiagnostics < 0 {
		return o, fmt.Errorf("--jobs and --max-diagnostics must not be negative")
	}
	return o, nil
}

// buildRequest assembles the driver request for cmd. An unavailable cache is
// reported and skipped.
func buildRequest(cmd *cobra.Command, args []string) (inputs, driver.Request, error) {
	o, err := readOverrides(cmd)
	if err != nil {
		return inputs{}, driver.Request{}, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return inputs{}, driver.Request{}, err
	}
	in, err := collectInputs(wd, args)
	if err != nil {
		return inputs{}, driver.Request{}, err
	}
	req := in.request(o)
	if in.wantsCache(o) {
		cache, err := driver.OpenDiskCache("alox")
		if err == nil {
			err = prepareCache(cache, o.clearCache)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: IR cache disabled: %v\n", err)
		} else {
			req.Cache = cache
		}
	}
	return in, req, nil
}

// prepareCache empties cache first when clear is set.
func prepareCache(cache *driver.DiskCache, clear bool) error {
	if !clear {
		return nil
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("cannot clear cache: %w", err)
	}
	return nil
}
