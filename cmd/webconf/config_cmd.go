// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yektour/webconf/internal/config"
	"github.com/yektour/webconf/internal/log"
	"github.com/yektour/webconf/internal/theme"
)

func runConfigCLI(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printConfigUsage(stderr)
		return exitUsage
	}

	// Subcommands log only problems, and only to stderr.
	log.Configure(log.Config{Level: "warn", Format: "console", Output: stderr, Service: "webconf", Version: version})

	switch args[0] {
	case "validate":
		return runConfigValidate(ctx, args[1:], stdout, stderr)
	case "dump":
		return runConfigDump(ctx, args[1:], stdout, stderr)
	case "diff":
		return runConfigDiff(ctx, args[1:], stdout, stderr)
	case "init":
		return runConfigInit(args[1:], stdout, stderr)
	case "theme":
		return runConfigTheme(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printConfigUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown config command: %s\n", args[0])
		printConfigUsage(stderr)
		return exitUsage
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  webconf config validate [-app app.yaml] [-theme theme.yaml] [-watch]")
	fmt.Fprintln(w, "  webconf config dump [-app app.yaml] [-theme theme.yaml] [-format yaml|json]")
	fmt.Fprintln(w, "  webconf config diff OLD_APP NEW_APP")
	fmt.Fprintln(w, "  webconf config init -dir DIR [-force]")
	fmt.Fprintln(w, "  webconf config theme [-app app.yaml] [-theme theme.yaml] [-strict]")
}

// newFlagSet returns a flag set that reports to stderr and never exits.
func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("config "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseFlags maps flag errors to exit codes; ok is false when the caller
// should return code.
func parseFlags(fs *flag.FlagSet, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK, false
		}
		return exitUsage, false
	}
	return exitOK, true
}

// load reads the configuration named by files and prints a readable error.
func load(ctx context.Context, files fileFlags, stderr io.Writer) (*config.Config, *config.Loader, bool) {
	files = files.resolve()
	loader := config.NewLoader(files.app, files.theme)
	cfg, err := loader.LoadContext(ctx)
	if err != nil {
		printConfigError(stderr, describe(files.app), err)
		return nil, loader, false
	}
	return cfg, loader, true
}

func describe(path string) string {
	if path == "" {
		return "built-in defaults"
	}
	return path
}

// printConfigError lists each failing field on its own line.
func printConfigError(w io.Writer, source string, err error) {
	fmt.Fprintf(w, "Configuration error in %s:\n", source)
	var ve config.ValidationError
	if errors.As(err, &ve) {
		for _, e := range ve.Errors() {
			fmt.Fprintf(w, "  %s: %s\n", e.Field, e.Message)
		}
		return
	}
	fmt.Fprintf(w, "  %v\n", err)
}

func runConfigValidate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("validate", stderr)
	var files fileFlags
	files.register(fs)
	watch := fs.Bool("watch", false, "keep running and re-validate when the files change")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return exitUsage
	}

	cfg, loader, ok := load(ctx, files, stderr)
	if !ok && !*watch {
		return exitConfig
	}
	appPath, _ := loader.Paths()
	if ok {
		fmt.Fprintf(stdout, "✓ %s is valid (fingerprint %s)\n", describe(appPath), cfg.Fingerprint())
	}
	if !*watch {
		return exitOK
	}

	w := config.NewWatcher(loader, config.NewHolder(cfg))
	w.OnReload(func(next *config.Config, err error) {
		if err != nil {
			printConfigError(stderr, describe(appPath), err)
			return
		}
		fmt.Fprintf(stdout, "✓ %s is valid (fingerprint %s)\n", describe(appPath), next.Fingerprint())
	})
	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "Watch failed: %v\n", err)
		return exitConfig
	}
	return exitOK
}

func runConfigDump(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("dump", stderr)
	var files fileFlags
	files.register(fs)
	format := fs.String("format", "yaml", "output format: yaml or json")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	switch *format {
	case "yaml", "json":
	default:
		fmt.Fprintf(stderr, "Unsupported format: %s (use yaml or json)\n", *format)
		return exitUsage
	}

	cfg, _, ok := load(ctx, files, stderr)
	if !ok {
		return exitConfig
	}

	doc := cfg.Document()
	doc.App.Env = config.MaskEnv(doc.App.Env)

	if *format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			fmt.Fprintf(stderr, "Failed to encode config: %v\n", err)
			return exitConfig
		}
		return exitOK
	}

	data, err := config.MarshalYAML(doc)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to encode config: %v\n", err)
		return exitConfig
	}
	_, _ = stdout.Write(data)
	return exitOK
}

// runConfigDiff compares two app files. Each file resolves its own theme
// through themeModule.optionsPath.
func runConfigDiff(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("diff", stderr)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "diff needs exactly two app files")
		printConfigUsage(stderr)
		return exitUsage
	}

	oldCfg, _, ok := load(ctx, fileFlags{app: fs.Arg(0)}, stderr)
	if !ok {
		return exitConfig
	}
	newCfg, _, ok := load(ctx, fileFlags{app: fs.Arg(1)}, stderr)
	if !ok {
		return exitConfig
	}

	summary := config.Diff(oldCfg, newCfg)
	if !summary.Changed() {
		fmt.Fprintln(stdout, "No changes.")
		return exitOK
	}
	fmt.Fprintf(stdout, "%d field(s) changed:\n", len(summary.ChangedFields))
	for _, f := range summary.ChangedFields {
		fmt.Fprintf(stdout, "  %s\n", f)
	}
	fmt.Fprintln(stdout)
	fmt.Fprint(stdout, summary.Report)
	return exitOK
}

func runConfigInit(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("init", stderr)
	dir := fs.String("dir", "", "directory to write app.yaml and the theme file into")
	force := fs.Bool("force", false, "overwrite existing files")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if strings.TrimSpace(*dir) == "" {
		fmt.Fprintln(stderr, "init needs -dir")
		return exitUsage
	}

	cfg := config.Default()
	m := config.NewManager(*dir)
	appPath, themePath := m.Paths(cfg)
	if !*force {
		for _, p := range []string{appPath, themePath} {
			if _, err := os.Stat(p); err == nil {
				fmt.Fprintf(stderr, "%s already exists (use -force to overwrite)\n", p)
				return exitConfig
			}
		}
	}
	if err := m.Save(cfg); err != nil {
		fmt.Fprintf(stderr, "Failed to write config: %v\n", err)
		return exitConfig
	}
	fmt.Fprintf(stdout, "Wrote %s and %s\n", filepath.Clean(appPath), filepath.Clean(themePath))
	return exitOK
}

func runConfigTheme(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("theme", stderr)
	var files fileFlags
	files.register(fs)
	strict := fs.Bool("strict", false, "fail when any contrast warning is reported")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	cfg, _, ok := load(ctx, files, stderr)
	if !ok {
		return exitConfig
	}

	opts := cfg.ThemeOptions()
	fmt.Fprintln(stdout, theme.Preview(opts))

	warnings := theme.ContrastWarnings(opts)
	if len(warnings) == 0 {
		fmt.Fprintln(stdout, "✓ all text/surface pairs meet the AA contrast ratio")
		return exitOK
	}
	fmt.Fprintf(stdout, "%d contrast warning(s):\n", len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(stdout, "  %s\n", w)
	}
	if *strict {
		return exitConfig
	}
	return exitOK
}
