// SPDX-License-Identifier: MIT

// webconf loads, validates and serves the application and theme
// configuration of the Yektour front-end.
//
// Usage:
//
//	webconf [-app app.yaml] [-theme theme.yaml]
//	webconf config validate|dump|diff|init|theme ...
//	webconf -version
//
// Exit codes:
//   - 0: success
//   - 1: configuration error
//   - 2: usage error
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

const (
	exitOK     = 0
	exitConfig = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "config" {
		return runConfigCLI(ctx, args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("webconf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var files fileFlags
	files.register(fs)
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s (commit: %s, built: %s)\n", version, commit, buildDate)
		return exitOK
	}

	return serve(ctx, files.resolve(), stderr)
}

// fileFlags are the -app/-theme flags shared by every command.
type fileFlags struct {
	app   string
	theme string
}

func (f *fileFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.app, "app", "", "path to the app YAML file (default ./app.yaml when present)")
	fs.StringVar(&f.theme, "theme", "", "path to the theme YAML file (default: themeModule.optionsPath)")
}

// resolve applies the ./app.yaml fallback.
func (f fileFlags) resolve() fileFlags {
	f.app = strings.TrimSpace(f.app)
	f.theme = strings.TrimSpace(f.theme)
	if f.app == "" {
		if _, err := os.Stat(defaultAppFile); err == nil {
			f.app = defaultAppFile
		}
	}
	return f
}

const defaultAppFile = "app.yaml"
