// Package main is the interactive MCP client CLI.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dimiro1/banner"
	"github.com/minhyannv/mcp-client-go/pkg/agent"
	configpkg "github.com/minhyannv/mcp-client-go/pkg/config"
	loggerpkg "github.com/minhyannv/mcp-client-go/pkg/logger"
)

// main is the program entry point.
func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	config, err := parseCLIConfig(args, errOut)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintln(errOut, usageLine)
		return 1
	case err != nil:
		_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	appLogger := newLogger(config, errOut)
	ctx := context.Background()
	app, err := agent.New(ctx, config,
		agent.WithLogger(appLogger),
		agent.WithToolHostStderr(errOut),
	)
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			loggerpkg.Warn(appLogger, "close tool host", err)
		}
	}()

	printBanner(out)
	if err := runREPL(ctx, app, replOptions{
		Verbose: config.Verbose,
		Logger:  appLogger,
	}, in, out); err != nil {
		_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(cfg configpkg.Config, w io.Writer) loggerpkg.Logger {
	if cfg.LogJSON {
		return loggerpkg.NewJSONLogger(w)
	}
	return loggerpkg.NewWriterLogger(w)
}

func printBanner(out io.Writer) {
	tpl := "{{ .Title \"MCP CLIENT\" \"\" 0 }}\n"
	banner.Init(out, true, false, bytes.NewBufferString(tpl))
}
