package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	loggerpkg "github.com/minhyannv/mcp-client-go/pkg/logger"
	"github.com/minhyannv/mcp-client-go/pkg/tools"
)

// session is the part of agent.AgentLoop the REPL drives.
type session interface {
	Run(ctx context.Context, query string) (string, error)
	Tools() []tools.Descriptor
}

// replOptions configures REPL behavior.
type replOptions struct {
	Verbose bool
	Logger  loggerpkg.Logger
}

// runREPL reads queries until quit, exit or end of input.
func runREPL(ctx context.Context, app session, opts replOptions, in io.Reader, out io.Writer) error {
	if app == nil {
		return fmt.Errorf("session is required")
	}
	if in == nil {
		return fmt.Errorf("input reader is required")
	}
	if out == nil {
		out = io.Discard
	}

	loggerpkg.Debug(opts.Verbose, opts.Logger, "repl start", nil)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	printWelcome(out)

	for {
		_, _ = fmt.Fprint(out, "\nQuery: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if isExit(input) {
			break
		}

		if handleCommand(input, app, out) {
			continue
		}

		response, err := app.Run(ctx, input)
		if err != nil {
			_, _ = fmt.Fprintf(out, "\nError: %v\n", err)
			continue
		}
		_, _ = fmt.Fprintf(out, "\n%s\n", response)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func isExit(input string) bool {
	switch strings.ToLower(strings.TrimPrefix(input, "/")) {
	case "quit", "exit":
		return true
	}
	return false
}

func printWelcome(out io.Writer) {
	_, _ = fmt.Fprintln(out, "MCP Client Started!")
	_, _ = fmt.Fprintln(out, "Type your queries or 'quit' to exit. Type /help for commands.")
}

// handleCommand reports whether input was a REPL command. Anything else,
// including other text starting with "/", is a query for the agent.
func handleCommand(input string, app session, out io.Writer) bool {
	switch strings.ToLower(input) {
	case "/help", "/h":
		printHelp(out)
	case "/tools", "/t":
		printTools(app.Tools(), out)
	default:
		return false
	}
	return true
}

func printHelp(out io.Writer) {
	_, _ = fmt.Fprintln(out, "Commands:")
	_, _ = fmt.Fprintln(out, "  /help  - Show this help message")
	_, _ = fmt.Fprintln(out, "  /tools - List the tools offered by the server")
	_, _ = fmt.Fprintln(out, "  quit   - Exit the program (also /quit, exit, /exit)")
}

func printTools(descs []tools.Descriptor, out io.Writer) {
	if len(descs) == 0 {
		_, _ = fmt.Fprintln(out, "The server offers no tools.")
		return
	}
	_, _ = fmt.Fprintln(out, "Tools:")
	for _, d := range descs {
		if d.Description == "" {
			_, _ = fmt.Fprintf(out, "  %s\n", d.Name)
			continue
		}
		_, _ = fmt.Fprintf(out, "  %s - %s\n", d.Name, firstLine(d.Description))
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
