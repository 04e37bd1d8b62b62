package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ListProjects(ctx context.Context) error
	UseProject(ctx context.Context, arg string) error
	NewProject(ctx context.Context) error
	RenameProject(ctx context.Context) error
	Show(ctx context.Context, view string) error
	Ask(ctx context.Context, text string) error
	Stats(ctx context.Context) error
}

// scopedViews are the read-only project views, each backed by Show.
var scopedViews = []string{"orders", "messages", "integrations", "subscription", "usage", "products", "reports", "training"}

const (
	helpAnonymous     = "Available commands: login, help, exit"
	helpAuthenticated = "Available commands: whoami, projects, use <n|id>, newproject, renameproject, " +
		"orders, messages, integrations, subscription, usage, products, reports, training, ask <text>, stats, logout, help, exit"
)

// runREPL reads commands line by line and dispatches them to a, writing
// the prompt and its own messages to out. The prompt is rebuilt before
// every line, so a session that expired during the previous command shows
// up as "(not logged in)". The loop ends on
// EOF or "exit"/"quit".
//
// Command errors are printed and do not stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	say := func(args ...any) { fmt.Fprintln(out, args...) }
	report := func(err error) {
		if err != nil {
			say("error:", err)
		}
	}

	for {
		fmt.Fprintf(out, "sd %s> ", statusFn())
		// Commands read their own prompts from reader, so lines are taken
		// from it directly rather than through a buffering scanner.
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, rest := parts[0], strings.Join(parts[1:], " ")

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				say(helpAuthenticated)
			} else {
				say(helpAnonymous)
			}
			continue
		case "exit", "quit":
			say("Bye!")
			return
		case "login":
			report(a.Login(ctx))
			continue
		}

		if !a.isLoggedIn() {
			if isKnown(cmd) {
				say("Please log in first.")
			} else {
				say("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "logout":
			report(a.Logout(ctx))
		case "whoami":
			report(a.WhoAmI(ctx))
		case "projects":
			report(a.ListProjects(ctx))
		case "use":
			report(a.UseProject(ctx, rest))
		case "newproject":
			report(a.NewProject(ctx))
		case "renameproject":
			report(a.RenameProject(ctx))
		case "ask":
			report(a.Ask(ctx, rest))
		case "stats":
			report(a.Stats(ctx))
		default:
			if isView(cmd) {
				report(a.Show(ctx, cmd))
				continue
			}
			say("Unknown command:", cmd)
		}
	}
}

func isView(cmd string) bool {
	for _, v := range scopedViews {
		if v == cmd {
			return true
		}
	}
	return false
}

func isKnown(cmd string) bool {
	switch cmd {
	case "logout", "whoami", "projects", "use", "newproject", "renameproject", "ask", "stats":
		return true
	}
	return isView(cmd)
}

