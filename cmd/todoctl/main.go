package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/todolist/todo-service/internal/todo"
	"github.com/todolist/todo-service/internal/todo/client"
	"github.com/todolist/todo-service/pkg/logger"
)

func main() {
	defaults, err := loadSettings(configPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	server := flag.String("server", defaults.Server, "base URL of the todo service (TODO_SERVER)")
	timeout := flag.Duration("timeout", defaults.Timeout, "per-command timeout")
	flag.Parse()

	// keep cache warnings off the table output
	logger.SetOutput(os.Stderr, true)
	logger.Init(envOr("LOG_LEVEL", "error"))

	args := flag.Args()
	if len(args) == 0 {
		printHelp(os.Stderr)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	code := run(ctx, client.NewCache(client.New(*server)), args, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run dispatches a subcommand and returns an exit code (0 ok, 1 error, 2 usage).
func run(ctx context.Context, cache *client.Cache, args []string, stdout, stderr io.Writer) int {
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		printHelp(stdout)
		return 0
	case "ls", "list", "add", "toggle", "done", "rm":
	default:
		fmt.Fprintf(stderr, "unknown subcommand: %s\n\n", cmd)
		printHelp(stderr)
		return 2
	}

	if cmd == "add" && len(a) == 0 {
		fmt.Fprintln(stderr, "usage: todoctl add <text...>")
		return 2
	}
	if (cmd == "toggle" || cmd == "done" || cmd == "rm") && len(a) != 1 {
		fmt.Fprintf(stderr, "usage: todoctl %s <id|index>\n", cmd)
		return 2
	}

	if err := cache.Load(ctx); err != nil {
		fmt.Fprintf(stderr, "load: %v\n", err)
		return 1
	}

	switch cmd {
	case "add":
		created, err := cache.Add(ctx, strings.Join(a, " "))
		if err != nil {
			fmt.Fprintf(stderr, "add: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "added %s\n", created.ID)
	case "toggle", "done":
		id, ok := resolveID(cache.Items(), a[0])
		if !ok {
			fmt.Fprintf(stderr, "%s: no todo %q\n", cmd, a[0])
			return 1
		}
		if err := cache.Toggle(ctx, id); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
			return 1
		}
	case "rm":
		id, ok := resolveID(cache.Items(), a[0])
		if !ok {
			fmt.Fprintf(stderr, "rm: no todo %q\n", a[0])
			return 1
		}
		if err := cache.Remove(ctx, id); err != nil {
			fmt.Fprintf(stderr, "rm: %v\n", err)
			return 1
		}
	}

	printList(stdout, cache.Items())
	return 0
}

// resolveID accepts either a record id or a 1-based position in the listing.
func resolveID(items []todo.Todo, arg string) (string, bool) {
	for _, t := range items {
		if t.ID == arg {
			return t.ID, true
		}
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(items) {
		return items[n-1].ID, true
	}
	return "", false
}

func printList(w io.Writer, items []todo.Todo) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no todos yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDONE\tTEXT\tCREATED\tID")
	for i, t := range items {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(tw, "%d\t[%s]\t%s\t%s\t%s\n", i+1, mark, t.Text, t.CreatedAt.Local().Format("2006-01-02 15:04"), t.ID)
	}
	_ = tw.Flush()
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `todoctl - command line client for the todo service

Usage:
  todoctl [-server URL] [-timeout 10s] <subcommand> [args]

Defaults are read from $TODOCTL_CONFIG or <config dir>/todoctl/config.toml
(keys: server, timeout), then TODO_SERVER.

Subcommands:
  ls                 List todos, newest first
  add <text...>      Add a todo (text can be multiple words)
  toggle <id|index>  Flip the completed flag
  rm <id|index>      Delete a todo

Examples:
  todoctl add "Buy milk"
  todoctl toggle 1
  todoctl -server http://todo.internal:5000 ls
`)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
