// Package cmd implements the CLI command structure for tasklist.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// stdout receives command output. Tests replace it.
var stdout io.Writer = os.Stdout

// Run executes the tasklist CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Without a subcommand, open the TUI on a terminal and list otherwise.
	subcommand := "ls"
	if ui.IsTTY(os.Stdout) {
		subcommand = "tui"
	}
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, remainingArgs)
	case "day":
		return dayCommand(ctx, cfg, remainingArgs)
	case "cal":
		return calCommand(ctx, cfg, remainingArgs)
	case "done", "toggle":
		return doneCommand(ctx, cfg, remainingArgs)
	case "rm", "remove":
		return rmCommand(ctx, cfg, remainingArgs)
	case "memo":
		return memoCommand(ctx, cfg, remainingArgs)
	case "export":
		return exportCommand(ctx, cfg, remainingArgs)
	case "import":
		return importCommand(ctx, cfg, remainingArgs)
	case "validate":
		return validateCommand(cfg, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

func versionCommand() error {
	fmt.Fprintf(stdout, "tasklist version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasklist - a small task list with priorities, dates and memos")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasklist [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                       Launch the terminal UI (default on a terminal)")
	fmt.Fprintln(w, "  add [-p prio] [-d date] text")
	fmt.Fprintln(w, "                            Add a task (text is 1-15 characters)")
	fmt.Fprintln(w, "  ls                        List tasks (default when not on a terminal)")
	fmt.Fprintln(w, "  day [date]                List the tasks due on a day (default today)")
	fmt.Fprintln(w, "  cal [YYYY-MM]             Show a month with the days that have tasks")
	fmt.Fprintln(w, "  done id...                Toggle the completed flag")
	fmt.Fprintln(w, "  rm id...                  Remove tasks")
	fmt.Fprintln(w, "  memo id [text]            Set a task's memo (no text clears it)")
	fmt.Fprintln(w, "  export file               Export tasks to a JSON file (- for stdout)")
	fmt.Fprintln(w, "  import file               Replace all tasks with a JSON export")
	fmt.Fprintln(w, "  validate [file]           Check a JSON export against the schema")
	fmt.Fprintln(w, "  tail                      Tail the latest session journal")
	fmt.Fprintln(w, "  config                    Show the effective configuration")
	fmt.Fprintln(w, "  version                   Show version information")
	fmt.Fprintln(w, "  help                      Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -sort string")
	fmt.Fprintln(w, "        Sort: default, priority, completed, date")
	fmt.Fprintln(w, "  -filter string")
	fmt.Fprintln(w, "        Filter: all, completed, incomplete")
	fmt.Fprintln(w, "  -v    Show memos")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the journal (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -list")
	fmt.Fprintln(w, "        List session journals instead")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s\n", strings.Join(config.EnvVars(), ", "))
}
