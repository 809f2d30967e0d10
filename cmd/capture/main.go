package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/db"
	"github.com/hpungsan/capture/internal/exec"
	"github.com/hpungsan/capture/internal/logging"
	"github.com/hpungsan/capture/internal/mcp"
	"github.com/hpungsan/capture/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"note": true, "new": true, "quick": true, "tabs": true,
	"path": true, "open": true, "day": true, "days": true,
	"list": true, "search": true, "latest": true, "config": true,
	"serve": true, "tray": true, "mcp": true,
	"help": true,
}

// consoleCommands are long-running commands that also log to stderr.
var consoleCommands = map[string]bool{"serve": true, "tray": true}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	arg := args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___ __ _ _ __ | |_ _   _ _ __ ___
  / __/ _' | '_ \| __| | | | '__/ _ \
 | (_| (_| | |_) | |_| |_| | | |  __/
  \___\__,_| .__/ \__|\__,_|_|  \___|
           |_|

  Notes, screenshots and tabs into a dated Markdown journal

  Usage: capture <command> [options]
         capture --help

  MCP server mode requires piped input.`)
}

func main() {
	os.Exit(run(os.Args))
}

// run executes one invocation and returns the process exit code, so deferred
// cleanup finishes before main exits.
func run(args []string) int {
	// No args + interactive terminal → show banner and exit
	if len(args) < 2 && isTerminal() {
		printBanner()
		return 0
	}

	// Handle --help/--version before any setup
	if isHelpOrVersion(args) {
		app := newCLIApp(nil, nil, "")
		if err := app.Run(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	baseDir := config.BaseDir()
	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		return 1
	}

	cliMode := isCLIMode(args)

	// stdout belongs to the protocol in MCP mode, so logs go to the file only.
	var console io.Writer
	if cliMode && consoleCommands[args[1]] {
		console = os.Stderr
	}
	logCloser := logging.Setup(logging.Options{Level: cfg.LogLevel, Dir: config.StateDir(), Console: console})
	defer logCloser.Close()

	var database *sql.DB
	if d, err := db.Init(baseDir); err != nil {
		slog.Warn("capture index unavailable", "dir", baseDir, "error", err)
	} else {
		database = d
		defer database.Close()
	}

	deps := ops.NewDeps(database, exec.NewOSRunner())

	if cliMode {
		app := newCLIApp(deps, cfg, baseDir)
		if err := app.Run(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", args[1])
		fmt.Fprintf(os.Stderr, "Run 'capture --help' for usage.\n")
		return 1
	}

	// MCP server mode (default)
	if err := mcp.Run(deps, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
