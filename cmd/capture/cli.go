package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/errors"
	"github.com/hpungsan/capture/internal/mcp"
	"github.com/hpungsan/capture/internal/ops"
	"github.com/hpungsan/capture/internal/tray"
	"github.com/hpungsan/capture/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps *ops.Deps, cfg *config.Config, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "capture",
		Usage:   "Append notes, screenshots and browser tabs to a dated Markdown journal",
		Version: Version,
		Commands: []*cli.Command{
			noteCmd(deps, cfg),
			quickCmd(deps, cfg),
			tabsCmd(deps, cfg),
			pathCmd(deps, cfg),
			openCmd(deps, cfg),
			dayCmd(deps, cfg),
			daysCmd(deps, cfg),
			listCmd(deps),
			searchCmd(deps),
			latestCmd(deps),
			configCmd(cfg, baseDir),
			serveCmd(deps, cfg),
			trayCmd(deps, cfg),
			mcpCmd(deps, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// noteCmd creates the note command.
func noteCmd(deps *ops.Deps, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "note",
		Aliases:   []string{"new"},
		Usage:     "Append a capture to today's day file",
		ArgsUsage: "<summary>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "details", Aliases: []string{"d"}, Usage: "Details paragraph (\"-\" reads stdin)"},
			&cli.BoolFlag{Name: "screenshot", Aliases: []string{"s"}, Usage: "Capture every display"},
			&cli.BoolFlag{Name: "active-tab", Usage: "Record the browser's active tab"},
			&cli.BoolFlag{Name: "all-tabs", Usage: "Record every open browser tab"},
			&cli.StringSliceFlag{Name: "attach", Aliases: []string{"a"}, Usage: "File to copy into attachments (repeatable)"},
		},
		Action: func(c *cli.Context) error {
			summary := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if summary == "" {
				return outputError(errors.NewInvalidRequest("summary is required"))
			}

			input := ops.CaptureInput{
				Summary:     summary,
				Details:     c.String("details"),
				Attachments: c.StringSlice("attach"),
			}
			if input.Details == "-" {
				if !stdinHasData() {
					return outputError(errors.NewInvalidRequest("details must be piped via stdin when --details is -"))
				}
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.Details = text
			}
			input.TakeScreenshot = boolFlag(c, "screenshot")
			input.ActiveBrowserTab = boolFlag(c, "active-tab")
			input.AllBrowserTabs = boolFlag(c, "all-tabs")

			output, err := ops.Capture(c.Context, deps, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// quickCmd creates the quick command.
func quickCmd(deps *ops.Deps, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "quick",
		Usage: "Append a screenshot-only capture",
		Action: func(c *cli.Context) error {
			output, err := ops.QuickScreenshot(c.Context, deps, cfg)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// tabsCmd creates the tabs command.
func tabsCmd(deps *ops.Deps, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "tabs",
		Usage: "Show browser tabs without writing a capture",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "Every tab of every window"},
			&cli.StringFlag{Name: "browser", Aliases: []string{"b"}, Usage: "safari|brave|chrome (default: config)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Tabs(c.Context, deps, cfg, ops.TabsInput{
				All:     c.Bool("all"),
				Browser: c.String("browser"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// pathCmd creates the path command.
func pathCmd(deps *ops.Deps, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "Print today's day file, creating it if needed",
		Action: func(c *cli.Context) error {
			output, err := ops.Today(deps, cfg)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// openCmd creates the open command.
func openCmd(deps *ops.Deps, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Open today's day file or this month's folder",
		ArgsUsage: "[today|folder]",
		Action: func(c *cli.Context) error {
			output, err := ops.Open(c.Context, deps, cfg, ops.OpenTarget(c.Args().First()))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// dayCmd creates the day command.
func dayCmd(deps *ops.Deps, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "day",
		Usage:     "Read a day file and its captures",
		ArgsUsage: "[yyyy-mm-dd]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "raw", Usage: "Print the Markdown instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Day(deps, cfg, ops.DayInput{Date: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("raw") {
				_, err := io.WriteString(os.Stdout, output.Markdown)
				return err
			}
			return outputJSON(output)
		},
	}
}

// daysCmd creates the days command.
func daysCmd(deps *ops.Deps, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "days",
		Usage: "List day files, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultDaysLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Days(deps, cfg, ops.DaysInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List indexed captures, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "day", Usage: "Only captures from yyyy-mm-dd"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, deps.DB, ops.ListInput{
				Day:    c.String("day"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Full-text search over capture summaries and details",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Search(c.Context, deps.DB, ops.SearchInput{
				Query:  strings.Join(c.Args().Slice(), " "),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// latestCmd creates the latest command.
func latestCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "latest",
		Usage: "Get the most recent capture",
		Action: func(c *cli.Context) error {
			output, err := ops.Latest(c.Context, deps.DB)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// configCmd creates the config command with its show and set subcommands.
func configCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change settings",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Action: func(c *cli.Context) error {
					return outputJSON(cfg)
				},
			},
			{
				Name:      "set",
				Usage:     "Set one key: " + strings.Join(config.Keys, ", "),
				ArgsUsage: "<key> <value>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return outputError(errors.NewInvalidRequest("usage: capture config set <key> <value>"))
					}
					if err := config.Set(cfg, c.Args().Get(0), c.Args().Get(1)); err != nil {
						return outputError(errors.NewInvalidRequest(err.Error()))
					}
					if err := config.Save(baseDir, cfg); err != nil {
						return outputError(errors.NewInternal(err))
					}
					return outputJSON(cfg)
				},
			},
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(deps *ops.Deps, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Browse the journal in a local web viewer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to listen on"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default: config web_port)"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port == 0 {
				port = cfg.WebPort
			}
			srv, err := web.NewServer(deps, cfg, Version, c.String("bind"), port)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv)
		},
	}
}

// trayCmd creates the tray command.
func trayCmd(deps *ops.Deps, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "tray",
		Usage: "Run the menu-bar item and global hotkey",
		Action: func(c *cli.Context) error {
			app := tray.NewApp(deps, cfg, tray.NewDialog(deps.Runner))
			return tray.Run(c.Context, app)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(deps *ops.Deps, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve MCP over stdio",
		Action: func(c *cli.Context) error {
			return mcp.Run(deps, cfg, Version)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if cErr, ok := err.(*errors.CaptureError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", cErr.Code, cErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// boolFlag returns the flag's value when it was given on the command line, nil otherwise.
func boolFlag(c *cli.Context, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Bool(name)
	return &v
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
