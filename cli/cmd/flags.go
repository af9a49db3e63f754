// Package cmd provides CLI commands for the glyphcast binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags.
var (
	// ConfigFlag points at a YAML config file. Flags override config
	// values.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file",
	}

	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// ProfileFlag selects a built-in character budget.
	ProfileFlag = &cli.StringFlag{
		Name:  "profile",
		Usage: "Transport profile: chat, forum, paste, bulk",
	}

	// MaxCharsFlag overrides the profile with an explicit budget.
	MaxCharsFlag = &cli.IntFlag{
		Name:  "max-chars",
		Usage: "Explicit per-message character budget (overrides --profile)",
	}

	// MediaFlag tags outgoing volumes with a media type.
	MediaFlag = &cli.StringFlag{
		Name:  "media",
		Usage: "Media type tag: I (image), A (audio), V (video)",
	}

	// InFlag reads input from a file instead of stdin.
	InFlag = &cli.StringFlag{
		Name:  "in",
		Usage: "Input file (default: stdin)",
	}

	// OutFlag writes output to a file instead of stdout.
	OutFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "Output file (default: stdout)",
	}

	// SessionFileFlag carries reassembly state across invocations.
	SessionFileFlag = &cli.StringFlag{
		Name:  "session-file",
		Usage: "Session snapshot file for incremental reassembly",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (status only)",
	}
)

// TransportFlags returns the flags shared by commands that produce
// volumes.
func TransportFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		ProfileFlag,
		MaxCharsFlag,
		MediaFlag,
	}
}
