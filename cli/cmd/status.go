package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/glyphcast/alphabet"
	"github.com/justapithecus/glyphcast/cli/render"
	"github.com/justapithecus/glyphcast/cli/tui"
	"github.com/justapithecus/glyphcast/session"
)

// StatusCommand returns the status command.
// Status is read-only: it reports the chunk set held in a session
// file without mutating it.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show reassembly progress for a session file",
		Flags: []cli.Flag{
			ConfigFlag,
			SessionFileFlag,
			FormatFlag,
			TUIFlag,
		},
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Session.File == "" {
		return cli.Exit("status requires a session file (--session-file)", exitUsage)
	}

	snap, err := session.LoadFile(cfg.Session.File)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cli.Exit(fmt.Sprintf("no session file at %s", cfg.Session.File), exitUsage)
		}
		return cli.Exit(fmt.Sprintf("cannot load session file: %v", err), exitUsage)
	}

	sess, err := session.New(session.Config{
		Alphabet: alphabet.New(),
		MaxTotal: cfg.Session.MaxTotal,
	})
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	if err := sess.Restore(snap); err != nil {
		return cli.Exit(fmt.Sprintf("cannot restore session: %v", err), exitUsage)
	}

	status := sessionStatus(sess, session.InsertOutcome{}, nil)
	if c.Bool("tui") {
		return tui.RunStatusTUI(status)
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	return r.Render(status)
}
