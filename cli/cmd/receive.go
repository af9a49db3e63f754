package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/glyphcast/alphabet"
	"github.com/justapithecus/glyphcast/cli/config"
	"github.com/justapithecus/glyphcast/cli/render"
	"github.com/justapithecus/glyphcast/cli/tui"
	"github.com/justapithecus/glyphcast/log"
	"github.com/justapithecus/glyphcast/metrics"
	"github.com/justapithecus/glyphcast/session"
	"github.com/justapithecus/glyphcast/volume"
)

// ReceiveCommand returns the receive command.
// Receive scans noisy text for volumes and accumulates them in a
// session. With --session-file the chunk set survives across
// invocations, so a transmission can arrive one paste at a time.
func ReceiveCommand() *cli.Command {
	return &cli.Command{
		Name:  "receive",
		Usage: "Scan text for glyph volumes and accumulate them toward reassembly",
		Flags: []cli.Flag{
			ConfigFlag,
			SessionFileFlag,
			InFlag,
			OutFlag,
			FormatFlag,
			TUIFlag,
		},
		Action: receiveAction,
	}
}

func receiveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	alpha := alphabet.New()
	collector := metrics.NewCollector("")
	sess, err := session.New(session.Config{
		Alphabet: alpha,
		MaxTotal: cfg.Session.MaxTotal,
		Metrics:  collector,
	})
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	if cfg.Session.File != "" {
		snap, err := session.LoadFile(cfg.Session.File)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// First invocation, fresh session.
		case err != nil:
			return cli.Exit(fmt.Sprintf("cannot load session file: %v", err), exitUsage)
		default:
			if err := sess.Restore(snap); err != nil {
				return cli.Exit(fmt.Sprintf("cannot restore session: %v", err), exitUsage)
			}
		}
	}

	logger := log.NewLogger(sess.ID(), sess.Media())

	text, err := readInput(c)
	if err != nil {
		return err
	}

	vols := volume.NewExtractor(alpha, collector).Extract(string(text))
	outcome := sess.InsertAll(vols)
	logger.Info("volumes merged", map[string]any{
		"extracted":  len(vols),
		"accepted":   outcome.Accepted,
		"duplicates": outcome.Duplicates,
		"rejected":   outcome.Rejected,
	})

	var payload []byte
	have, total := sess.Progress()
	if total > 0 && have == total {
		payload, err = sess.TryReassemble()
		if err != nil {
			var incomplete *session.IncompleteError
			if !errors.As(err, &incomplete) {
				_ = saveSession(cfg, sess)
				return cli.Exit(fmt.Sprintf("reassembly failed: %v", err), exitIntegrity)
			}
		}
	}

	if err := saveSession(cfg, sess); err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	if payload != nil {
		if err := deliverPayload(c, cfg, sess, payload, logger); err != nil {
			return err
		}
	}

	status := sessionStatus(sess, outcome, collector)
	if c.Bool("tui") {
		return tui.RunStatusTUI(status)
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	return r.Render(status)
}

// saveSession persists the chunk set when a session file is
// configured.
func saveSession(cfg *config.Config, sess *session.Session) error {
	if cfg.Session.File == "" {
		return nil
	}
	if err := sess.Snapshot().SaveFile(cfg.Session.File); err != nil {
		return fmt.Errorf("cannot save session file: %w", err)
	}
	return nil
}

// deliverPayload writes a completed payload to --out and the
// configured storage backend.
func deliverPayload(c *cli.Context, cfg *config.Config, sess *session.Session, payload []byte, logger *log.Logger) error {
	if path := c.String("out"); path != "" {
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return cli.Exit(fmt.Sprintf("cannot write payload: %v", err), exitUsage)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	if st == nil {
		return nil
	}

	name := fmt.Sprintf("glyphcast-%s.%s.bin", sess.ID(), strings.ToLower(string(sess.Media())))
	if err := st.Put(ctx, name, payload); err != nil {
		return cli.Exit(fmt.Sprintf("cannot store payload: %v", err), exitUsage)
	}
	logger.Info("payload stored", map[string]any{"name": name, "bytes": len(payload)})
	return nil
}

// sessionStatus assembles the status payload shared by receive and
// status views.
func sessionStatus(sess *session.Session, outcome session.InsertOutcome, collector *metrics.Collector) tui.Status {
	have, total := sess.Progress()
	status := tui.Status{
		SessionID:  sess.ID(),
		State:      string(sess.State()),
		Media:      string(sess.Media()),
		Have:       have,
		Total:      total,
		Missing:    sess.Missing(),
		Accepted:   outcome.Accepted,
		Duplicates: outcome.Duplicates,
		Rejected:   outcome.Rejected,
	}
	if collector != nil {
		snap := collector.Snapshot()
		status.Rejected = int(snap.MalformedSegments + snap.UnknownMedia + snap.ChecksumRejected +
			snap.IndexRejected + snap.InconsistentRejected)
	}
	return status
}
