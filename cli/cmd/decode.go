package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/glyphcast/alphabet"
	"github.com/justapithecus/glyphcast/metrics"
	"github.com/justapithecus/glyphcast/session"
	"github.com/justapithecus/glyphcast/volume"
)

// DecodeCommand returns the decode command.
// Decode is the one-shot counterpart of receive: it expects the
// complete transmission in a single input and recovers the payload.
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:   "decode",
		Usage:  "Extract glyph volumes from text and recover the payload",
		Flags:  []cli.Flag{ConfigFlag, InFlag, OutFlag},
		Action: decodeAction,
	}
}

func decodeAction(c *cli.Context) error {
	if _, err := loadConfig(c); err != nil {
		return err
	}

	text, err := readInput(c)
	if err != nil {
		return err
	}

	alpha := alphabet.New()
	sess, err := session.New(session.Config{Alphabet: alpha})
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	collector := metrics.NewCollector(sess.ID())
	vols := volume.NewExtractor(alpha, collector).Extract(string(text))
	if len(vols) == 0 {
		return cli.Exit("no volumes found in input", exitIntegrity)
	}

	sess.InsertAll(vols)
	payload, err := sess.TryReassemble()
	if err != nil {
		var incomplete *session.IncompleteError
		if errors.As(err, &incomplete) {
			return cli.Exit(fmt.Sprintf("%v (missing: %v)", incomplete, sess.Missing()), exitIntegrity)
		}
		return cli.Exit(fmt.Sprintf("reassembly failed: %v", err), exitIntegrity)
	}

	return writeOutput(c, payload)
}
