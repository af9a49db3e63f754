package cmd

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/glyphcast/alphabet"
	"github.com/justapithecus/glyphcast/codec"
	"github.com/justapithecus/glyphcast/volume"
)

// EncodeCommand returns the encode command.
// Encode turns a binary payload into pasteable wire volumes, one per
// output line.
func EncodeCommand() *cli.Command {
	return &cli.Command{
		Name:   "encode",
		Usage:  "Encode a binary payload into glyph volumes",
		Flags:  append(TransportFlags(), InFlag, OutFlag),
		Action: encodeAction,
	}
}

func encodeAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	media, err := resolveMedia(cfg)
	if err != nil {
		return err
	}
	maxChars, err := cfg.ResolveMaxChars()
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	data, err := readInput(c)
	if err != nil {
		return err
	}

	symbols := codec.New(alphabet.New()).Encode(data)
	wires, err := volume.Chunk(media, symbols, maxChars)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	var b strings.Builder
	for _, w := range wires {
		b.WriteString(w)
		b.WriteByte('\n')
	}
	return writeOutput(c, []byte(b.String()))
}
