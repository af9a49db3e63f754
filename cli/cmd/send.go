package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/glyphcast/adapter"
	"github.com/justapithecus/glyphcast/alphabet"
	"github.com/justapithecus/glyphcast/codec"
	"github.com/justapithecus/glyphcast/log"
	"github.com/justapithecus/glyphcast/types"
	"github.com/justapithecus/glyphcast/volume"
)

// SendCommand returns the send command.
// Send encodes a payload and publishes each volume through the
// configured adapter instead of printing wire text.
func SendCommand() *cli.Command {
	return &cli.Command{
		Name:   "send",
		Usage:  "Encode a payload and publish its volumes via the configured adapter",
		Flags:  append(TransportFlags(), InFlag),
		Action: sendAction,
	}
}

func sendAction(c *cli.Context) error {
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

	pub, err := newAdapter(cfg)
	if err != nil {
		return err
	}
	if pub == nil {
		return cli.Exit("send requires a configured adapter (adapter.kind)", exitUsage)
	}
	defer pub.Close()

	data, err := readInput(c)
	if err != nil {
		return err
	}

	symbols := codec.New(alphabet.New()).Encode(data)
	vols, err := volume.ChunkVolumes(media, symbols, maxChars)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessionID := uuid.NewString()
	logger := log.NewLogger(sessionID, media)

	for _, v := range vols {
		msg := &adapter.VolumeMessage{
			FormatVersion: types.Version,
			SessionID:     sessionID,
			Media:         string(media),
			Total:         v.Total,
			Index:         v.Index,
			Body:          v.Wire(),
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
		}
		if err := pub.Publish(ctx, msg); err != nil {
			logger.Error("volume publish failed", map[string]any{"index": v.Index, "error": err.Error()})
			return cli.Exit(fmt.Sprintf("publish volume %d/%d: %v", v.Index, v.Total, err), exitUsage)
		}
		logger.Info("volume published", map[string]any{"index": v.Index, "total": v.Total})
	}

	fmt.Fprintf(c.App.Writer, "published %d volumes (session %s)\n", len(vols), sessionID)
	return nil
}
