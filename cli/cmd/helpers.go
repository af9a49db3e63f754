package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/glyphcast/adapter"
	redisadapter "github.com/justapithecus/glyphcast/adapter/redis"
	"github.com/justapithecus/glyphcast/adapter/webhook"
	"github.com/justapithecus/glyphcast/cli/config"
	"github.com/justapithecus/glyphcast/store"
	"github.com/justapithecus/glyphcast/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUsage     = 1
	exitIntegrity = 2
)

// loadConfig loads the optional config file and applies flag
// overrides. Flags always win over config values.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, cli.Exit(err.Error(), exitUsage)
		}
		cfg = loaded
	}

	if c.IsSet("profile") {
		cfg.Profile = c.String("profile")
	}
	if c.IsSet("max-chars") {
		cfg.MaxChars = c.Int("max-chars")
	}
	if c.IsSet("media") {
		cfg.Media = c.String("media")
	}
	if c.IsSet("session-file") {
		cfg.Session.File = c.String("session-file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}
	return cfg, nil
}

// resolveMedia returns the configured media tag, defaulting to image.
func resolveMedia(cfg *config.Config) (types.MediaType, error) {
	if cfg.Media == "" {
		return types.MediaImage, nil
	}
	media, ok := types.ParseMediaType(cfg.Media)
	if !ok {
		return "", cli.Exit(fmt.Sprintf("invalid media type %q (must be I, A, or V)", cfg.Media), exitUsage)
	}
	return media, nil
}

// readInput reads the payload from --in or stdin.
func readInput(c *cli.Context) ([]byte, error) {
	if path := c.String("in"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("cannot read input file: %v", err), exitUsage)
		}
		return data, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("cannot read stdin: %v", err), exitUsage)
	}
	return data, nil
}

// writeOutput writes data to --out or the app writer.
func writeOutput(c *cli.Context, data []byte) error {
	if path := c.String("out"); path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return cli.Exit(fmt.Sprintf("cannot write output file: %v", err), exitUsage)
		}
		return nil
	}
	_, err := c.App.Writer.Write(data)
	return err
}

// newAdapter builds the configured outbound adapter. A nil adapter
// with nil error means no adapter is configured.
func newAdapter(cfg *config.Config) (adapter.Adapter, error) {
	switch cfg.Adapter.Kind {
	case "":
		return nil, nil
	case "redis":
		return redisadapter.New(redisadapter.Config{
			URL:     cfg.Adapter.Redis.URL,
			Channel: cfg.Adapter.Redis.Channel,
			Timeout: cfg.Adapter.Redis.Timeout.Duration,
			Retries: cfg.Adapter.Redis.Retries,
		})
	case "webhook":
		return webhook.New(webhook.Config{
			URL:     cfg.Adapter.Webhook.URL,
			Headers: cfg.Adapter.Webhook.Headers,
			Timeout: cfg.Adapter.Webhook.Timeout.Duration,
			Retries: cfg.Adapter.Webhook.Retries,
		})
	default:
		return nil, cli.Exit(fmt.Sprintf("unknown adapter kind %q", cfg.Adapter.Kind), exitUsage)
	}
}

// newStore builds the configured payload store. A nil store with nil
// error means no storage backend is configured.
func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "":
		return nil, nil
	case "file":
		dir := cfg.Storage.Path
		if dir == "" {
			dir = "."
		}
		return store.NewFileStore(dir)
	case "s3":
		return store.NewS3Store(ctx, store.S3Config{
			Bucket:       cfg.Storage.Bucket,
			Prefix:       cfg.Storage.Prefix,
			Region:       cfg.Storage.Region,
			Endpoint:     cfg.Storage.Endpoint,
			UsePathStyle: cfg.Storage.S3PathStyle,
		})
	default:
		return nil, cli.Exit(fmt.Sprintf("unknown storage backend %q", cfg.Storage.Backend), exitUsage)
	}
}
