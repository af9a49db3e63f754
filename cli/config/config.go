// Package config handles YAML config file loading for the glyphcast
// CLI.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Default transport profile applied when neither a profile nor an
// explicit max_chars is configured.
const DefaultProfile = "chat"

// Profiles are the built-in transport character budgets. The budget
// selects how many volumes a payload produces; it is caller
// configuration, never negotiated on the wire.
var Profiles = map[string]int{
	"chat":  4000,
	"forum": 15000,
	"paste": 64000,
	"bulk":  200000,
}

// Config represents a glyphcast.yaml configuration file.
// All values are optional and act as defaults for CLI flags.
// CLI flags always override config values.
type Config struct {
	// Profile names a built-in character budget (chat, forum, paste,
	// bulk).
	Profile string `yaml:"profile"`
	// MaxChars overrides the profile with an explicit budget.
	MaxChars int `yaml:"max_chars"`
	// Media is the default media tag for encode/send (I, A, V).
	Media string `yaml:"media"`

	Session SessionConfig `yaml:"session"`
	Storage StorageConfig `yaml:"storage"`
	Adapter AdapterConfig `yaml:"adapter"`
}

// SessionConfig holds receive-session defaults.
type SessionConfig struct {
	// File is the snapshot path carrying the chunk set between
	// receive invocations.
	File string `yaml:"file"`
	// MaxTotal caps the accepted fragment count for a transmission.
	MaxTotal int `yaml:"max_total"`
}

// StorageConfig holds payload storage defaults.
type StorageConfig struct {
	// Backend selects "file" or "s3".
	Backend string `yaml:"backend"`
	// Path is the local directory for the file backend.
	Path string `yaml:"path"`
	// Bucket, Prefix, Region, Endpoint configure the s3 backend.
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// AdapterConfig selects and configures the outbound volume adapter.
type AdapterConfig struct {
	// Kind selects "redis", "webhook", or "" (print volumes only).
	Kind    string        `yaml:"kind"`
	Redis   RedisConfig   `yaml:"redis"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// RedisConfig holds redis adapter settings.
type RedisConfig struct {
	URL     string   `yaml:"url"`
	Channel string   `yaml:"channel"`
	Timeout Duration `yaml:"timeout"`
	Retries int      `yaml:"retries"`
}

// WebhookConfig holds webhook adapter settings.
type WebhookConfig struct {
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
	Timeout Duration          `yaml:"timeout"`
	Retries int               `yaml:"retries"`
}

// Duration wraps time.Duration for YAML string parsing.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// ResolveMaxChars returns the effective character budget: an explicit
// max_chars wins over a named profile, which falls back to
// DefaultProfile.
func (c *Config) ResolveMaxChars() (int, error) {
	if c.MaxChars != 0 {
		if c.MaxChars < 0 {
			return 0, fmt.Errorf("max_chars must be positive, got %d", c.MaxChars)
		}
		return c.MaxChars, nil
	}

	name := c.Profile
	if name == "" {
		name = DefaultProfile
	}
	budget, ok := Profiles[name]
	if !ok {
		return 0, fmt.Errorf("unknown profile %q (have: %s)", name, strings.Join(profileNames(), ", "))
	}
	return budget, nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if _, err := c.ResolveMaxChars(); err != nil {
		return err
	}

	switch c.Storage.Backend {
	case "", "file":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage backend s3 requires a bucket")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Adapter.Kind {
	case "":
	case "redis":
		if c.Adapter.Redis.URL == "" {
			return fmt.Errorf("adapter kind redis requires redis.url")
		}
	case "webhook":
		if c.Adapter.Webhook.URL == "" {
			return fmt.Errorf("adapter kind webhook requires webhook.url")
		}
	default:
		return fmt.Errorf("unknown adapter kind %q", c.Adapter.Kind)
	}

	if c.Session.MaxTotal < 0 {
		return fmt.Errorf("session.max_total must be >= 0, got %d", c.Session.MaxTotal)
	}
	return nil
}

func profileNames() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
