// Package adapter defines the outbound publishing boundary.
//
// Adapters relay produced volume strings to a transport bridge (a chat
// bot, a message queue consumer, a paste relay). The adapter owns
// delivery mechanics only; it gives no ordering or delivery guarantee,
// which the volume format itself is designed to survive.
package adapter

import "context"

// VolumeMessage is the payload published per volume.
type VolumeMessage struct {
	// FormatVersion is the glyphcast project version.
	FormatVersion string `json:"format_version"`
	// SessionID identifies the sending session.
	SessionID string `json:"session_id"`
	// Media is the transmission media tag (I, A, V).
	Media string `json:"media"`
	// Total is the transmission's volume count.
	Total int `json:"total"`
	// Index is this volume's 0-based position.
	Index int `json:"index"`
	// Body is the complete wire volume string, ready to paste.
	Body string `json:"body"`
	// Timestamp is the publish time in ISO 8601 UTC format.
	Timestamp string `json:"timestamp"`
}

// Adapter publishes volumes to a downstream transport bridge.
// Implementations must be safe for sequential reuse across one
// transmission.
type Adapter interface {
	// Publish sends one volume to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, msg *VolumeMessage) error

	// Close releases adapter resources.
	Close() error
}
