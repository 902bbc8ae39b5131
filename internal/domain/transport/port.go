// Package transport defines the Port the protocol driver speaks through. It
// is a pub/sub channel abstraction modeled on the original IOTA Streams
// transport: participants publish signed packets and announce/subscribe to
// each other's channels before exchanging them (spec.md §6).
package transport

import "context"

// UnwrappedMessage is a packet received off the wire: the raw bytes plus the
// multibase channel pubkey of whoever published it.
type UnwrappedMessage struct {
	SignerChannelPubkey string
	Payload             []byte
}

// Port is the transport seam the protocol driver and the verifier depend on.
// Every operation is scoped to a run index so a single process can simulate
// many independent interactions over one in-memory backing store without
// their channels colliding (spec.md §6, §9).
type Port interface {
	// SendAnnounce publishes an announcement for channelPubkey, making it
	// discoverable to subscribers within runIndex.
	SendAnnounce(ctx context.Context, runIndex int, channelPubkey string) error

	// Subscribe records that subscriberChannelPubkey wishes to receive
	// messages published on announcerChannelPubkey's channel.
	Subscribe(ctx context.Context, runIndex int, announcerChannelPubkey, subscriberChannelPubkey string) error

	// SendKeyloadForEveryone grants every subscriber recorded so far on
	// ownerChannelPubkey's channel access to subsequent publications. It
	// mirrors the original transport's keyload step; this Port's in-memory
	// adapter treats it as a no-op gate since there is no encryption layer
	// to key (spec.md §9 Open Questions).
	SendKeyloadForEveryone(ctx context.Context, runIndex int, ownerChannelPubkey string) error

	// PublishSignedPacket publishes payload on publisherChannelPubkey's
	// channel within runIndex.
	PublishSignedPacket(ctx context.Context, runIndex int, publisherChannelPubkey string, payload []byte) error

	// FetchNextMsgs drains and returns every message published since the
	// caller's last fetch on the channels it subscribes to. Messages from
	// one publisher come in publish order; messages from different
	// publishers are grouped by publisher, not interleaved by publish time.
	FetchNextMsgs(ctx context.Context, runIndex int, subscriberChannelPubkey string) ([]UnwrappedMessage, error)
}
