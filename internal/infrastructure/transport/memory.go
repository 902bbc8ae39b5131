// Package transport provides in-process adapters for the
// internal/domain/transport.Port seam: a mutex-guarded in-memory pub/sub
// channel good enough to drive the whole simulation without a real IOTA
// Streams node (spec.md §6, §9 Open Questions).
package transport

import (
	"context"
	"sort"
	"sync"

	"github.com/execution-hub/witnessrep/internal/domain/simerr"
	"github.com/execution-hub/witnessrep/internal/domain/transport"
)

// runKey scopes every piece of state to a run index so many independent
// simulated interactions can share one MemoryChannel without their
// announcements, subscriptions, or messages colliding.
type runKey struct {
	runIndex int
	channel  string
}

// MemoryChannel is an in-process transport.Port. It is safe for concurrent
// use.
type MemoryChannel struct {
	mu            sync.Mutex
	announced     map[runKey]bool
	subscribers   map[runKey][]string   // runKey(owner) -> subscriber channel pubkeys
	published     map[runKey][]transport.UnwrappedMessage
	deliveredUpTo map[runKey]int // runKey(subscriber|publisher) -> count of that publisher's messages already fetched
}

// NewMemoryChannel constructs an empty MemoryChannel.
func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{
		announced:     make(map[runKey]bool),
		subscribers:   make(map[runKey][]string),
		published:     make(map[runKey][]transport.UnwrappedMessage),
		deliveredUpTo: make(map[runKey]int),
	}
}

func (m *MemoryChannel) SendAnnounce(ctx context.Context, runIndex int, channelPubkey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.announced[runKey{runIndex, channelPubkey}] = true
	return nil
}

func (m *MemoryChannel) Subscribe(ctx context.Context, runIndex int, announcerChannelPubkey, subscriberChannelPubkey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := runKey{runIndex, announcerChannelPubkey}
	if !m.announced[k] {
		return simerr.New(simerr.KindTransport, "MemoryChannel.Subscribe", errNotAnnounced(announcerChannelPubkey))
	}
	m.subscribers[k] = append(m.subscribers[k], subscriberChannelPubkey)
	return nil
}

// SendKeyloadForEveryone is a no-op gate: this adapter has no encryption
// layer to key, so every subscriber recorded so far is already entitled to
// read ownerChannelPubkey's publications (spec.md §9 Open Questions).
func (m *MemoryChannel) SendKeyloadForEveryone(ctx context.Context, runIndex int, ownerChannelPubkey string) error {
	return nil
}

func (m *MemoryChannel) PublishSignedPacket(ctx context.Context, runIndex int, publisherChannelPubkey string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := runKey{runIndex, publisherChannelPubkey}
	m.published[k] = append(m.published[k], transport.UnwrappedMessage{SignerChannelPubkey: publisherChannelPubkey, Payload: payload})
	return nil
}

// FetchNextMsgs returns every message published, since the subscriber's
// last fetch, on any channel it subscribes to. Delivery order follows
// publish order within each publisher, and publishers are visited in
// channel-pubkey order, so the result is deterministic; per-publisher read
// offsets are tracked instead of a merged feed.
func (m *MemoryChannel) FetchNextMsgs(ctx context.Context, runIndex int, subscriberChannelPubkey string) ([]transport.UnwrappedMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []runKey
	for k := range m.subscribers {
		if k.runIndex == runIndex {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].channel < keys[j].channel })

	var out []transport.UnwrappedMessage
	for _, k := range keys {
		subs := m.subscribers[k]
		subscribed := false
		for _, s := range subs {
			if s == subscriberChannelPubkey {
				subscribed = true
				break
			}
		}
		if !subscribed {
			continue
		}
		offsetKey := runKey{runIndex, subscriberChannelPubkey + "|" + k.channel}
		start := m.deliveredUpTo[offsetKey]
		msgs := m.published[k]
		if start < len(msgs) {
			out = append(out, msgs[start:]...)
			m.deliveredUpTo[offsetKey] = len(msgs)
		}
	}
	return out, nil
}

type errNotAnnounced string

func (e errNotAnnounced) Error() string {
	return "channel " + string(e) + " was never announced in this run"
}
