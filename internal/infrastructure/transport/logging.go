package transport

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/execution-hub/witnessrep/internal/domain/transport"
)

// RunLogged wraps a transport.Port with zerolog debug spans around every
// operation, in the same request-scoped-logger style the rest of this
// service uses for its handlers and background workers.
type RunLogged struct {
	Port   transport.Port
	Logger zerolog.Logger
}

func (l RunLogged) SendAnnounce(ctx context.Context, runIndex int, channelPubkey string) error {
	err := l.Port.SendAnnounce(ctx, runIndex, channelPubkey)
	l.Logger.Debug().Int("run", runIndex).Str("channel", channelPubkey).Err(err).Msg("transport: announce")
	return err
}

func (l RunLogged) Subscribe(ctx context.Context, runIndex int, announcer, subscriber string) error {
	err := l.Port.Subscribe(ctx, runIndex, announcer, subscriber)
	l.Logger.Debug().Int("run", runIndex).Str("announcer", announcer).Str("subscriber", subscriber).Err(err).Msg("transport: subscribe")
	return err
}

func (l RunLogged) SendKeyloadForEveryone(ctx context.Context, runIndex int, owner string) error {
	err := l.Port.SendKeyloadForEveryone(ctx, runIndex, owner)
	l.Logger.Debug().Int("run", runIndex).Str("owner", owner).Err(err).Msg("transport: keyload")
	return err
}

func (l RunLogged) PublishSignedPacket(ctx context.Context, runIndex int, publisher string, payload []byte) error {
	err := l.Port.PublishSignedPacket(ctx, runIndex, publisher, payload)
	l.Logger.Debug().Int("run", runIndex).Str("publisher", publisher).Int("bytes", len(payload)).Err(err).Msg("transport: publish")
	return err
}

func (l RunLogged) FetchNextMsgs(ctx context.Context, runIndex int, subscriber string) ([]transport.UnwrappedMessage, error) {
	msgs, err := l.Port.FetchNextMsgs(ctx, runIndex, subscriber)
	l.Logger.Debug().Int("run", runIndex).Str("subscriber", subscriber).Int("count", len(msgs)).Err(err).Msg("transport: fetch")
	return msgs, err
}
