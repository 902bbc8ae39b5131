package transport_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/execution-hub/witnessrep/internal/infrastructure/transport"
)

func TestSubscribeRequiresPriorAnnounce(t *testing.T) {
	ch := transport.NewMemoryChannel()
	err := ch.Subscribe(context.Background(), 0, "zOwner", "zSubscriber")
	require.Error(t, err)
}

func TestPublishAndFetchDeliversInOrder(t *testing.T) {
	ch := transport.NewMemoryChannel()
	ctx := context.Background()

	require.NoError(t, ch.SendAnnounce(ctx, 0, "zOwner"))
	require.NoError(t, ch.Subscribe(ctx, 0, "zOwner", "zSubscriber"))
	require.NoError(t, ch.SendKeyloadForEveryone(ctx, 0, "zOwner"))

	require.NoError(t, ch.PublishSignedPacket(ctx, 0, "zOwner", []byte("first")))
	require.NoError(t, ch.PublishSignedPacket(ctx, 0, "zOwner", []byte("second")))

	msgs, err := ch.FetchNextMsgs(ctx, 0, "zSubscriber")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, []byte("first"), msgs[0].Payload)
	require.Equal(t, []byte("second"), msgs[1].Payload)

	require.NoError(t, ch.PublishSignedPacket(ctx, 0, "zOwner", []byte("third")))
	msgs, err = ch.FetchNextMsgs(ctx, 0, "zSubscriber")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, []byte("third"), msgs[0].Payload)
}

func TestRunsAreIsolated(t *testing.T) {
	ch := transport.NewMemoryChannel()
	ctx := context.Background()

	require.NoError(t, ch.SendAnnounce(ctx, 0, "zOwner"))
	require.NoError(t, ch.Subscribe(ctx, 0, "zOwner", "zSubscriber"))
	require.NoError(t, ch.PublishSignedPacket(ctx, 0, "zOwner", []byte("run0")))

	// Same channel names, different run: no announce recorded for run 1.
	err := ch.Subscribe(ctx, 1, "zOwner", "zSubscriber")
	require.Error(t, err)
}
