// Package objectstore_test tests the NATS audio archive.
package objectstore_test

import (
	"context"
	"testing"

	"github.com/book-expert/voice-studio/internal/objectstore"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StartTestServer starts an in-memory NATS server with JetStream enabled.
func StartTestServer(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	opts.JetStream = true
	opts.StoreDir = t.TempDir()
	natsServer := test.RunServer(&opts)

	natsConnection, err := nats.Connect(natsServer.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	t.Cleanup(func() {
		natsConnection.Close()
		natsServer.Shutdown()
	})

	return natsServer, natsConnection
}

func newTestStore(t *testing.T, bucket string) (*objectstore.NatsObjectStore, nats.JetStreamContext) {
	t.Helper()

	_, natsConnection := StartTestServer(t)

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := objectstore.New(jetstreamContext, objectstore.Options{
		Bucket:   bucket,
		TTL:      0,
		MaxBytes: 0,
		Memory:   true,
	})
	require.NoError(t, err)

	return store, jetstreamContext
}

func TestNatsObjectStore_UploadDownload(t *testing.T) {
	t.Parallel()

	store, jetstreamContext := newTestStore(t, "voice-audio")
	ctx := context.Background()

	clip := []byte("RIFF....WAVEfmt ")

	require.NoError(t, store.Upload(ctx, "gen-1.wav", clip))

	downloaded, err := store.Download(ctx, "gen-1.wav")
	require.NoError(t, err)
	assert.Equal(t, clip, downloaded)

	raw, err := jetstreamContext.ObjectStore("voice-audio")
	require.NoError(t, err)

	info, err := raw.GetInfo("gen-1.wav")
	require.NoError(t, err)
	assert.Equal(t, objectstore.ContentTypeWAV, info.Headers.Get("Content-Type"))
	assert.Equal(t, "itts", info.Metadata["source"])
}

func TestNatsObjectStore_ExistsAndKeys(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, "voice-audio-keys")
	ctx := context.Background()

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	exists, err := store.Exists(ctx, "gen-1.wav")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Upload(ctx, "gen-1.wav", []byte("a")))
	require.NoError(t, store.Upload(ctx, "gen-2.wav", []byte("b")))

	exists, err = store.Exists(ctx, "gen-1.wav")
	require.NoError(t, err)
	assert.True(t, exists)

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gen-1.wav", "gen-2.wav"}, keys)
}

func TestNew_BindsToExistingBucket(t *testing.T) {
	t.Parallel()

	store, jetstreamContext := newTestStore(t, "voice-audio-bind")
	require.NoError(t, store.Upload(context.Background(), "kept.wav", []byte("x")))

	again, err := objectstore.New(jetstreamContext, objectstore.Options{Bucket: "voice-audio-bind", Memory: true})
	require.NoError(t, err)
	assert.Equal(t, "voice-audio-bind", again.Bucket())

	data, err := again.Download(context.Background(), "kept.wav")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestNatsObjectStore_Errors(t *testing.T) {
	t.Parallel()

	store, jetstreamContext := newTestStore(t, "voice-audio-errors")

	_, err := objectstore.New(jetstreamContext, objectstore.Options{})
	require.ErrorIs(t, err, objectstore.ErrBucketEmpty)

	require.ErrorIs(t, store.Upload(context.Background(), "", []byte("x")), objectstore.ErrKeyEmpty)

	_, err = store.Download(context.Background(), "")
	require.ErrorIs(t, err, objectstore.ErrKeyEmpty)

	_, err = store.Download(context.Background(), "missing.wav")
	require.ErrorIs(t, err, nats.ErrObjectNotFound)
}
