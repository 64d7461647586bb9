// Package worker_test tests the NATS generate worker.
package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/voice-studio/internal/dashboard"
	"github.com/book-expert/voice-studio/internal/notify"
	"github.com/book-expert/voice-studio/internal/voice"
	"github.com/book-expert/voice-studio/internal/worker"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSubject = "voice.generate"

var errMockArchive = errors.New("mock archive error")

// mockGenerator is a mock implementation of the Generator interface.
type mockGenerator struct {
	mu         sync.Mutex
	shouldFail error
	inputs     []dashboard.GenerateInput
}

func (m *mockGenerator) GenerateSpeech(_ context.Context, input dashboard.GenerateInput) (dashboard.GenerationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inputs = append(m.inputs, input)

	if m.shouldFail != nil {
		return dashboard.GenerationResult{}, m.shouldFail
	}

	return dashboard.GenerationResult{
		AudioID:    "gen-1",
		AudioURL:   "http://itts.test/gen-1.wav",
		RefAudioID: input.RefAudioID,
		Voice:      voice.Voice{ID: input.VoiceID},
	}, nil
}

// mockArchiver is a mock implementation of the Archiver interface.
type mockArchiver struct {
	mu         sync.Mutex
	shouldFail bool
	archived   string
}

func (m *mockArchiver) Archive(_ context.Context, audioID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return "", errMockArchive
	}

	m.archived = audioID

	return audioID + ".wav", nil
}

func createTestNatsClient(t *testing.T) *nats.Conn {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	server := test.RunServer(&opts)

	natsConnection, err := nats.Connect(server.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	t.Cleanup(func() {
		natsConnection.Close()
		server.Shutdown()
	})

	return natsConnection
}

// startWorker runs a worker until the test ends and returns a connection
// for sending requests.
func startWorker(t *testing.T, generator worker.Generator, archiver worker.Archiver) *nats.Conn {
	t.Helper()

	natsConnection := createTestNatsClient(t)

	testLogger, err := logger.New(t.TempDir(), "worker-test.log")
	require.NoError(t, err)

	workerInstance, err := worker.NewNatsWorker(natsConnection, testSubject, generator, archiver, testLogger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- workerInstance.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-errChan, "worker.Run should not error on graceful shutdown")
	})

	// The subscription is registered asynchronously; wait until it answers.
	require.Eventually(t, func() bool {
		_, requestErr := natsConnection.Request(testSubject, []byte("{}"), 100*time.Millisecond)

		return requestErr == nil
	}, 2*time.Second, 10*time.Millisecond)

	return natsConnection
}

func request(t *testing.T, natsConnection *nats.Conn, command worker.GenerateCommand) worker.GenerateReply {
	t.Helper()

	data, err := json.Marshal(command)
	require.NoError(t, err)

	replyMsg, err := natsConnection.Request(testSubject, data, 5*time.Second)
	require.NoError(t, err, "Request should succeed and receive a reply")

	var reply worker.GenerateReply

	require.NoError(t, json.Unmarshal(replyMsg.Data, &reply))

	return reply
}

func TestNewNatsWorker_Validation(t *testing.T) {
	t.Parallel()

	_, err := worker.NewNatsWorker(nil, "", &mockGenerator{}, nil, nil)
	require.ErrorIs(t, err, worker.ErrSubjectEmpty)

	_, err = worker.NewNatsWorker(nil, testSubject, nil, nil, nil)
	require.ErrorIs(t, err, worker.ErrGeneratorNil)
}

func TestMessageHandler_Success(t *testing.T) {
	t.Parallel()

	generator := &mockGenerator{}
	archiver := &mockArchiver{}
	natsConnection := startWorker(t, generator, archiver)

	command := worker.GenerateCommand{
		Header:     notify.NewHeader(voice.CurrentCreatorID),
		Text:       "Hello, world!",
		RefAudioID: "ref-1",
		VoiceID:    "spk-1",
		Archive:    true,
	}

	reply := request(t, natsConnection, command)

	assert.Empty(t, reply.Error)
	assert.Equal(t, "gen-1", reply.AudioID)
	assert.Equal(t, "http://itts.test/gen-1.wav", reply.AudioURL)
	assert.Equal(t, "spk-1", reply.VoiceID)
	assert.Equal(t, "gen-1.wav", reply.ArchiveKey)

	archiver.mu.Lock()
	assert.Equal(t, "gen-1", archiver.archived)
	archiver.mu.Unlock()
	assert.Equal(t, command.Header.WorkflowID, reply.Header.WorkflowID)
	assert.NotEqual(t, command.Header.EventID, reply.Header.EventID)

	generator.mu.Lock()
	defer generator.mu.Unlock()

	last := generator.inputs[len(generator.inputs)-1]
	assert.Equal(t, "Hello, world!", last.Text)
	assert.Equal(t, "ref-1", last.RefAudioID)
}

func TestMessageHandler_GenerateFailure(t *testing.T) {
	t.Parallel()

	generator := &mockGenerator{shouldFail: &dashboard.ValidationError{Err: dashboard.ErrTextRequired}}
	natsConnection := startWorker(t, generator, nil)

	reply := request(t, natsConnection, worker.GenerateCommand{
		Header: notify.NewHeader(""),
		Text:   "",
	})

	assert.Equal(t, dashboard.ErrTextRequired.Error(), reply.Error)
	assert.Empty(t, reply.AudioID)
}

func TestMessageHandler_ArchiveErrors(t *testing.T) {
	t.Parallel()

	t.Run("archive not configured", func(t *testing.T) {
		t.Parallel()

		generator := &mockGenerator{}
		natsConnection := startWorker(t, generator, nil)

		reply := request(t, natsConnection, worker.GenerateCommand{
			Header:  notify.NewHeader(""),
			Text:    "hello",
			VoiceID: "1",
			Archive: true,
		})

		assert.Equal(t, worker.ErrArchiveUnavailable.Error(), reply.Error)
	})

	t.Run("archive fails", func(t *testing.T) {
		t.Parallel()

		natsConnection := startWorker(t, &mockGenerator{}, &mockArchiver{shouldFail: true})

		reply := request(t, natsConnection, worker.GenerateCommand{
			Header:  notify.NewHeader(""),
			Text:    "hello",
			VoiceID: "1",
			Archive: true,
		})

		assert.Equal(t, "gen-1", reply.AudioID, "generation result is still reported")
		assert.Contains(t, reply.Error, errMockArchive.Error())
	})
}

func TestMessageHandler_MalformedCommand(t *testing.T) {
	t.Parallel()

	natsConnection := startWorker(t, &mockGenerator{}, nil)

	replyMsg, err := natsConnection.Request(testSubject, []byte("not json"), 5*time.Second)
	require.NoError(t, err)

	var reply worker.GenerateReply

	require.NoError(t, json.Unmarshal(replyMsg.Data, &reply))
	assert.Equal(t, "malformed command", reply.Error)
}
