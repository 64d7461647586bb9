package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/book-expert/logger"
	"github.com/book-expert/voice-studio/internal/config"
	"github.com/book-expert/voice-studio/internal/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// newFakeITTS serves a speaker list and accepts uploads and generations.
func newFakeITTS(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /get_speakers", func(responseWriter http.ResponseWriter, _ *http.Request) {
		responseWriter.Header().Set("Content-Type", "application/json")
		_, _ = responseWriter.Write([]byte(`{"speakers":[{"name":"Remote","id":"spk-1","path":"/refs/spk-1.wav","reference_text":"remote text"}]}`))
	})
	mux.HandleFunc("POST /upload_audio", func(responseWriter http.ResponseWriter, request *http.Request) {
		if request.URL.Query().Get("name") == "" {
			responseWriter.Header().Set("Content-Type", "application/json")
			responseWriter.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = responseWriter.Write([]byte(`{"detail":[{"loc":["query","name"],"msg":"field required","type":"missing"}]}`))

			return
		}

		_, _ = responseWriter.Write([]byte(`{"message":"Audio uploaded","id":"ref-1"}`))
	})
	mux.HandleFunc("POST /generate_speech", func(responseWriter http.ResponseWriter, _ *http.Request) {
		_, _ = responseWriter.Write([]byte(`{"message":"Speech generated","id":"gen-1"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

// runCLI executes the command tree against server and returns stdout.
func runCLI(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()

	setup := func(flags *globalFlags) (*app, error) {
		cfg := &config.Config{}
		cfg.ApplyDefaults()
		cfg.ITTS.BaseURL = server.URL
		flags.apply(cfg)

		testLogger, err := logger.New(t.TempDir(), "cli-test.log")
		if err != nil {
			return nil, err
		}

		return newApp(cfg, testLogger)
	}

	var stdout bytes.Buffer

	root := newRootCommand(setup)
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()

	return stdout.String(), err
}

func TestVoicesCommand_JSON(t *testing.T) {
	t.Parallel()

	server := newFakeITTS(t)

	out, err := runCLI(t, server, "voices", "--seed", "--tab", "default", "--language", "Marathi", "-o", "json")
	require.NoError(t, err)

	var voices []voice.Voice

	require.NoError(t, json.Unmarshal([]byte(out), &voices))
	require.Len(t, voices, 1)
	assert.Equal(t, "4", voices[0].ID)
}

func TestVoicesCommand_MergesSpeakers(t *testing.T) {
	t.Parallel()

	server := newFakeITTS(t)

	out, err := runCLI(t, server, "voices", "--search", "remote", "-o", "yaml")
	require.NoError(t, err)

	var voices []voice.Voice

	require.NoError(t, yaml.Unmarshal([]byte(out), &voices))
	require.Len(t, voices, 1)
	assert.Equal(t, "spk-1", voices[0].ID)
	assert.Equal(t, "Custom", voices[0].Category)
}

func TestVoicesCommand_Table(t *testing.T) {
	t.Parallel()

	server := newFakeITTS(t)

	out, err := runCLI(t, server, "voices", "--seed", "--search", "riya")
	require.NoError(t, err)

	assert.Contains(t, out, "Riya Rao")
	assert.Contains(t, out, "NAME")
}

func TestVoicesCommand_RejectsUnknownTab(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, newFakeITTS(t), "voices", "--tab", "favorites")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tab")
}

func TestUploadCommand(t *testing.T) {
	t.Parallel()

	server := newFakeITTS(t)

	audioPath := filepath.Join(t.TempDir(), "sample.wav")
	require.NoError(t, os.WriteFile(audioPath, []byte("RIFF....WAVE"), 0o600))

	out, err := runCLI(t, server, "upload", audioPath, "--name", "Shashwat", "-o", "json")
	require.NoError(t, err)

	var created voice.Voice

	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "ref-1", created.ID)
	assert.Equal(t, "Shashwat", created.Name)
	assert.Equal(t, config.DefaultReferenceText, created.Description)

	_, err = runCLI(t, server, "upload", audioPath)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "please enter a voice name"))
}

func TestGenerateCommand(t *testing.T) {
	t.Parallel()

	server := newFakeITTS(t)

	out, err := runCLI(t, server, "generate", "Hello there", "--voice", "spk-1", "-o", "json")
	require.NoError(t, err)

	var result generateOutput

	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "gen-1", result.AudioID)
	assert.Equal(t, server.URL+"/gen-1.wav", result.AudioURL)
	assert.Equal(t, "spk-1", result.VoiceID)

	_, err = runCLI(t, server, "generate", "Hello", "--archive", "--voice", "spk-1")
	require.ErrorIs(t, err, ErrNATSRequired)
}

func TestGroupsCommand(t *testing.T) {
	t.Parallel()

	server := newFakeITTS(t)

	out, err := runCLI(t, server, "groups", "Narrators", "--speaker", "spk-1", "--speaker", "spk-1", "--speaker", "ghost", "-o", "json")
	require.NoError(t, err)

	var result groupOutput

	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Narrators", result.Group.Name)
	assert.Equal(t, []string{"spk-1", "ghost"}, result.Group.SpeakerIDs)
	require.Len(t, result.Speakers, 1)
	assert.Equal(t, "spk-1", result.Speakers[0].ID)

	_, err = runCLI(t, server, "groups", "Empty")
	require.Error(t, err)
}

func TestNewPrinter_RejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := newPrinter("xml", &bytes.Buffer{})
	require.ErrorIs(t, err, ErrUnknownFormat)

	p, err := newPrinter(" YAML ", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, formatYAML, p.format)
}

func TestPrinter_EmptyTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	p, err := newPrinter(formatTable, &buf)
	require.NoError(t, err)

	require.NoError(t, p.print([]voice.Voice{}, voicesTable(nil)))
	assert.Contains(t, buf.String(), "No results")
}
