// Package itts is an HTTP client for the ITTS voice cloning and speech
// synthesis API.
package itts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/book-expert/voice-studio/internal/core"
	"github.com/book-expert/voice-studio/internal/voice"
)

// DefaultBaseURL is the public ITTS endpoint.
const DefaultBaseURL = "https://api.msganesh.com/itts"

// API endpoints and paths.
const (
	apiUploadAudio    = "/upload_audio"
	apiGenerateSpeech = "/generate_speech"
	apiGetSpeakers    = "/get_speakers"
	audioPathFormat   = "%s/%s.wav"
)

// Query, form and header names.
const (
	queryName          = "name"
	queryReferenceText = "reference_text"
	formFieldFile      = "file"
	headerContentType  = "Content-Type"
	headerAccept       = "Accept"
	contentTypeJSON    = "application/json"
	defaultFileName    = "reference.wav"
)

var (
	// ErrAudioRequired indicates an upload without audio data.
	ErrAudioRequired = errors.New("reference audio is required")
	// ErrEmptyID indicates a success response without an id.
	ErrEmptyID = errors.New("response did not include an id")
	// ErrAudioIDRequired indicates a download without an audio id.
	ErrAudioIDRequired = errors.New("audio id is required")
	// ErrEmptyAudio indicates a download that returned no data.
	ErrEmptyAudio = errors.New("received empty audio data")
)

// Client talks to the ITTS API. It holds no session state.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// generateRequest is the JSON body of a speech generation request.
type generateRequest struct {
	Text       string `json:"text"`
	RefAudioID string `json:"ref_audio_id"`
}

// speakersResponse is the body of the speaker listing.
type speakersResponse struct {
	Speakers []voice.Speaker `json:"speakers"`
}

// NewClient creates a client for the API at baseURL. An empty baseURL
// selects DefaultBaseURL. The timeout applies to every request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UploadReferenceAudio stores a reference recording and returns the id of
// the new speaker.
func (c *Client) UploadReferenceAudio(ctx context.Context, req core.UploadRequest) (core.RemoteResult, error) {
	if req.Audio == nil {
		return core.RemoteResult{}, ErrAudioRequired
	}

	body, contentType, err := buildUploadForm(req)
	if err != nil {
		return core.RemoteResult{}, err
	}

	query := url.Values{}
	query.Set(queryName, req.Name)
	query.Set(queryReferenceText, req.ReferenceText)

	endpoint := c.baseURL + apiUploadAudio + "?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return core.RemoteResult{}, fmt.Errorf("failed to create upload request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentType)
	httpReq.Header.Set(headerAccept, contentTypeJSON)

	return c.doResult(httpReq)
}

// GenerateSpeech synthesizes text with the reference audio refAudioID and
// returns the id of the generated audio.
func (c *Client) GenerateSpeech(ctx context.Context, text, refAudioID string) (core.RemoteResult, error) {
	payload, err := json.Marshal(generateRequest{Text: text, RefAudioID: refAudioID})
	if err != nil {
		return core.RemoteResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+apiGenerateSpeech,
		bytes.NewReader(payload),
	)
	if err != nil {
		return core.RemoteResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, contentTypeJSON)

	return c.doResult(httpReq)
}

// GetSpeakers lists the reference speakers known to the service.
func (c *Client) GetSpeakers(ctx context.Context) ([]voice.Speaker, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiGetSpeakers, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create speakers request: %w", err)
	}

	httpReq.Header.Set(headerAccept, contentTypeJSON)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to ITTS service at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var decoded speakersResponse

	err = json.NewDecoder(resp.Body).Decode(&decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode speakers response: %w", err)
	}

	if decoded.Speakers == nil {
		return []voice.Speaker{}, nil
	}

	return decoded.Speakers, nil
}

// AudioURL returns the playable location of audioID. No request is made.
func (c *Client) AudioURL(audioID string) string {
	return fmt.Sprintf(audioPathFormat, c.baseURL, url.PathEscape(audioID))
}

// DownloadAudio fetches the WAV data of audioID.
func (c *Client) DownloadAudio(ctx context.Context, audioID string) ([]byte, error) {
	if audioID == "" {
		return nil, ErrAudioIDRequired
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AudioURL(audioID), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to download audio %s: %w", audioID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(audioData) == 0 {
		return nil, ErrEmptyAudio
	}

	return audioData, nil
}

func (c *Client) doResult(httpReq *http.Request) (core.RemoteResult, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return core.RemoteResult{}, fmt.Errorf(
			"failed to send request to ITTS service at %s: %w",
			c.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.RemoteResult{}, parseErrorResponse(resp)
	}

	var result core.RemoteResult

	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return core.RemoteResult{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.ID == "" {
		return core.RemoteResult{}, ErrEmptyID
	}

	return result, nil
}

func buildUploadForm(req core.UploadRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	fileName := req.FileName
	if fileName == "" {
		fileName = defaultFileName
	}

	part, err := writer.CreateFormFile(formFieldFile, fileName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}

	_, err = io.Copy(part, req.Audio)
	if err != nil {
		return nil, "", fmt.Errorf("failed to copy file data: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
