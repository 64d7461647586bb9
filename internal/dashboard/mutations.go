package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/book-expert/voice-studio/internal/core"
	"github.com/book-expert/voice-studio/internal/itts"
	"github.com/book-expert/voice-studio/internal/mutation"
	"github.com/book-expert/voice-studio/internal/notify"
	"github.com/book-expert/voice-studio/internal/observe"
	"github.com/book-expert/voice-studio/internal/voice"
)

// Validation failures. They are reported before any remote call.
var (
	ErrFileRequired          = errors.New("please select an audio file")
	ErrNameRequired          = errors.New("please enter a voice name")
	ErrReferenceTextRequired = errors.New("please enter the reference text")
	ErrTextRequired          = errors.New("please enter text to generate")
	ErrVoiceRequired         = errors.New("please select a voice or upload reference audio")
)

// ValidationError reports a form rejected before dispatch.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error) error {
	return &ValidationError{Err: err}
}

// UserMessage returns the message shown for err: the validation message
// for rejected forms, the remote service's message otherwise.
func UserMessage(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Err.Error()
	}

	return itts.UserMessage(err)
}

// UploadForm holds the fields of the reference audio upload form.
type UploadForm struct {
	FileName      string
	Audio         []byte
	Name          string
	ReferenceText string

	// CreatorID names the creator the new voice is attributed to. Empty or
	// unknown ids fall back to the current operator.
	CreatorID string
}

// GenerateInput names the text to synthesize and what to synthesize it with.
// RefAudioID takes precedence over VoiceID, which takes precedence over the
// selected voice.
type GenerateInput struct {
	Text       string
	RefAudioID string
	VoiceID    string
}

// GenerationResult describes a finished generation.
type GenerationResult struct {
	AudioID    string
	AudioURL   string
	RefAudioID string

	// Voice is the voice whose history received the generation. It is the
	// zero value when the target matches no voice in the catalog.
	Voice voice.Voice
}

// SetUploadForm replaces the upload form fields.
func (s *Session) SetUploadForm(form UploadForm) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.uploadForm = form
}

// UploadForm returns the current upload form fields.
func (s *Session) UploadForm() UploadForm {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.uploadForm
}

// LastReferenceAudioID returns the id of the most recent successful upload.
func (s *Session) LastReferenceAudioID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastReferenceID
}

// UploadStatus returns the upload mutation state.
func (s *Session) UploadStatus() mutation.Snapshot {
	return s.upload.Snapshot()
}

// GenerateStatus returns the generate mutation state.
func (s *Session) GenerateStatus() mutation.Snapshot {
	return s.generate.Snapshot()
}

// CancelUpload aborts a pending upload. Its result, if it still arrives,
// is discarded.
func (s *Session) CancelUpload() {
	s.upload.Cancel()
}

// CancelGenerate aborts a pending generation.
func (s *Session) CancelGenerate() {
	s.generate.Cancel()
}

// SubmitUpload uploads the form's reference audio and adds the resulting
// voice to the catalog. The form is cleared on success and kept on failure.
func (s *Session) SubmitUpload(ctx context.Context) (voice.Voice, error) {
	form := s.UploadForm()

	referenceText, err := s.validateUpload(form)
	if err != nil {
		return voice.Voice{}, err
	}

	token, callCtx, err := s.upload.Begin(ctx)
	if err != nil {
		return voice.Voice{}, fmt.Errorf("upload: %w", err)
	}

	name := strings.TrimSpace(form.Name)
	start := time.Now()

	result, err := s.api.UploadReferenceAudio(callCtx, core.UploadRequest{
		Audio:         bytes.NewReader(form.Audio),
		FileName:      form.FileName,
		Name:          name,
		ReferenceText: referenceText,
	})
	if err != nil {
		return voice.Voice{}, s.failUpload(ctx, token, err, start)
	}

	speaker := voice.Speaker{
		Name:          name,
		ID:            result.ID,
		Path:          "",
		ReferenceText: referenceText,
	}
	created := voice.FromSpeaker(speaker, s.opts.Now())

	err = s.upload.Commit(token, func() {
		creator := s.store.ResolveCreator(form.CreatorID)
		created.CreatorID = creator.ID
		created.CreatorName = creator.Name

		s.store.AddSpeaker(speaker)
		s.store.AddVoice(created)

		s.mu.Lock()
		s.uploadForm = UploadForm{}
		s.lastReferenceID = result.ID
		s.mu.Unlock()
	})
	if err != nil {
		s.metrics.RecordRemote(ctx, observe.OperationUpload, observe.StatusStale, start)

		return voice.Voice{}, fmt.Errorf("upload result discarded: %w", err)
	}

	s.metrics.RecordRemote(ctx, observe.OperationUpload, observe.StatusOK, start)
	s.metrics.RecordVoicesAdded(ctx, observe.OperationUpload, 1)
	s.log.Info("Uploaded reference audio %q as %s", name, result.ID)

	s.publish(ctx, s.opts.VoiceCreatedSubject, notify.VoiceCreatedEvent{
		Header: notify.NewHeader(created.CreatorID),
		Voice:  created,
	})

	return created, nil
}

func (s *Session) validateUpload(form UploadForm) (string, error) {
	if len(form.Audio) == 0 {
		return "", invalid(ErrFileRequired)
	}

	if strings.TrimSpace(form.Name) == "" {
		return "", invalid(ErrNameRequired)
	}

	referenceText := strings.TrimSpace(form.ReferenceText)
	if referenceText == "" {
		referenceText = strings.TrimSpace(s.opts.DefaultReferenceText)
	}

	if referenceText == "" {
		return "", invalid(ErrReferenceTextRequired)
	}

	return referenceText, nil
}

func (s *Session) failUpload(ctx context.Context, token mutation.Token, callErr error, start time.Time) error {
	err := s.upload.Finish(token, callErr)
	if err != nil {
		s.metrics.RecordRemote(ctx, observe.OperationUpload, observe.StatusStale, start)

		return fmt.Errorf("upload result discarded: %w", err)
	}

	s.metrics.RecordRemote(ctx, observe.OperationUpload, observe.StatusError, start)

	s.log.Error("Failed to upload reference audio: %v", callErr)

	return fmt.Errorf("failed to upload reference audio: %w", callErr)
}

// GenerateSpeech synthesizes input.Text with the resolved target and
// records the generation in the matching voice's history.
func (s *Session) GenerateSpeech(ctx context.Context, input GenerateInput) (GenerationResult, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return GenerationResult{}, invalid(ErrTextRequired)
	}

	target := s.resolveTarget(input)
	if target == "" {
		return GenerationResult{}, invalid(ErrVoiceRequired)
	}

	token, callCtx, err := s.generate.Begin(ctx)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generate: %w", err)
	}

	start := time.Now()

	remote, err := s.api.GenerateSpeech(callCtx, text, target)
	if err != nil {
		finishErr := s.generate.Finish(token, err)
		if finishErr != nil {
			s.metrics.RecordRemote(ctx, observe.OperationGenerate, observe.StatusStale, start)

			return GenerationResult{}, fmt.Errorf("generate result discarded: %w", finishErr)
		}

		s.metrics.RecordRemote(ctx, observe.OperationGenerate, observe.StatusError, start)
		s.log.Error("Failed to generate speech with %s: %v", target, err)

		return GenerationResult{}, fmt.Errorf("failed to generate speech: %w", err)
	}

	result := GenerationResult{
		AudioID:    remote.ID,
		AudioURL:   s.api.AudioURL(remote.ID),
		RefAudioID: target,
		Voice:      voice.Voice{},
	}
	generation := voice.NewGeneration(remote.ID, text, s.opts.Now())

	err = s.generate.Commit(token, func() {
		updated, ok := s.store.UpdateVoice(target, func(v voice.Voice) voice.Voice {
			return v.WithGeneration(generation)
		})
		if ok {
			result.Voice = updated
		}
	})
	if err != nil {
		s.metrics.RecordRemote(ctx, observe.OperationGenerate, observe.StatusStale, start)

		return GenerationResult{}, fmt.Errorf("generate result discarded: %w", err)
	}

	s.metrics.RecordRemote(ctx, observe.OperationGenerate, observe.StatusOK, start)
	s.log.Info("Generated speech %s with %s", remote.ID, target)

	s.publish(ctx, s.opts.SpeechGeneratedSubject, notify.SpeechGeneratedEvent{
		Header:     notify.NewHeader(s.store.CurrentCreator().ID),
		VoiceID:    result.Voice.ID,
		RefAudioID: target,
		AudioID:    remote.ID,
		AudioURL:   result.AudioURL,
		Snippet:    generation.Text,
	})

	return result, nil
}

func (s *Session) resolveTarget(input GenerateInput) string {
	if id := strings.TrimSpace(input.RefAudioID); id != "" {
		return id
	}

	if id := strings.TrimSpace(input.VoiceID); id != "" {
		return id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selection.SelectedID()
}
