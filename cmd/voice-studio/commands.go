package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/book-expert/voice-studio/internal/archive"
	"github.com/book-expert/voice-studio/internal/dashboard"
	"github.com/book-expert/voice-studio/internal/filter"
	"github.com/book-expert/voice-studio/internal/objectstore"
	"github.com/book-expert/voice-studio/internal/voice"
	"github.com/book-expert/voice-studio/internal/worker"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newSpeakersCommand(with withApp) *cobra.Command {
	return &cobra.Command{
		Use:   "speakers",
		Short: "List the reference speakers stored by the ITTS service",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, _ []string, application *app, out *printer) error {
			speakers, err := application.session.RefreshSpeakers(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", dashboard.UserMessage(err), err)
			}

			tbl := table{header: []string{"ID", "NAME", "REFERENCE TEXT"}}
			for _, speaker := range speakers {
				tbl.rows = append(tbl.rows, []string{speaker.ID, speaker.Name, voice.Snippet(speaker.ReferenceText)})
			}

			return out.print(speakers, tbl)
		}),
	}
}

type voicesOptions struct {
	search     string
	tab        string
	categories []string
	languages  []string
	creator    string
}

func newVoicesCommand(with withApp) *cobra.Command {
	opts := &voicesOptions{}

	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List voices through the dashboard filters",
		Long: `List the voice catalog after the search, tab, category and language
filters. Remote speakers are merged into the catalog first.

Tabs: all, personal, community, default.`,
		Args: cobra.NoArgs,
		RunE: with(func(ctx context.Context, _ []string, application *app, out *printer) error {
			tab, err := filter.ParseTab(opts.tab)
			if err != nil {
				return err
			}

			session := application.session

			err = session.Load(ctx)
			if err != nil {
				out.note("Showing local voices only: %s", dashboard.UserMessage(err))
			}

			session.SetSearchQuery(opts.search)
			session.SetActiveTab(tab)
			session.SetCategoryFilter(opts.categories)
			session.SetLanguageFilter(opts.languages)

			voices := session.FilteredVoices()
			if opts.creator != "" {
				voices = keepCreator(voices, session.Catalog().VoicesByCreator(opts.creator))
			}

			return out.print(voices, voicesTable(voices))
		}),
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Case-insensitive match on name or description")
	cmd.Flags().StringVar(&opts.tab, "tab", "all", "Tab: all, personal, community or default")
	cmd.Flags().StringSliceVar(&opts.categories, "category", nil, "Keep voices in any of these categories")
	cmd.Flags().StringSliceVar(&opts.languages, "language", nil, "Keep voices in any of these languages")
	cmd.Flags().StringVar(&opts.creator, "creator", "", "Keep voices owned by this creator id")

	return cmd
}

// keepCreator keeps the filtered voices that are also owned by the creator.
func keepCreator(filtered, owned []voice.Voice) []voice.Voice {
	ownedIDs := make(map[string]struct{}, len(owned))
	for _, v := range owned {
		ownedIDs[v.ID] = struct{}{}
	}

	kept := make([]voice.Voice, 0, len(filtered))

	for _, v := range filtered {
		if _, ok := ownedIDs[v.ID]; ok {
			kept = append(kept, v)
		}
	}

	return kept
}

func voicesTable(voices []voice.Voice) table {
	tbl := table{header: []string{"ID", "NAME", "CATEGORY", "LANGUAGE", "TAGS", "LEGACY", "CREATOR", "CREATED"}}

	for _, v := range voices {
		tbl.rows = append(tbl.rows, []string{
			v.ID,
			v.Name,
			v.Category,
			v.Language,
			strings.Join(v.Tags, ","),
			strconv.FormatBool(v.IsLegacy),
			v.OwnerID(),
			v.CreatedAt,
		})
	}

	return tbl
}

type uploadOptions struct {
	name          string
	referenceText string
	creator       string
}

func newUploadCommand(with withApp) *cobra.Command {
	opts := &uploadOptions{}

	cmd := &cobra.Command{
		Use:   "upload <audio-file>",
		Short: "Upload reference audio and create a voice from it",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, args []string, application *app, out *printer) error {
			path := args[0]

			audio, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			session := application.session
			session.SetUploadForm(dashboard.UploadForm{
				FileName:      filepath.Base(path),
				Audio:         audio,
				Name:          opts.name,
				ReferenceText: opts.referenceText,
				CreatorID:     opts.creator,
			})

			out.note("Uploading %s (%s)", filepath.Base(path), humanize.Bytes(uint64(len(audio))))

			created, err := session.SubmitUpload(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", dashboard.UserMessage(err), err)
			}

			err = out.print(created, voicesTable([]voice.Voice{created}))
			if err != nil {
				return err
			}

			out.note("Reference audio id: %s", session.LastReferenceAudioID())

			return nil
		}),
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Display name of the new voice")
	cmd.Flags().StringVar(&opts.referenceText, "reference-text", "", "Transcript of the reference audio")
	cmd.Flags().StringVar(&opts.creator, "creator", "", "Creator id to attribute the voice to")

	return cmd
}

type generateOptions struct {
	refAudioID string
	voiceID    string
	archive    bool
}

type generateOutput struct {
	AudioID    string `json:"audio_id" yaml:"audio_id"`
	AudioURL   string `json:"audio_url" yaml:"audio_url"`
	RefAudioID string `json:"ref_audio_id" yaml:"ref_audio_id"`
	VoiceID    string `json:"voice_id,omitempty" yaml:"voice_id,omitempty"`
	ArchiveKey string `json:"archive_key,omitempty" yaml:"archive_key,omitempty"`
}

func newGenerateCommand(with withApp) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <text>",
		Short: "Generate speech with a reference audio id or voice",
		Long: `Generate speech for the given text. The synthesis target is the
--ref-audio-id when set, otherwise the --voice id.`,
		Args: cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, args []string, application *app, out *printer) error {
			var archiver *archive.Archiver

			if opts.archive {
				var err error

				archiver, err = newArchiver(application)
				if err != nil {
					return err
				}
			}

			session := application.session

			err := session.Load(ctx)
			if err != nil {
				application.log.Warn("Generating without remote speakers: %v", err)
			}

			result, err := session.GenerateSpeech(ctx, dashboard.GenerateInput{
				Text:       args[0],
				RefAudioID: opts.refAudioID,
				VoiceID:    opts.voiceID,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", dashboard.UserMessage(err), err)
			}

			output := generateOutput{
				AudioID:    result.AudioID,
				AudioURL:   result.AudioURL,
				RefAudioID: result.RefAudioID,
				VoiceID:    result.Voice.ID,
				ArchiveKey: "",
			}

			if archiver != nil {
				output.ArchiveKey, err = archiver.Archive(ctx, result.AudioID)
				if err != nil {
					return err
				}
			}

			tbl := table{
				header: []string{"AUDIO ID", "AUDIO URL", "ARCHIVE KEY"},
				rows:   [][]string{{output.AudioID, output.AudioURL, output.ArchiveKey}},
			}

			return out.print(output, tbl)
		}),
	}

	cmd.Flags().StringVar(&opts.refAudioID, "ref-audio-id", "", "Reference audio id returned by upload")
	cmd.Flags().StringVar(&opts.voiceID, "voice", "", "Voice id to synthesize with")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "Copy the generated audio into the NATS object store")

	return cmd
}

func newArchiver(application *app) (*archive.Archiver, error) {
	natsConnection, err := application.requireNATS()
	if err != nil {
		return nil, err
	}

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	store, err := objectstore.New(jetstreamContext, objectstore.Options{
		Bucket:   application.cfg.NATS.AudioObjectStoreBucket,
		TTL:      0,
		MaxBytes: 0,
		Memory:   false,
	})
	if err != nil {
		return nil, err
	}

	return archive.New(application.client, store, application.log), nil
}

type groupOutput struct {
	Group    voice.SpeakerGroup `json:"group" yaml:"group"`
	Speakers []voice.Speaker    `json:"speakers" yaml:"speakers"`
}

func newGroupsCommand(with withApp) *cobra.Command {
	var speakerIDs []string

	cmd := &cobra.Command{
		Use:   "groups <name>",
		Short: "Group remote speakers under a name and show the members",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, args []string, application *app, out *printer) error {
			session := application.session

			_, err := session.RefreshSpeakers(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", dashboard.UserMessage(err), err)
			}

			group, err := session.Catalog().CreateSpeakerGroup(args[0], speakerIDs)
			if err != nil {
				return err
			}

			members := session.Catalog().SpeakersByGroupID(group.ID)

			tbl := table{header: []string{"GROUP", "SPEAKER ID", "NAME"}}
			for _, speaker := range members {
				tbl.rows = append(tbl.rows, []string{group.Name, speaker.ID, speaker.Name})
			}

			err = out.print(groupOutput{Group: group, Speakers: members}, tbl)
			if err != nil {
				return err
			}

			if missing := len(group.SpeakerIDs) - len(members); missing > 0 {
				out.note("%d speaker id(s) did not match a remote speaker", missing)
			}

			return nil
		}),
	}

	cmd.Flags().StringSliceVar(&speakerIDs, "speaker", nil, "Speaker id to include (repeatable)")

	return cmd
}

func newServeCommand(with withApp) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve generate requests over NATS and archive the audio",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, _ []string, application *app, _ *printer) (err error) {
			natsConnection, err := application.requireNATS()
			if err != nil {
				return err
			}

			archiver, err := newArchiver(application)
			if err != nil {
				return err
			}

			err = application.session.Load(ctx)
			if err != nil {
				application.log.Warn("Serving without remote speakers: %v", err)
			}

			natsWorker, err := worker.NewNatsWorker(
				natsConnection,
				application.cfg.NATS.GenerateSubject,
				application.session,
				archiver,
				application.log,
			)
			if err != nil {
				return fmt.Errorf("failed to create worker: %w", err)
			}

			runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr := application.cfg.Metrics.ListenAddr; addr != "" {
				listener, listenErr := listenMetrics(addr)
				if listenErr != nil {
					return listenErr
				}

				waitMetrics, metricsErr := startMetrics(runCtx, listener, application.log)
				if metricsErr != nil {
					return metricsErr
				}

				defer func() {
					stop()

					err = errors.Join(err, waitMetrics())
				}()
			}

			application.log.System("Voice studio listening for generate commands on %s", application.cfg.NATS.GenerateSubject)

			return natsWorker.Run(runCtx)
		}),
	}
}
