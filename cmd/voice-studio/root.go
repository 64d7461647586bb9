package main

import (
	"context"
	"fmt"

	"github.com/book-expert/voice-studio/internal/config"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	output      string
	baseURL     string
	natsURL     string
	metricsAddr string
	seed        bool
}

// apply overrides the loaded configuration with explicitly set flags.
func (f *globalFlags) apply(cfg *config.Config) {
	if f.baseURL != "" {
		cfg.ITTS.BaseURL = f.baseURL
	}

	if f.natsURL != "" {
		cfg.NATS.URL = f.natsURL
	}

	if f.metricsAddr != "" {
		cfg.Metrics.ListenAddr = f.metricsAddr
	}

	if f.seed {
		cfg.Session.SeedVoices = true
	}
}

// runFunc is a command body with a ready app.
type runFunc func(ctx context.Context, args []string, application *app, out *printer) error

// withApp adapts a runFunc to a cobra RunE.
type withApp func(run runFunc) func(*cobra.Command, []string) error

// newRootCommand builds the command tree. setup is called once per
// invocation of a leaf command.
func newRootCommand(setup setupFunc) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "voice-studio",
		Short: "Manage ITTS voices, speakers and speech generation",
		Long: `voice-studio browses and filters the voice catalog, uploads reference
audio, generates speech through the ITTS service and serves generate
requests over NATS.

Settings come from the [itts], [nats], [session], [metrics] and [paths] sections of
the project configuration; the flags below override them.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.output, "output", "o", formatTable, "Output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "ITTS base URL")
	rootCmd.PersistentFlags().StringVar(&flags.natsURL, "nats-url", "", "NATS server URL")
	rootCmd.PersistentFlags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (serve only)")
	rootCmd.PersistentFlags().BoolVar(&flags.seed, "seed", false, "Start from the built-in voice catalog")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	var with withApp = func(run runFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			out, err := newPrinter(flags.output, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			application, err := setup(flags)
			if err != nil {
				return err
			}
			defer application.close()

			return run(cmd.Context(), args, application, out)
		}
	}

	rootCmd.AddCommand(
		newSpeakersCommand(with),
		newVoicesCommand(with),
		newUploadCommand(with),
		newGenerateCommand(with),
		newGroupsCommand(with),
		newServeCommand(with),
	)

	return rootCmd
}
