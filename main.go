package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"brief-cli/internal/api"
	"brief-cli/internal/config"
	"brief-cli/internal/display"
	"brief-cli/internal/export"
	"brief-cli/internal/logging"
	"brief-cli/internal/session"
	"brief-cli/internal/store"
	"brief-cli/internal/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const storeFile = "brief.db"

var (
	// Global flags
	activeProfile string
	verbose       bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "brief",
	Short: "Brief CLI: build campaign briefs with an AI assistant",
	Long: `Brief CLI talks to a brief assistant, offers its suggestions as quick
replies and exports finished briefs as paginated PDFs.

Run without arguments to start the interactive interface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(activeProfile)
		if err != nil {
			return err
		}
		logger, err = logging.New(logging.Options{Level: cfg.LogLevel, Verbose: verbose})
		if err != nil {
			return err
		}
		logger.Debug("command started", zap.String("command", cmd.CommandPath()), zap.String("profile", config.ProfileName(activeProfile)))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionString())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&activeProfile, "profile", "", "Use a named config profile")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		display.Error(err.Error())
		os.Exit(1)
	}
}

func versionString() string {
	if commit == "none" {
		return "brief " + version
	}
	return fmt.Sprintf("brief %s\n  commit: %s\n  built:  %s (%s)", version, commit, date, runtime.Version())
}

// ─── wiring ─────────────────────────────────────────────────────────────────

// app holds everything a command needs. Close it when done.
type app struct {
	cfg      *config.Config
	pipeline *session.Pipeline
	store    *store.Store
	exporter *export.Exporter
}

func newApp() (*app, error) {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return nil, err
	}

	vocab, err := config.LoadVocabulary(cfg.VocabularyPath, cfg.LocaleOrDefault())
	if err != nil {
		return nil, err
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(filepath.Join(dir, storeFile))
	if err != nil {
		return nil, err
	}

	exportDir, err := cfg.ExportDirOrDefault()
	if err != nil {
		st.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		pipeline: session.NewPipeline(vocab),
		store:    st,
		exporter: export.NewExporter(exportDir, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("closing store failed", zap.Error(err))
	}
}

// conversation returns a conversation bound to the transcript store,
// resumed from id when id is non-empty.
func (a *app) conversation(ctx context.Context, id string) (*session.Conversation, error) {
	conv := session.New(a.pipeline,
		session.WithTranscript(a.store),
		session.WithLogger(logger))
	if id == "" {
		return conv, nil
	}
	if err := conv.Resume(ctx, id); err != nil {
		return nil, fmt.Errorf("resuming %s: %w", id, err)
	}
	return conv, nil
}

func runInteractive() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	conv, err := a.conversation(ctx, a.cfg.LastConversation)
	if err != nil {
		logger.Warn("could not resume last conversation", zap.Error(err))
		conv, _ = a.conversation(ctx, "")
	}

	var client api.ChatAPI
	if a.cfg.Validate() == nil {
		client = api.NewClient(a.cfg)
	}

	return tui.Run(tui.Options{
		Version: version,
		Profile: activeProfile,
		Deps: tui.Deps{
			Config:   a.cfg,
			Client:   client,
			Conv:     conv,
			History:  a.store,
			Exporter: a.exporter,
			Logger:   logger,
		},
	})
}
