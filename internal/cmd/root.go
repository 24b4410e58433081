package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/assesskit/assesskit/internal/api"
	"github.com/assesskit/assesskit/internal/config"
	"github.com/assesskit/assesskit/internal/log"
	"github.com/assesskit/assesskit/internal/session"
	"github.com/assesskit/assesskit/internal/version"
)

var (
	flagConfig  string
	flagBaseURL string
	flagDebug   bool
)

// app holds the wired dependencies every command shares. It is built
// once per invocation in the root PersistentPreRunE.
type app struct {
	cfg     config.Config
	log     *log.Logger
	session *session.Manager
	client  *api.Client
}

var theApp *app

var rootCmd = &cobra.Command{
	Use:   "assesskit",
	Short: "Take and manage business assessments from the terminal",
	Long: `assesskit is a terminal client for the assessment platform.

Respondents can browse published assessments and take them in a
step-by-step wizard with automatic draft saving: closing the terminal
mid-assessment and coming back later resumes where you left off.

Administrators can additionally manage assessments, questions, choices,
and user accounts, and inspect response statistics.

Examples:
  assesskit list
  assesskit take 3
  assesskit login --email admin@example.com
  assesskit stats 3`,
	Version:       version.GetInfo().String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		theApp = a
		return nil
	},
}

// buildApp loads configuration, sets up logging, and hydrates the
// stored session.
func buildApp() (*app, error) {
	path := flagConfig
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagDebug {
		cfg.Log.Level = "debug"
	}

	logger := log.New(log.Config{
		Level:  log.ParseLevel(cfg.Log.Level),
		Format: log.ParseFormat(cfg.Log.Format),
		Output: log.OutputStderr(),
	})
	log.SetDefaultLogger(logger)

	credPath, err := session.DefaultCredentialsPath()
	if err != nil {
		return nil, err
	}
	mgr := session.NewManager(session.NewFileStore(credPath), logger)
	if err := mgr.Hydrate(); err != nil {
		// A corrupt credentials file should not brick every command.
		logger.WithError(err).Warn("could not load stored session")
	}

	client, err := api.NewClient(cfg.BaseURL, cfg.Timeout, mgr, api.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: logger, session: mgr, client: client}, nil
}

// ExecuteContext runs the root command under the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext derives the request context for one command run.
func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default is $HOME/.assesskit/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}
