package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gsivak487/emrgent-labs/internal/backend"
	"github.com/gsivak487/emrgent-labs/internal/config"
	"github.com/gsivak487/emrgent-labs/internal/content"
	"github.com/gsivak487/emrgent-labs/internal/logging"
)

var (
	cfgFile     string
	contentFile string
	appConfig   *config.Config
	logger      = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - the Emergent Labs portfolio site",
	Long: `folio renders the Emergent Labs portfolio page from the content served
by the portfolio backend. It can serve the page live or write it out as a
static site.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&contentFile, "content", "", "read content from a .json, .yaml or .md file instead of the backend")
}

func initializeConfig(cmd *cobra.Command) error {
	cfg, used, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg
	logger = logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

	if used != "" {
		logger.Debug("using config file", "path", used)
	} else {
		logger.Debug("no config file found, using defaults and environment")
	}
	return nil
}

// newBackend returns the configured backend client, or nil when no backend
// URL is set.
func newBackend(cfg *config.Config) (*backend.Client, error) {
	if cfg.Backend.URL == "" {
		return nil, nil
	}
	return backend.New(cfg.Backend.URL, cfg.Backend.Timeout, backend.WithSizeCap(cfg.Backend.MaxBodyBytes))
}

// newSource picks where page content comes from: the --content file when
// given, otherwise the backend.
func newSource(client *backend.Client) (content.Source, error) {
	if contentFile != "" {
		return content.FileSource{Path: contentFile}, nil
	}
	if client == nil {
		return nil, errors.New("no content source: set backend.url (FOLIO_BACKEND_URL) or pass --content")
	}
	return content.FromBackend(client), nil
}
