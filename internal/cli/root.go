package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/cli/client"
	"github.com/quitq-dev/quitq/internal/cli/commands"
	"github.com/quitq-dev/quitq/internal/cli/config"
	"github.com/quitq-dev/quitq/internal/cli/prompt"
	"github.com/quitq-dev/quitq/internal/logger"
	"github.com/quitq-dev/quitq/internal/session"
	"github.com/quitq-dev/quitq/internal/validate"
)

var version = "dev" // Will be set during build

type rootOptions struct {
	configPath string
	apiURL     string
	debug      bool
}

// openSessionStorage is replaced in tests
var openSessionStorage = openStorage

// NewRootCmd creates the quitq command tree. Every command shares one
// session store, restored before the command runs. The returned func closes
// the session storage; call it once the command has finished, failed or not.
func NewRootCmd() (*cobra.Command, func() error) {
	var opts rootOptions
	deps := &commands.Deps{
		Prompt:    prompt.Terminal{},
		Validator: validate.New(),
	}
	var closeStorage func() error
	webURL := config.DefaultWebURL

	rootCmd := &cobra.Command{
		Use:   "quitq",
		Short: "QuitQ - shop and sell from the terminal",
		Long: `QuitQ CLI - browse the catalog, manage your cart and orders,
run your shop as a seller, or administer the marketplace.

Your session is saved between runs. Start with 'quitq login'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if deps.Out == nil {
				deps.Out = cmd.OutOrStdout()
			}
			if cmd.Annotations[commands.SkipSession] == "true" {
				return nil
			}

			cfg, cleanup, err := setup(cmd, deps, opts)
			if err != nil {
				return err
			}
			closeStorage = cleanup
			if cfg.WebURL != "" {
				webURL = cfg.WebURL
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/quitq/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "QuitQ API URL (overrides config and QUITQ_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Log debug output to stderr")

	rootCmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "Print the version number",
		Annotations: map[string]string{commands.SkipSession: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quitq version %s\n", version)
		},
	})

	rootCmd.AddCommand(
		commands.NewConfigCmd(deps),
		commands.NewLoginCmd(deps),
		commands.NewLogoutCmd(deps),
		commands.NewRegisterCmd(deps),
		commands.NewAboutCmd(deps),
		commands.NewWhoamiCmd(deps),
		commands.NewHomeCmd(deps),
		commands.NewCategoriesCmd(deps),
		commands.NewProductsCmd(deps),
		commands.NewCartCmd(deps),
		commands.NewOrdersCmd(deps),
		commands.NewCheckoutCmd(deps),
		commands.NewAddressesCmd(deps),
		commands.NewProfileCmd(deps),
		commands.NewSellerCmd(deps),
		commands.NewAdminCmd(deps),
		commands.NewOpenCmd(deps, func() string { return webURL }),
	)

	closeSession := func() error {
		if closeStorage == nil {
			return nil
		}
		err := closeStorage()
		closeStorage = nil
		return err
	}

	return rootCmd, closeSession
}

// setup loads configuration, restores the session and builds the API client
func setup(cmd *cobra.Command, deps *commands.Deps, opts rootOptions) (*config.Config, func() error, error) {
	path := opts.configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w\nRun 'quitq config init' to create a configuration file", err)
	}
	if opts.apiURL != "" {
		cfg.APIURL = opts.apiURL
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	level := cfg.LogLevel
	if opts.debug {
		level = "debug"
	}
	deps.Log = logger.InitWriter(os.Stderr, level, "console")

	storage, closeStorage, err := openSessionStorage(cfg, filepath.Dir(path), deps)
	if err != nil {
		return nil, nil, err
	}

	deps.Session = session.NewStore(storage, deps.Log)
	deps.Session.Initialize(cmd.Context())

	clientOpts := []client.Option{client.WithLogger(deps.Log)}
	if cfg.Cache {
		clientOpts = append(clientOpts, client.WithCache())
	}
	deps.Client = client.New(cfg.APIURL, deps.Session, clientOpts...)

	return cfg, closeStorage, nil
}

// openStorage opens the session backend named by the config. The sqlite
// database defaults to a file next to the config file.
func openStorage(cfg *config.Config, configDir string, deps *commands.Deps) (session.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage {
	case config.StorageFile:
		storage, err := session.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		return storage, noop, nil
	case config.StorageSQLite:
		path := cfg.StoragePath
		if path == "" {
			path = filepath.Join(configDir, "session.sqlite")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, nil, fmt.Errorf("failed to create session directory: %w", err)
		}
		storage, err := session.OpenSQLiteStorage(path, deps.Log)
		if err != nil {
			return nil, nil, err
		}
		return storage, storage.Close, nil
	case config.StorageMemory:
		return session.NewMemoryStorage(), noop, nil
	default:
		return session.NewKeyringStorage(cfg.APIHost()), noop, nil
	}
}

// Execute runs the root command
func Execute() error {
	return execute(context.Background(), os.Args[1:], os.Stderr)
}

func execute(ctx context.Context, args []string, stderr io.Writer) error {
	rootCmd, closeSession := NewRootCmd()
	defer func() {
		if err := closeSession(); err != nil {
			fmt.Fprintf(stderr, "Warning: failed to close session storage: %v\n", err)
		}
	}()

	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
