package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agrimarket/agrimarket/internal/cli/commands"
	"github.com/agrimarket/agrimarket/internal/cli/config"
	"github.com/agrimarket/agrimarket/internal/logger"
)

var version = "dev" // Will be set during build

// globalFlags override the loaded configuration for one invocation
type globalFlags struct {
	apiURL   string
	storage  string
	offline  bool
	logLevel string
}

// NewRootCmd builds the command tree. factory may be nil, in which case
// each command loads the configuration from the working directory.
func NewRootCmd(factory commands.AppFactory) *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "agrimarket",
		Short: "AgriMarket - the agricultural marketplace from your terminal",
		Long: `AgriMarket CLI - Connect farmers, buyers and advisors.

Sign in, browse products and market prices, and manage orders on an
AgriMarket marketplace. When the marketplace API is unreachable, login and
registration fall back to a local demo session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "Marketplace API URL (overrides AGRIMARKET_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flags.storage, "storage", "", "Session storage: default, file, keyring, sqlite, redis, memory")
	rootCmd.PersistentFlags().BoolVar(&flags.offline, "offline", false, "Do not contact the API for login and registration")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	if factory == nil {
		factory = defaultFactory(&flags)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agrimarket version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd(factory))
	rootCmd.AddCommand(commands.NewRegisterCmd(factory))
	rootCmd.AddCommand(commands.NewLogoutCmd(factory))
	rootCmd.AddCommand(commands.NewWhoamiCmd(factory))
	rootCmd.AddCommand(commands.NewOpenCmd(factory))
	rootCmd.AddCommand(commands.NewProductsCmd(factory))
	rootCmd.AddCommand(commands.NewMarketCmd(factory))
	rootCmd.AddCommand(commands.NewOrdersCmd(factory))

	return rootCmd
}

// defaultFactory loads configuration, applies the global flags and sets up
// logging before building the App
func defaultFactory(flags *globalFlags) commands.AppFactory {
	return func(ctx context.Context) (*commands.App, error) {
		cfg, err := config.LoadFromCurrentDir()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}

		if flags.apiURL != "" {
			cfg.APIURL = flags.apiURL
		}
		if flags.storage != "" {
			cfg.Storage.Backend = flags.storage
		}
		if flags.offline {
			cfg.Offline = true
		}
		if flags.logLevel != "" {
			cfg.Log.Level = flags.logLevel
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		log := logger.Init(cfg.Log.Level, cfg.Log.Format, os.Stderr)
		log.Debug().
			Str("config", cfg.Path).
			Str("api_url", cfg.APIURL).
			Str("storage", cfg.Storage.Backend).
			Bool("offline", cfg.Offline).
			Msg("Configuration loaded")

		return commands.NewApp(ctx, cfg, commands.WithLogger(log))
	}
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd(nil).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
