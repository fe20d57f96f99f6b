package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/merchant-ops/internal/cli"
	"github.com/Veraticus/merchant-ops/internal/common"
	"github.com/Veraticus/merchant-ops/internal/config"
)

var (
	cfgFile string
	version = "dev"
	logFile *os.File
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "merchops",
		Short: "Merchant operations console",
		Long: `merchops: review, filter and edit the merchant portfolio.

Run 'merchops tui' for the interactive console, or use the list, show,
stats and export commands for scripted access to the same data.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/merchops/config.yaml)")
	root.PersistentFlags().String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", config.DefaultLogFormat, "log format (console, json)")
	root.PersistentFlags().String("log-file", "", "write logs to this file")
	root.PersistentFlags().String("seed", "", "YAML file with the initial merchant list (default: built-in)")

	_ = viper.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("logging.file", root.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("seed.path", root.PersistentFlags().Lookup("seed"))

	root.AddCommand(tuiCmd())
	root.AddCommand(merchantsCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(authCmd())
	root.AddCommand(versionCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if logFile != nil {
		_ = logFile.Close()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "merchops"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MERCHOPS")
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := setupLogging(cmd.Name() == "tui"); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

// setupLogging writes logs to stderr, or to logging.file when set. The
// interactive console owns the terminal, so without a file its logs are
// discarded.
func setupLogging(interactive bool) error {
	var w io.Writer = os.Stderr
	if path := config.ExpandPath(viper.GetString("logging.file")); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		w = f
	} else if interactive {
		w = io.Discard
	}

	return common.SetupLogger(
		common.ParseLevel(viper.GetString("logging.level")),
		viper.GetString("logging.format"),
		w,
	)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "merchops %s\n", version)
			slog.Debug("merchops version", "version", version)
		},
	}
}
