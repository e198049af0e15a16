package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"fashion-show/config"
	"fashion-show/internal/logging"
)

// Environment variables read after an optional .env file.
const (
	envConfig = "FASHIONSHOW_CONFIG"
	envAssets = "FASHIONSHOW_ASSETS"
)

var rootCmd = &cobra.Command{
	Use:   "fashionshow",
	Short: "A 3D runway show driven by the number keys",
	Long: `fashionshow renders a showroom with a stage, an audience and smoke,
and walks the runway models out in the order bound to each key.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "show file (YAML); defaults are used when empty")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
}

// loadConfig resolves the show file from the flag or the environment and
// applies the asset root override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(envConfig)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if root := os.Getenv(envAssets); root != "" {
		cfg.Assets.Root = root
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	s, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(s)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}
