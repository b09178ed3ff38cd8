package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/petfit-backend/internal/app"
)

var (
	cfgFile string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "petfitctl",
	Short: "Operate the pet food recommendation service",
	Long: `petfitctl runs recommendation operations against the configured database and cache.

It reads the same configuration as the server (config.yaml, CONFIG_PATH, PETFIT_* env).

Examples:
  petfitctl recommend --pet 3f0c... --limit 3
  petfitctl invalidate product 9a1e...
  petfitctl invalidate all`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			return os.Setenv(app.ConfigPathEnvVar, cfgFile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Overall command timeout")
}

// withApp builds the app without starting the HTTP server and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	a, err := app.New(ctx)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close(context.Background())
	return fn(ctx, a)
}
