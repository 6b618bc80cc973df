package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"grocery-route-service/internal/config"
	"grocery-route-service/internal/platform/obs"
)

var rootCmd = &cobra.Command{
	Use:   "shopplan",
	Short: "Plan the cheapest grocery run across nearby stores",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		cfg := config.FromEnv()
		obs.Setup(cfg.LogLevel, true)
	},
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
