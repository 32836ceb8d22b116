package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shandysiswandi/myfarm/internal/app"
	"github.com/spf13/cobra"
)

var (
	configPath string
	baseURL    string
	address    string
)

var rootCmd = &cobra.Command{
	Use:   "myfarm",
	Short: "MyFarm storefront in the terminal",
	Long: `Sign in with a one-time code sent to your phone, browse MyFarm packages
and add them to your cart.`,
	SilenceUsage: true,
	RunE: func(*cobra.Command, []string) error {
		run(app.ModeStorefront, app.Options{ConfigPath: configPath, BaseURL: baseURL})
		return nil
	},
}

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Run a local stand-in for the MyFarm API",
	Long: `Serve the MyFarm API from memory for development. Sent codes are
written to the log instead of an SMS.`,
	RunE: func(*cobra.Command, []string) error {
		run(app.ModeSandbox, app.Options{ConfigPath: configPath, Address: address})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $CONFIG_PATH or ./config/config.yaml)")
	rootCmd.Flags().StringVar(&baseURL, "api", "", "MyFarm API base URL (overrides api.base_url)")
	sandboxCmd.Flags().StringVar(&address, "addr", "", "listen address (overrides sandbox.address)")

	rootCmd.AddCommand(sandboxCmd)
}

func run(mode app.Mode, opts app.Options) {
	application := app.New(mode, opts) // Initialize the application
	wait := application.Start()        // Start the application and wait for the termination signal
	<-wait                             // Wait for the application to terminate
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
