// File: hotelbooking/main.go
package main

import (
	"fmt"
	"os"

	"hotelbooking/config"
	"hotelbooking/utils"

	"github.com/spf13/cobra"
)

const appName = "hotelbooking"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Hotel booking gateway",
		Long: `Booking gateway for the hotel site: prices stays, checks room
availability, submits reservations to the booking backend and follows
each booking until its payment is confirmed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			config.AppConfig = *cfg
			utils.InitializeLogger()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(serveCmd(), quoteCmd(), pollCmd(), lookupCmd())
	return cmd
}
