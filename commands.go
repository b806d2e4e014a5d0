package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"hotelbooking/config"
	"hotelbooking/models"
	"hotelbooking/services/booking"
	"hotelbooking/utils"

	"github.com/spf13/cobra"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func quoteCmd() *cobra.Command {
	var (
		rate              float64
		checkIn, checkOut string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a stay",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := time.Parse(models.DateLayout, checkIn)
			if err != nil {
				return fmt.Errorf("--check-in: %w", err)
			}
			out, err := time.Parse(models.DateLayout, checkOut)
			if err != nil {
				return fmt.Errorf("--check-out: %w", err)
			}
			return printJSON(booking.ComputePrice(rate, in, out))
		},
	}

	cmd.Flags().Float64Var(&rate, "rate", 0, "Nightly rate of the room")
	cmd.Flags().StringVar(&checkIn, "check-in", "", "Check-in date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&checkOut, "check-out", "", "Check-out date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("check-in")
	_ = cmd.MarkFlagRequired("check-out")
	return cmd
}

func pollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll <bookingId>",
		Short: "Follow a booking until its payment is confirmed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig
			a, cleanup, err := buildApp(&cfg, utils.GetLogger())
			if err != nil {
				return err
			}
			defer cleanup()

			state, err := a.Poller.Poll(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := printJSON(booking.Present(state)); err != nil {
				return err
			}
			if state.Phase == models.PollError {
				return fmt.Errorf("booking %s was not confirmed", args[0])
			}
			return nil
		},
	}
}

func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <bookingNumber>",
		Short: "Fetch a booking by its booking number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig
			a, cleanup, err := buildApp(&cfg, utils.GetLogger())
			if err != nil {
				return err
			}
			defer cleanup()

			conf, err := a.API.GetBookingByNumber(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(conf)
		},
	}
}
