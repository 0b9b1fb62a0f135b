package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hiring-portal/internal/application"
)

func newSlotsCommand(opts *rootOptions) *cobra.Command {
	var (
		email    string
		name     string
		duration int
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List open interview slots for an interviewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg, logger, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			slots, err := a.interviews.AvailableSlots(cmd.Context(), application.AvailableSlotsParams{
				Interviewer:     application.Interviewer{Name: name, Email: email},
				DurationMinutes: duration,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, slot := range slots {
				fmt.Fprintf(out, "%s - %s\n",
					slot.Start.In(cfg.Location).Format("2006-01-02 (Mon) 15:04"),
					slot.End.In(cfg.Location).Format("15:04"))
			}
			if len(slots) == 0 {
				fmt.Fprintln(out, "no open slots")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "interviewer-email", "", "interviewer email address")
	cmd.Flags().StringVar(&name, "interviewer-name", "", "interviewer display name")
	cmd.Flags().IntVar(&duration, "duration", 60, "interview length in minutes")
	_ = cmd.MarkFlagRequired("interviewer-email")
	return cmd
}
