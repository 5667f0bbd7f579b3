package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/rendezvous/internal/availability"
	"github.com/javiermolinar/rendezvous/internal/clock"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
	"github.com/javiermolinar/rendezvous/internal/meeting"
	"github.com/javiermolinar/rendezvous/internal/tui/input"
)

func (a *App) selectCmd() *cobra.Command {
	var participant string

	cmd := &cobra.Command{
		Use:     "select",
		Aliases: []string{"sel"},
		Short:   "Mark or clear when you are available",
	}
	cmd.PersistentFlags().StringVar(&participant, "as", a.config.Participant.ID, "Participant to record availability for")

	cmd.AddCommand(a.selectEditCmd("add", "Mark time ranges as available", &participant))
	cmd.AddCommand(a.selectEditCmd("remove", "Clear time ranges", &participant))
	cmd.AddCommand(a.selectShowCmd(&participant))
	return cmd
}

type rangeEdit func(ctx context.Context, m *meeting.Meeting, participant string, date time.Time, start, end clock.Clock) (*availability.DaySelection, error)

func (a *App) selectEditCmd(use, short string, participant *string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <meeting> <date> <HH:MM-HH:MM>...",
		Short: short,
		Long: short + ` on one day of a meeting.

The date accepts YYYY-MM-DD, "today", "tomorrow" or a weekday name.

Example:
  rendezvous select ` + use + ` 3f2a tuesday 09:00-12:00 14:00-15:30`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := a.resolveMeeting(ctx, args[0])
			if err != nil {
				return err
			}

			day, err := dateutil.ParseRelativeDate(args[1], time.Now())
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[1], err)
			}
			day = utcDay(day)

			edit := rangeEdit(a.svc.AddRange)
			if use == "remove" {
				edit = a.svc.RemoveRange
			}

			var sel *availability.DaySelection
			for _, arg := range args[2:] {
				start, end, err := input.ParseRange(arg)
				if err != nil {
					return err
				}
				if sel, err = edit(ctx, m, *participant, day, start, end); err != nil {
					return fmt.Errorf("%s %s: %w", use, arg, err)
				}
			}

			PrintSelections(cmd.OutOrStdout(), []*availability.DaySelection{sel})
			return nil
		},
	}
}

func (a *App) selectShowCmd(participant *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <meeting>",
		Short: "Show your availability for every day of a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := a.resolveMeeting(ctx, args[0])
			if err != nil {
				return err
			}

			sels, err := a.svc.Selections(ctx, m, *participant)
			if err != nil {
				return fmt.Errorf("loading selections: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "  %s  %s\n", formatHeader(m.Title), formatMuted(*participant))
			PrintSelections(out, sels)
			return nil
		},
	}
}
