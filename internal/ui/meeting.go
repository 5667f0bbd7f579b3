package ui

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/rendezvous/internal/clock"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
)

func (a *App) meetingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "meeting",
		Aliases: []string{"m"},
		Short:   "Create, list, show or delete meetings",
	}

	cmd.AddCommand(a.meetingCreateCmd())
	cmd.AddCommand(a.meetingListCmd())
	cmd.AddCommand(a.meetingShowCmd())
	cmd.AddCommand(a.meetingDeleteCmd())
	return cmd
}

func (a *App) meetingCreateCmd() *cobra.Command {
	var (
		start   string
		end     string
		days    int
		minTime string
		maxTime string
		size    float64
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a meeting to collect availability for",
		Long: `Create a meeting spanning a range of days and a daily time window.

Dates accept YYYY-MM-DD, "today", "tomorrow" or a weekday name.
--end is exclusive; without it the meeting lasts --days days.

Example:
  rendezvous meeting create "Team sync" --start monday --days 5 --from 09:00 --to 17:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			now := time.Now()
			startDate, err := dateutil.ParseRelativeDate(start, now)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			startDate = utcDay(startDate)

			endDate := startDate.AddDate(0, 0, days)
			if end != "" {
				parsed, err := dateutil.ParseRelativeDate(end, now)
				if err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
				endDate = utcDay(parsed)
			}

			from, err := clock.Parse(minTime)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			to, err := clock.Parse(maxTime)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}

			m, err := a.svc.CreateMeeting(cmd.Context(), args[0], startDate, endDate, from, to, size)
			if err != nil {
				return fmt.Errorf("creating meeting: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created meeting %s\n", formatStats(m.ShortID()))
			PrintMeetingRow(out, m)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "today", "First day of the meeting")
	cmd.Flags().StringVar(&end, "end", "", "Day after the last day (overrides --days)")
	cmd.Flags().IntVar(&days, "days", a.config.Schedule.Days, "Number of days")
	cmd.Flags().StringVar(&minTime, "from", a.config.Schedule.MinTime, "Earliest time of day (HH:MM)")
	cmd.Flags().StringVar(&maxTime, "to", a.config.Schedule.MaxTime, "Latest time of day (HH:MM)")
	cmd.Flags().Float64Var(&size, "interval", a.config.Schedule.IntervalSize, "Slot size in hours (multiple of 0.5)")
	return cmd
}

func (a *App) meetingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List meetings, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			meetings, err := a.svc.Meetings(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing meetings: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(meetings) == 0 {
				fmt.Fprintln(out, "No meetings yet. Create one with \"rendezvous meeting create\".")
				return nil
			}
			for _, m := range meetings {
				PrintMeetingRow(out, m)
			}
			return nil
		},
	}
}

func (a *App) meetingShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <meeting>",
		Short: "Show a meeting and who has responded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := a.resolveMeeting(ctx, args[0])
			if err != nil {
				return err
			}

			participants, err := a.svc.Participants(ctx, m)
			if err != nil {
				return fmt.Errorf("listing participants: %w", err)
			}

			PrintMeetingDetails(cmd.OutOrStdout(), m, participants)
			return nil
		},
	}
}

func (a *App) meetingDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <meeting>",
		Aliases: []string{"rm"},
		Short:   "Delete a meeting and all of its selections",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := a.resolveMeeting(ctx, args[0])
			if err != nil {
				return err
			}

			if err := a.svc.DeleteMeeting(ctx, m.ID); err != nil {
				return fmt.Errorf("deleting meeting: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meeting %s (%s)\n", m.ShortID(), m.Title)
			return nil
		},
	}
}

// utcDay keeps the calendar day of t at UTC midnight, the form selections
// are stored in.
func utcDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
