package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/rendezvous/internal/availability"
	"github.com/javiermolinar/rendezvous/internal/meeting"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

func (a *App) overlapCmd() *cobra.Command {
	var (
		only    []string
		top     int
		copyOut bool
		grid    bool
	)

	cmd := &cobra.Command{
		Use:   "overlap <meeting>",
		Short: "Show when participants are available together",
		Long: `Show a heat map of everyone's availability and the best times to meet.

--only restricts the count to some participants; --top sets how many
suggestions are listed; --copy puts the suggestions on the clipboard.

Example:
  rendezvous overlap 3f2a --only alice,bob --top 5 --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := a.resolveMeeting(ctx, args[0])
			if err != nil {
				return err
			}

			days, err := a.svc.Overlap(ctx, m)
			if err != nil {
				return err
			}
			included := normalizeParticipants(only)

			out := cmd.OutOrStdout()
			opts := OverlapOpts{Included: included, TwelveHour: a.config.UI.TwelveHour}
			total := len(opts.participants(days))

			header := fmt.Sprintf("OVERLAP: %s  %s", m.Title, dateSpan(m))
			fmt.Fprintf(out, "\n  %s\n", formatHeader(header))
			fmt.Fprintln(out, strings.Repeat("─", 60))

			if grid {
				if err := PrintOverlapGrid(out, m, days, opts); err != nil {
					return err
				}
				fmt.Fprintln(out, strings.Repeat("─", 60))
			}

			standouts, err := a.svc.Standouts(ctx, m, included, top)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %s\n", formatHeader("BEST TIMES"))
			PrintStandouts(out, standouts, total, a.config.UI.TwelveHour)

			if copyOut && availability.Suggestable(standouts) {
				if err := copyToClipboard(PlainStandouts(standouts, a.config.UI.TwelveHour)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(out, formatMuted("  Copied to clipboard."))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, "Only count these participants (comma-separated)")
	cmd.Flags().IntVar(&top, "top", meeting.DefaultTopN, "Number of suggested times")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the suggested times to the clipboard")
	cmd.Flags().BoolVar(&grid, "grid", true, "Show the heat map grid")
	return cmd
}

// normalizeParticipants trims ids and drops blanks.
func normalizeParticipants(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
