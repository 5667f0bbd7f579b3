package ui

import (
	"github.com/spf13/cobra"

	"github.com/javiermolinar/rendezvous/internal/tui"
)

func (a *App) pickCmd() *cobra.Command {
	var participant string

	cmd := &cobra.Command{
		Use:   "pick <meeting>",
		Short: "Pick your availability in an interactive grid",
		Long: `Open a full-screen grid of the meeting's days and slots.

Move with h/j/k/l, toggle a slot with space, save with s. The heat map
shows how many participants are free in each slot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.resolveMeeting(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return tui.RunWithDebug(a.svc, m, participant, a.config, a.debug)
		},
	}

	cmd.Flags().StringVar(&participant, "as", a.config.Participant.ID, "Participant to record availability for")
	return cmd
}
