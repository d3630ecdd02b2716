package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ftahirops/validatord/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Launch the interactive dashboard",
	Long:  `status runs the ticker loop behind a live bubbletea dashboard showing every service's monitoring state and a feed of recently posted events.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	log := setupLogging()
	ctx := context.Background()

	a, err := buildApp(ctx, log)
	if err != nil {
		return err
	}
	defer a.store.Close()

	feed := ui.NewEventFeed(a.bridge)
	a.sched.Bridge = feed

	m := ui.NewModel(a.sched, a.services, feed, a.cfg.Interval)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
