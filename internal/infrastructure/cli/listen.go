package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/printhooks/pkg/domain/notify"
	"github.com/spf13/cobra"
)

var notifyStyles = map[string]lipgloss.Style{
	notify.TypeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	notify.TypeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	notify.TypeNotice:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	notify.TypeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
}

func renderNotification(n notify.Notification) string {
	style, ok := notifyStyles[n.Type]
	if !ok {
		style = notifyStyles[notify.TypeInfo]
	}
	return style.Render(fmt.Sprintf("[%s] %s: %s", n.Type, n.Title, n.Text))
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print notifications pushed by the host's webhooks plugin",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		services.Hub.Subscribe(func(n notify.Notification) {
			fmt.Fprintln(out, renderNotification(n))
		})

		fmt.Fprintf(out, "Listening on %s (Ctrl+C to stop)\n", services.Config.Host.URL)
		if err := services.PushClient().Run(ctx, services.Hub); err != nil && ctx.Err() == nil {
			return fmt.Errorf("push socket: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(listenCmd)
}
