package cli

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/printhooks/pkg/domain/notify"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Save every profile to the host, then fire the selected profile's test event",
	Long: `Save every profile to the host, then fire the selected profile's test
event. The test event is only sent once the host has stored the settings, so
the host always tests what is shown here.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}

		if event, _ := cmd.Flags().GetString("event"); event != "" {
			p, err := services.Profiles.Current()
			if err != nil {
				return MapError(err)
			}
			if !p.IsTestEvent(event) {
				return NewCLIError(fmt.Sprintf("unknown test event %q", event),
					fmt.Sprintf("Choose one of %v", p.TestEvents()), nil)
			}
			raw, _ := json.Marshal(event)
			if err := services.Profiles.SetField("test_event", raw); err != nil {
				return MapError(err)
			}
			if err := services.Profiles.Save(); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		services.Hub.Subscribe(func(n notify.Notification) {
			fmt.Fprintln(out, renderNotification(n))
		})

		if _, err := services.TestFire.SaveAndTest(commandContext(cmd)); err != nil {
			return MapError(err)
		}
		return nil
	},
}

func init() {
	testCmd.Flags().String("event", "", "Set the selected profile's test event before firing")
	RootCmd.AddCommand(testCmd)
}
