package cli

import (
	"fmt"

	"github.com/felixgeelhaar/printhooks/pkg/storage"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <config.yaml>",
	Short: "Replace the draft with the webhook profiles of a host config file",
	Long: `Replace the draft with the webhook profiles stored in a host config.yaml.
Settings written by older plugin versions are migrated to the current layout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}

		settings, err := storage.ImportHostConfig(args[0], services.Config.Host.PluginID)
		if err != nil {
			return MapError(err)
		}
		n := services.Profiles.Replace(settings)
		if err := services.Profiles.Save(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d profiles from %s\n", n, args[0])
		return nil
	},
}

func init() {
	RootCmd.AddCommand(importCmd)
}
