package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var projectPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "printhooks",
	Version: Version,
	Short:   "Manage webhook profiles of a print host",
	Long: `printhooks edits the webhook profiles of a print host's webhooks plugin.
Profiles are drafted locally, seeded from preset templates, shared as
template exports, and saved to the host before a test event is fired.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	err := MapError(RootCmd.Execute())
	if err == nil {
		return nil
	}
	out := RootCmd.ErrOrStderr()
	fmt.Fprintf(out, "Error: %v\n", err)
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Hint != "" {
		fmt.Fprintf(out, "Hint: %s\n", cliErr.Hint)
	}
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&projectPath, "project", "C", "", "Workspace directory (default: current directory)")
}
