package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/felixgeelhaar/printhooks/internal/infrastructure/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCLI executes the root command against the workspace at root and
// returns what the command wrote to stdout.
func runCLI(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()

	resetFlags(RootCmd)
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(io.Discard)
	RootCmd.SetArgs(append([]string{"--project", root}, args...))
	err := RootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// isolateEnv points the workspace at host without touching the caller's
// environment.
func isolateEnv(t *testing.T, host string) {
	t.Helper()
	t.Setenv(config.EnvHost, host)
	t.Setenv(config.EnvAPIKey, "")
}
