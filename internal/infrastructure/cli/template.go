package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/printhooks/pkg/application"
	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
	"github.com/spf13/cobra"
)

var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Browse, apply and export profile templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		active := services.Profiles.TemplateName()
		for _, e := range services.Catalog.Templates() {
			line := fmt.Sprintf("%-12s %-28s %s", e.ID, e.Template.Name(), e.Template.Description())
			if e.Template.Name() == active || e.ID == active {
				fmt.Fprintln(out, selectedStyle.Render("* "+line))
				continue
			}
			fmt.Fprintln(out, "  "+line)
		}
		for _, f := range services.Catalog.Failures() {
			fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("! %s unavailable: %v", f.Name, f.Err)))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a template document (default: the active template)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		name := services.Profiles.TemplateName()
		if len(args) > 0 {
			name = args[0]
		}
		t, ok := services.Catalog.Get(name)
		if !ok {
			return MapError(fmt.Errorf("%w: %s", application.ErrTemplateNotFound, name))
		}
		data, err := t.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var templateApplyCmd = &cobra.Command{
	Use:   "apply [name]",
	Short: "Overlay a template onto the selected profile",
	Long: `Overlay a template onto the selected profile. Only the fields the
template names are changed. Naming a template also makes it the active one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		var res profile.OverlayResult
		var name string
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			t, err := readTemplateFile(file)
			if err != nil {
				return err
			}
			name = t.Name()
			res, err = services.Profiles.Overlay(t)
			if err != nil {
				return MapError(err)
			}
		} else {
			if len(args) > 0 {
				if _, err := services.Profiles.ChooseTemplate(args[0]); err != nil {
					return MapError(err)
				}
			}
			name = services.Profiles.TemplateName()
			res, err = services.Profiles.ApplyTemplate("")
			if err != nil {
				return MapError(err)
			}
		}
		if err := services.Profiles.Save(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Applied %s to profile %d (%d fields)\n", name, services.Profiles.Selected(), len(res.Applied))
		for _, k := range res.Skipped {
			fmt.Fprintln(out, warnStyle.Render("  skipped "+k))
		}
		return nil
	},
}

var templateExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the selected profile as a shareable template",
	Long: `Export the selected profile as a template. Secrets, the target URL and
per-installation flags are left out, and the OAuth settings are only kept
when OAuth is enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		t, err := services.Profiles.ExportCurrent()
		if err != nil {
			return MapError(err)
		}

		asURI, _ := cmd.Flags().GetBool("data-uri")
		output, _ := cmd.Flags().GetString("output")

		var data []byte
		if asURI {
			uri, err := t.DataURI()
			if err != nil {
				return err
			}
			data = []byte(uri)
		} else {
			data, err = t.JSON()
			if err != nil {
				return err
			}
		}

		if output == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		if err := os.WriteFile(output, append(data, '\n'), 0600); err != nil {
			return fmt.Errorf("failed to write template: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported profile %d to %s\n", services.Profiles.Selected(), output)
		return nil
	},
}

// readTemplateFile reads an exported template, either as JSON or as a data
// URI.
func readTemplateFile(path string) (profile.Template, error) {
	// #nosec G304 -- path is chosen by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, "data:") {
		return profile.ParseDataURI(text)
	}
	return profile.ParseTemplate([]byte(text))
}

func init() {
	templateApplyCmd.Flags().String("file", "", "Apply an exported template file (JSON or data URI)")
	templateExportCmd.Flags().Bool("data-uri", false, "Print a data: URI instead of JSON")
	templateExportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")

	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateApplyCmd)
	templateCmd.AddCommand(templateExportCmd)
	RootCmd.AddCommand(templateCmd)
}
