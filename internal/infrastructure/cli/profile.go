package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/printhooks/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
	"github.com/spf13/cobra"
)

var selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
var mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Edit the webhook profiles in the workspace draft",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		printProfiles(cmd.OutOrStdout(), services)
		return nil
	},
}

var profileAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a profile with default values and select it",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		idx := services.Profiles.Add()

		if tmpl, _ := cmd.Flags().GetString("template"); tmpl != "" {
			if _, err := services.Profiles.ApplyTemplate(tmpl); err != nil {
				return MapError(err)
			}
		}
		if err := services.Profiles.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added profile %d\n", idx)
		return nil
	},
}

var profileCopyCmd = &cobra.Command{
	Use:   "copy [index]",
	Short: "Duplicate a profile (default: the selected one) and select the copy",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		src, err := indexArg(args, services.Profiles.Selected())
		if err != nil {
			return err
		}
		idx, err := services.Profiles.CopyAt(src)
		if err != nil {
			return MapError(err)
		}
		if err := services.Profiles.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Copied profile %d to %d\n", src, idx)
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove [index]",
	Short: "Remove a profile (default: the selected one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		idx, err := indexArg(args, services.Profiles.Selected())
		if err != nil {
			return err
		}
		if err := services.Profiles.RemoveAt(idx); err != nil {
			return MapError(err)
		}
		if err := services.Profiles.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %d\n", idx)
		return nil
	},
}

var profileSelectCmd = &cobra.Command{
	Use:   "select <index>",
	Short: "Select the profile to edit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		idx, err := indexArg(args, 0)
		if err != nil {
			return err
		}
		sel := services.Profiles.Select(idx)
		if err := services.Profiles.Save(); err != nil {
			return err
		}
		if sel != idx {
			fmt.Fprintf(cmd.OutOrStdout(), "Profile %d does not exist, selected %d\n", idx, sel)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Selected profile %d\n", sel)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every field of the selected profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		p, err := services.Profiles.Current()
		if err != nil {
			return MapError(err)
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		reveal, _ := cmd.Flags().GetBool("reveal")
		fmt.Fprintf(out, "Profile %d\n", services.Profiles.Selected())
		for _, f := range profile.Schema {
			v := f.Value(p)
			if f.Key == "apiSecret" && !reveal && p.APISecret != "" {
				v = "********"
			}
			fmt.Fprintf(out, "  %-30s %v\n", f.Key, formatValue(v))
		}
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set a field of the selected profile",
	Long: `Set a field of the selected profile. Text fields take the value as is,
other fields take JSON (true, 5, [{"name":"Home","message":"homed"}]).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		key, value := args[0], args[1]
		f, ok := profile.Lookup(key)
		if !ok {
			return MapError(fmt.Errorf("%w: %s", profile.ErrUnknownField, key))
		}
		p, err := services.Profiles.Current()
		if err != nil {
			return MapError(err)
		}
		raw, err := rawValue(f.Value(p), value)
		if err != nil {
			return err
		}
		if err := services.Profiles.SetField(key, raw); err != nil {
			return MapError(err)
		}
		if err := services.Profiles.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s on profile %d\n", key, services.Profiles.Selected())
		return nil
	},
}

var profileEventAddCmd = &cobra.Command{
	Use:   "event-add <name> [message]",
	Short: "Add a custom event to the selected profile",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		message := ""
		if len(args) > 1 {
			message = args[1]
		}
		if err := services.Profiles.AddCustomEvent(args[0], message); err != nil {
			return MapError(err)
		}
		if err := services.Profiles.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added custom event %q\n", args[0])
		return nil
	},
}

var profileEventRemoveCmd = &cobra.Command{
	Use:   "event-rm <index>",
	Short: "Remove a custom event from the selected profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		idx, err := indexArg(args, 0)
		if err != nil {
			return err
		}
		if err := services.Profiles.RemoveCustomEvent(idx); err != nil {
			return MapError(err)
		}
		if err := services.Profiles.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed custom event %d\n", idx)
		return nil
	},
}

var profileResetCmd = &cobra.Command{
	Use:       "reset <data|headers|oauth_data|oauth_headers>",
	Short:     "Restore a request template of the selected profile to its default",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"data", "headers", "oauth_data", "oauth_headers"},
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCommand(cmd)
		if err != nil {
			return err
		}
		if err := services.Profiles.Reset(args[0]); err != nil {
			return MapError(err)
		}
		if err := services.Profiles.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s\n", args[0])
		return nil
	},
}

func printProfiles(out io.Writer, services *wiring.AppServices) {
	profiles := services.Profiles.Profiles()
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No profiles. Run 'printhooks profile add' to create one.")
		return
	}
	sel := services.Profiles.Selected()
	for i, p := range profiles {
		state := "enabled"
		if !p.Enabled {
			state = "disabled"
		}
		url := p.URL
		if url == "" {
			url = "(no url)"
		}
		line := fmt.Sprintf("%d  %-6s %-8s %s", i, p.HTTPMethod, state, url)
		if i == sel {
			fmt.Fprintln(out, selectedStyle.Render("* "+line))
			continue
		}
		fmt.Fprintln(out, "  "+line)
	}
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("template: %s", services.Profiles.TemplateName())))
}

func indexArg(args []string, fallback int) (int, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", args[0])
	}
	return i, nil
}

// rawValue encodes value for a field whose current value is current. Text
// fields take the argument verbatim.
func rawValue(current any, value string) (json.RawMessage, error) {
	if _, isText := current.(string); isText {
		return json.Marshal(value)
	}
	if !json.Valid([]byte(value)) {
		return nil, fmt.Errorf("value %q is not valid JSON", value)
	}
	return json.RawMessage(value), nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if strings.Contains(val, "\n") {
			return strconv.Quote(val)
		}
		return val
	case []profile.CustomEvent:
		if len(val) == 0 {
			return "[]"
		}
		names := make([]string, len(val))
		for i, e := range val {
			names[i] = e.Name
		}
		return "[" + strings.Join(names, ", ") + "]"
	default:
		return fmt.Sprint(val)
	}
}

func init() {
	profileAddCmd.Flags().String("template", "", "Apply a template to the new profile")
	profileShowCmd.Flags().Bool("json", false, "Print the profile as JSON")
	profileShowCmd.Flags().Bool("reveal", false, "Show the API secret")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileCopyCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	profileCmd.AddCommand(profileSelectCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileEventAddCmd)
	profileCmd.AddCommand(profileEventRemoveCmd)
	profileCmd.AddCommand(profileResetCmd)
	RootCmd.AddCommand(profileCmd)
}
