package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/karolswdev/campuscare/internal/chat"
	"github.com/karolswdev/campuscare/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Set up and inspect student profiles",
}

var profileSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create or update a profile",
	Long: `Stores the name, major, year of study, common stressors and university used to
personalise replies. The name doubles as the user id for 'care chat --user'.`,
	Example: `  care profile setup --name alex --major "Computer Science" --year 2 \
    --stressors "exams, part-time job" --university "Centennial College"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := GetProvider()
		if err != nil {
			return fmt.Errorf("failed to get service provider: %w", err)
		}
		defer provider.Close()

		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		major, _ := flags.GetString("major")
		year, _ := flags.GetString("year")
		stressors, _ := flags.GetString("stressors")
		university, _ := flags.GetString("university")
		return profileSetupRunE(cmd.Context(), provider.Profiles, cmd.OutOrStdout(), name, major, year, stressors, university)
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a stored profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := GetProvider()
		if err != nil {
			return fmt.Errorf("failed to get service provider: %w", err)
		}
		defer provider.Close()

		outputFormat, _ := cmd.Flags().GetString("output")
		return profileShowRunE(cmd.Context(), provider.Profiles, cmd.OutOrStdout(), args[0], outputFormat)
	},
}

func init() {
	profileSetupCmd.Flags().String("name", "", "Your name (used as your user id)")
	profileSetupCmd.Flags().String("major", "", "Your major or program")
	profileSetupCmd.Flags().String("year", "", "Year of study")
	profileSetupCmd.Flags().String("stressors", "", "Things that commonly stress you out")
	profileSetupCmd.Flags().String("university", "", "Your university or college, e.g. \"University of Toronto\"")

	profileCmd.AddCommand(profileSetupCmd)
	profileCmd.AddCommand(profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}

// profileSetupRunE prints the setup status. A blank name is reported, not returned as an
// error.
func profileSetupRunE(ctx context.Context, profiles ProfileManager, out io.Writer, name, major, year, stressors, university string) error {
	status, userID, err := chat.SetupProfile(ctx, profiles, name, major, year, stressors, university)
	if err != nil {
		Log.Error().Err(err).Msg("Failed to save profile")
		return fmt.Errorf("failed to save profile: %w", err)
	}
	fmt.Fprintln(out, status)
	if userID != "" {
		fmt.Fprintf(out, "Start chatting with: care chat --user %q\n", userID)
	}
	return nil
}

func profileShowRunE(ctx context.Context, profiles ProfileManager, out io.Writer, userID, outputFormat string) error {
	p, err := profiles.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format profile as JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := yaml.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to format profile as YAML: %w", err)
		}
		fmt.Fprint(out, string(data))
	default:
		writeProfileText(out, userID, p)
	}
	return nil
}

func writeProfileText(out io.Writer, userID string, p profile.UserProfile) {
	orNone := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	fmt.Fprintf(out, "Profile: %s\n", userID)
	fmt.Fprintf(out, "  Name:             %s\n", orNone(p.Name))
	fmt.Fprintf(out, "  Major:            %s\n", p.MajorOrDefault())
	fmt.Fprintf(out, "  Year of study:    %s\n", orNone(p.YearOfStudy))
	fmt.Fprintf(out, "  Common stressors: %s\n", orNone(p.CommonStressors))
	fmt.Fprintf(out, "  University:       %s\n", orNone(p.University))
	fmt.Fprintf(out, "  Last emotion:     %s\n", p.LastEmotionOrDefault())
	fmt.Fprintf(out, "  Last conversation: %s\n", p.LastConversationOrDefault())
	if len(p.Deadlines) == 0 {
		fmt.Fprintln(out, "  Deadlines:        none")
		return
	}
	fmt.Fprintln(out, "  Deadlines:")
	tasks := make([]string, 0, len(p.Deadlines))
	for task := range p.Deadlines {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)
	for _, task := range tasks {
		fmt.Fprintf(out, "    - %s (%s)\n", task, p.Deadlines[task])
	}
}
