package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/karolswdev/campuscare/internal/deadline"
)

var deadlineCmd = &cobra.Command{
	Use:     "deadline",
	Aliases: []string{"deadlines"},
	Short:   "Manage the deadlines CampusCare reminds you about",
}

var deadlineAddCmd = &cobra.Command{
	Use:     "add <user-id> <task> <YYYY-MM-DD>",
	Short:   "Add or move a deadline",
	Args:    cobra.ExactArgs(3),
	Example: `  care deadline add alex "Stats midterm" 2026-03-04`,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := GetProvider()
		if err != nil {
			return fmt.Errorf("failed to get service provider: %w", err)
		}
		defer provider.Close()
		return deadlineAddRunE(cmd.Context(), provider.Profiles, cmd.OutOrStdout(), args[0], args[1], args[2])
	},
}

var deadlineListCmd = &cobra.Command{
	Use:   "list <user-id>",
	Short: "List upcoming deadlines",
	Long: `Lists the deadlines inside the reminder window (deadlines.horizon_days, overdue
tasks included). Use --all to list every stored deadline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := GetProvider()
		if err != nil {
			return fmt.Errorf("failed to get service provider: %w", err)
		}
		defer provider.Close()

		all, _ := cmd.Flags().GetBool("all")
		outputFormat, _ := cmd.Flags().GetString("output")
		return deadlineListRunE(cmd.Context(), provider.Profiles, cmd.OutOrStdout(), args[0],
			provider.AppConfig.Deadlines.HorizonDays, all, outputFormat, time.Now())
	},
}

var deadlineRemoveCmd = &cobra.Command{
	Use:   "remove <user-id> <task>",
	Short: "Remove a deadline",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := GetProvider()
		if err != nil {
			return fmt.Errorf("failed to get service provider: %w", err)
		}
		defer provider.Close()
		return deadlineRemoveRunE(cmd.Context(), provider.Profiles, cmd.OutOrStdout(), args[0], args[1])
	},
}

func init() {
	deadlineListCmd.Flags().Bool("all", false, "List every stored deadline, not only upcoming ones")

	deadlineCmd.AddCommand(deadlineAddCmd)
	deadlineCmd.AddCommand(deadlineListCmd)
	deadlineCmd.AddCommand(deadlineRemoveCmd)
	rootCmd.AddCommand(deadlineCmd)
}

func deadlineAddRunE(ctx context.Context, profiles ProfileManager, out io.Writer, userID, task, due string) error {
	if err := profiles.SetDeadline(ctx, userID, task, due); err != nil {
		return fmt.Errorf("failed to save deadline: %w", err)
	}
	fmt.Fprintf(out, "Deadline saved: %s due %s\n", task, due)
	return nil
}

type deadlineEntry struct {
	Task string `json:"task"`
	Due  string `json:"due"`
}

func deadlineListRunE(ctx context.Context, profiles ProfileManager, out io.Writer, userID string, horizonDays int, all bool, outputFormat string, today time.Time) error {
	p, err := profiles.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	var tasks []string
	if all {
		tasks = make([]string, 0, len(p.Deadlines))
		for task := range p.Deadlines {
			tasks = append(tasks, task)
		}
		sort.Slice(tasks, func(i, j int) bool {
			if p.Deadlines[tasks[i]] == p.Deadlines[tasks[j]] {
				return tasks[i] < tasks[j]
			}
			return p.Deadlines[tasks[i]] < p.Deadlines[tasks[j]]
		})
	} else {
		tasks, err = deadline.NewTracker(profiles, horizonDays).Upcoming(ctx, userID, today)
		if err != nil {
			return fmt.Errorf("failed to load deadlines: %w", err)
		}
	}

	if outputFormat == "json" {
		entries := make([]deadlineEntry, len(tasks))
		for i, task := range tasks {
			entries[i] = deadlineEntry{Task: task, Due: p.Deadlines[task]}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format deadlines as JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if !all {
		fmt.Fprintln(out, deadline.Reminder(tasks))
	}
	for _, task := range tasks {
		fmt.Fprintf(out, "  - %s (%s)\n", task, p.Deadlines[task])
	}
	return nil
}

func deadlineRemoveRunE(ctx context.Context, profiles ProfileManager, out io.Writer, userID, task string) error {
	removed, err := profiles.RemoveDeadline(ctx, userID, task)
	if err != nil {
		return fmt.Errorf("failed to remove deadline: %w", err)
	}
	if !removed {
		fmt.Fprintf(out, "No deadline named %q for %s.\n", task, userID)
		return nil
	}
	fmt.Fprintf(out, "Deadline removed: %s\n", task)
	return nil
}
