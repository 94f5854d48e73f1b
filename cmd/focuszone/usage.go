package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sketch0395/focuszone/internal/service"
)

func newUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show usage history and streaks",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			now := time.Now()

			u, err := a.orch.LoadUsage(ctx)
			if err != nil {
				return err
			}
			stats := service.Stats(u, now)

			color.New(color.Bold).Println("Usage")
			fmt.Printf("  Total active days: %d\n", stats.TotalDays)
			fmt.Printf("  Total sessions:    %d\n", u.TotalSessions)
			fmt.Printf("  Current streak:    %d days\n", stats.CurrentStreak)
			fmt.Printf("  Longest streak:    %d days\n", stats.LongestStreak)
			fmt.Printf("  Active this month: %d days\n", stats.ThisMonth)
			if stats.LastActive != "" {
				fmt.Printf("  Last active:       %s\n", stats.LastActive)
			}
			return nil
		}),
	}
}
