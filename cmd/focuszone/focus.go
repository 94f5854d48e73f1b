package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sketch0395/focuszone/internal/service"
)

func newFocusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus <minutes>",
		Short: "Record a completed focus session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil || minutes <= 0 {
				return fmt.Errorf("minutes must be a positive integer, got %q", args[0])
			}
			now := time.Now()

			progress, err := a.orch.LoadProgress(ctx)
			if err != nil {
				return err
			}
			updated, leveledUp, unlocked := service.RecordFocusSession(progress, minutes, now)
			if err := a.orch.SaveProgress(ctx, updated); err != nil {
				return err
			}

			usage, err := a.orch.LoadUsage(ctx)
			if err != nil {
				return err
			}
			if err := a.orch.SaveUsage(ctx, service.RecordVisit(usage, service.DateKey(now))); err != nil {
				return err
			}

			color.Green("✔ %d-minute focus session recorded, +%d points",
				minutes, updated.LastPointsEarned)
			announceRewards(updated, leveledUp, unlocked)
			return touchPet(ctx, a, updated.Level)
		}),
	}
}
