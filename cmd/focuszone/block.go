package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sketch0395/focuszone/internal/schema"
	"github.com/sketch0395/focuszone/internal/service"
)

func newBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Manage the daily routine blocks",
	}
	cmd.AddCommand(
		newBlockListCmd(),
		newBlockCompleteCmd(),
		newBlockAddCmd(),
		newBlockResetCmd(),
	)
	return cmd
}

func newBlockListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List today's routine",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			blocks, err := a.orch.LoadRoutine(ctx)
			if err != nil {
				return err
			}
			printBlocks(blocks)
			return nil
		}),
	}
}

func printBlocks(blocks []schema.Block) {
	green := color.New(color.FgGreen)
	for _, b := range blocks {
		mark := "[ ]"
		if b.Completed {
			mark = green.Sprint("[✔]")
		}
		fmt.Printf("%s %s–%s  %-28s (%s)  id=%s\n",
			mark, b.StartTime, b.EndTime, b.Name, b.Category, b.ID)
	}
}

func newBlockCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <block-id>",
		Short: "Mark a block completed and earn points",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			now := time.Now()

			blocks, err := a.orch.LoadRoutine(ctx)
			if err != nil {
				return err
			}

			idx := -1
			for i, b := range blocks {
				if b.ID == args[0] {
					idx = i
					break
				}
			}
			if idx < 0 {
				return fmt.Errorf("no block with id %q", args[0])
			}
			if blocks[idx].Completed {
				fmt.Printf("%q is already completed.\n", blocks[idx].Name)
				return nil
			}

			blocks[idx].Completed = true
			if err := a.orch.SaveRoutine(ctx, blocks); err != nil {
				return err
			}

			progress, err := a.orch.LoadProgress(ctx)
			if err != nil {
				return err
			}
			updated, leveledUp, unlocked := service.RecordBlockCompletion(progress, now)
			if err := a.orch.SaveProgress(ctx, updated); err != nil {
				return err
			}

			color.Green("✔ %s completed, +%d points", blocks[idx].Name, service.PointsBlockCompleted)
			announceRewards(updated, leveledUp, unlocked)
			return touchPet(ctx, a, updated.Level)
		}),
	}
}

func newBlockAddCmd() *cobra.Command {
	var (
		category   string
		startTime  string
		endTime    string
		blockColor string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a block to the routine",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			if !schema.ValidBlockCategory(category) {
				return fmt.Errorf("invalid category %q (valid: work, side-project, break, personal)", category)
			}

			blocks, err := a.orch.LoadRoutine(ctx)
			if err != nil {
				return err
			}
			blocks = append(blocks, schema.Block{
				ID:        uuid.NewString(),
				Name:      args[0],
				Category:  category,
				StartTime: startTime,
				EndTime:   endTime,
				Color:     blockColor,
			})
			if err := a.orch.SaveRoutine(ctx, blocks); err != nil {
				return err
			}
			color.Green("✔ Added %q", args[0])
			return nil
		}),
	}
	cmd.Flags().StringVar(&category, "category", schema.BlockWork, "work, side-project, break or personal")
	cmd.Flags().StringVar(&startTime, "start", "09:00", "start time HH:MM")
	cmd.Flags().StringVar(&endTime, "end", "10:00", "end time HH:MM")
	cmd.Flags().StringVar(&blockColor, "color", "bg-blue-500", "display color")
	return cmd
}

func newBlockResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear all completion marks (start a new day)",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			blocks, err := a.orch.LoadRoutine(ctx)
			if err != nil {
				return err
			}
			for i := range blocks {
				blocks[i].Completed = false
			}
			if err := a.orch.SaveRoutine(ctx, blocks); err != nil {
				return err
			}
			color.Green("✔ Routine reset for a new day")
			return nil
		}),
	}
}

// announceRewards 打印升级与成就解锁
func announceRewards(p schema.Progress, leveledUp bool, unlocked []service.Achievement) {
	for _, a := range unlocked {
		color.Magenta("🏆 Achievement unlocked: %s %s (+%d points)", a.Icon, a.Name, a.Points)
	}
	if leveledUp {
		color.Cyan("⬆ Level up! You are now level %d — %s", p.Level, service.LevelTitle(p.Level))
	}
}

// touchPet 主人进度变化后把等级联动应用到宠物（没领养则跳过）
func touchPet(ctx context.Context, a *app, ownerLevel int) error {
	pet, err := a.orch.LoadPet(ctx)
	if err != nil || pet == nil {
		return err
	}
	updated := service.ApplyOwnerLevel(service.UpdateStats(*pet, time.Now()), ownerLevel)
	if updated.Level > pet.Level {
		color.Magenta("🐾 %s grew to level %d!", updated.Name, updated.Level)
	}
	return a.orch.SavePet(ctx, updated)
}
