package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sketch0395/focuszone/internal/schema"
	"github.com/sketch0395/focuszone/internal/service"
)

func newPetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pet",
		Short: "Care for your virtual pet",
	}
	cmd.AddCommand(
		newPetStatusCmd(),
		newPetAdoptCmd(),
		newPetCareCmd("feed", "Feed your pet (1h cooldown)", service.Feed, func(p schema.Pet) int64 { return p.LastFed }),
		newPetCareCmd("play", "Play with your pet (2h cooldown)", service.Play, func(p schema.Pet) int64 { return p.LastPlay }),
		newPetCareCmd("rest", "Let your pet rest (4h cooldown)", service.Rest, func(p schema.Pet) int64 { return p.LastRest }),
	)
	return cmd
}

func newPetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your pet's vitals",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			now := time.Now()
			pet, err := a.orch.LoadPet(ctx)
			if err != nil {
				return err
			}
			if pet == nil {
				fmt.Println("No pet yet. Adopt one with: focuszone pet adopt <name> --species cat")
				return nil
			}

			updated := service.UpdateStats(*pet, now)
			if err := a.orch.SavePet(ctx, updated); err != nil {
				return err
			}
			printPet(updated)
			return nil
		}),
	}
}

func printPet(p schema.Pet) {
	sp, _ := service.SpeciesByKey(p.Species)
	mood, emoji, message := service.Mood(p)

	color.New(color.Bold).Printf("%s %s (level %d %s)\n", sp.Emoji, p.Name, p.Level, sp.Name)
	fmt.Printf("  Mood: %s %s — %s\n", emoji, mood, message)
	fmt.Printf("  Health    %s\n", vitalBar(p.Health))
	fmt.Printf("  Happiness %s\n", vitalBar(p.Happiness))
	fmt.Printf("  Hunger    %s\n", vitalBar(p.Hunger))
	fmt.Printf("  Energy    %s\n", vitalBar(p.Energy))
}

// vitalBar 20 格进度条
func vitalBar(v float64) string {
	filled := int(v / 5)
	bar := ""
	for i := 0; i < 20; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	c := color.New(color.FgGreen)
	switch {
	case v < 20:
		c = color.New(color.FgRed)
	case v < 50:
		c = color.New(color.FgYellow)
	}
	return c.Sprintf("%s %3.0f/100", bar, v)
}

func newPetAdoptCmd() *cobra.Command {
	var speciesKey string
	cmd := &cobra.Command{
		Use:   "adopt <name>",
		Short: "Adopt a pet (species unlock with your level)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			now := time.Now()

			existing, err := a.orch.LoadPet(ctx)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("you already have a pet named %s", existing.Name)
			}

			progress, err := a.orch.LoadProgress(ctx)
			if err != nil {
				return err
			}
			if !service.CanAdopt(speciesKey, progress.Level) {
				sp, ok := service.SpeciesByKey(speciesKey)
				if !ok {
					return fmt.Errorf("unknown species %q", speciesKey)
				}
				return fmt.Errorf("%s unlocks at level %d (you are level %d)", sp.Name, sp.UnlockLevel, progress.Level)
			}

			pet, err := service.NewPet(args[0], speciesKey, now)
			if err != nil {
				return err
			}
			pet = service.ApplyOwnerLevel(pet, progress.Level)
			if err := a.orch.SavePet(ctx, pet); err != nil {
				return err
			}

			sp, _ := service.SpeciesByKey(speciesKey)
			color.Green("✔ Adopted %s the %s %s", pet.Name, sp.Name, sp.Emoji)
			return nil
		}),
	}
	cmd.Flags().StringVar(&speciesKey, "species", "cat", "cat, dog, dragon, robot, plant or mecha")
	return cmd
}

// newPetCareCmd 三个照料动作共用的命令构造，冷却中给出提示而非报错
func newPetCareCmd(name, short string, action func(schema.Pet, time.Time) schema.Pet, stamp func(schema.Pet) int64) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			now := time.Now()
			pet, err := a.orch.LoadPet(ctx)
			if err != nil {
				return err
			}
			if pet == nil {
				return fmt.Errorf("no pet yet; adopt one first")
			}

			current := service.UpdateStats(*pet, now)
			after := action(current, now)
			if stamp(after) == stamp(current) {
				color.Yellow("⏳ %s is still on cooldown for %q", pet.Name, name)
				after = current // 仅持久化衰减结果
			} else {
				color.Green("✔ %s enjoyed the %s!", pet.Name, name)
			}

			if err := a.orch.SavePet(ctx, after); err != nil {
				return err
			}
			printPet(after)
			return nil
		}),
	}
}
