package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sketch0395/focuszone/internal/eventbus"
	"github.com/sketch0395/focuszone/internal/pkg/buildinfo"
	"github.com/sketch0395/focuszone/internal/pkg/config"
	"github.com/sketch0395/focuszone/internal/service"
	syncpkg "github.com/sketch0395/focuszone/internal/sync"
)

var cfgPath string

// app 每次命令执行的共享依赖
type app struct {
	cfg   *config.Config
	cache syncpkg.Cache
	orch  *syncpkg.Orchestrator
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	config.SetupLogger("warn") // CLI 输出走 stdout，日志只留警告

	cache, err := syncpkg.OpenBadgerCache(cfg.Client.CacheDir)
	if err != nil {
		return nil, err
	}

	client := syncpkg.NewClient(cfg.Client.ServerURL)
	orch := syncpkg.NewOrchestrator(cache, client, eventbus.NewHub())

	return &app{cfg: cfg, cache: cache, orch: orch}, nil
}

func (a *app) close() {
	a.orch.Flush()
	_ = a.cache.Close()
}

// withApp 统一的命令执行包装：构建依赖、执行、等待后台推送、释放资源
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		return fn(ctx, a, args)
	}
}

func main() {
	root := &cobra.Command{
		Use:           "focuszone",
		Short:         "Pomodoro routine tracker with gamification and a virtual pet",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "配置文件路径")

	root.AddCommand(
		newStatusCmd(),
		newSignupCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newDeleteAccountCmd(),
		newBlockCmd(),
		newFocusCmd(),
		newPetCmd(),
		newUsageCmd(),
	)

	if err := root.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// readPassword 从终端读取密码（不回显）
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	return string(b), nil
}

func newSignupCmd() *cobra.Command {
	var displayName string
	cmd := &cobra.Command{
		Use:   "signup <email>",
		Short: "Create an account and sync local data to the cloud",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			if err := a.orch.Signup(ctx, args[0], password, displayName); err != nil {
				return err
			}
			color.Green("✔ Account created. You are now signed in as %s", args[0])
			return nil
		}),
	}
	cmd.Flags().StringVar(&displayName, "name", "", "display name")
	return cmd
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and merge cloud data with this device",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			if err := a.orch.Login(ctx, args[0], password); err != nil {
				return err
			}
			color.Green("✔ Signed in as %s, data synced", args[0])
			return nil
		}),
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out (local data stays on this device)",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			a.orch.Logout()
			color.Green("✔ Signed out")
			return nil
		}),
	}
}

func newDeleteAccountCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete the cloud account and wipe local data",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			if !yes {
				return fmt.Errorf("this permanently deletes your account and all data; rerun with --yes to confirm")
			}
			if err := a.orch.DeleteAccount(ctx); err != nil {
				return err
			}
			color.Green("✔ Account deleted")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show progress, level, streaks and today's quote",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			now := time.Now()

			progress, err := a.orch.LoadProgress(ctx)
			if err != nil {
				return err
			}
			usage, err := a.orch.LoadUsage(ctx)
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			cyan := color.New(color.FgCyan)

			if email := a.orch.Email(); email != "" {
				fmt.Printf("Signed in as %s\n\n", email)
			} else {
				fmt.Print("Not signed in (local only)\n\n")
			}

			bold.Printf("Level %d — %s\n", progress.Level, service.LevelTitle(progress.Level))
			fmt.Printf("  Points: %d (%.0f%% to level %d)\n",
				progress.Points, service.ProgressToNextLevel(progress.Points), progress.Level+1)
			fmt.Printf("  Blocks completed: %d   Focus sessions: %d   Focus minutes: %d\n",
				progress.CompletedBlocks, progress.CompletedSessions, progress.TotalFocusMinutes)
			fmt.Printf("  Achievements: %d/%d\n\n", len(progress.Achievements), len(service.Achievements))

			stats := service.Stats(usage, now)
			cyan.Println("Usage")
			fmt.Printf("  Current streak: %d days   Longest: %d days   This month: %d days\n\n",
				stats.CurrentStreak, stats.LongestStreak, stats.ThisMonth)

			q := service.DailyQuote(now)
			color.Yellow("“%s” — %s", q.Text, q.Author)
			return nil
		}),
	}
}
