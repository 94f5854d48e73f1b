package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sketch0395/focuszone/internal/bootstrap"
	"github.com/sketch0395/focuszone/internal/httpapi"
	"github.com/sketch0395/focuszone/internal/pkg/buildinfo"
	"github.com/sketch0395/focuszone/internal/pkg/config"
)

func main() {
	cfgPath := flag.String("config", "", "配置文件路径（留空使用默认位置）")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 首次启动时写出默认配置，方便用户修改
	if *cfgPath == "" {
		if path, err := config.DefaultConfigPath(); err == nil {
			if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
				if err := config.WriteFile(path, config.Default()); err != nil {
					slog.Warn("写出默认配置失败", "error", err)
				} else {
					slog.Info("已写出默认配置", "path", path)
				}
			}
		}
	}

	core, err := bootstrap.NewCore(*cfgPath)
	if err != nil {
		slog.Error("初始化失败", "error", err)
		os.Exit(1)
	}
	defer core.Close()

	slog.Info("focuszone server 启动",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"listen", core.Cfg.Server.ListenAddr,
	)

	srv, err := httpapi.Start(ctx, core, httpapi.Options{ListenAddr: core.Cfg.Server.ListenAddr})
	if err != nil {
		slog.Error("启动 HTTP 服务失败", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("收到退出信号，正在关闭")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("关闭 HTTP 服务异常", "error", err)
	}
}
