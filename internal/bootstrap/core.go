package bootstrap

import (
	"time"

	"github.com/sketch0395/focuszone/internal/auth"
	"github.com/sketch0395/focuszone/internal/eventbus"
	"github.com/sketch0395/focuszone/internal/pkg/config"
	"github.com/sketch0395/focuszone/internal/repository"
)

// Core 持有服务端共享的核心依赖
type Core struct {
	Cfg    *config.Config
	DB     *repository.Database
	Hub    *eventbus.Hub
	Tokens *auth.Tokens

	Repos struct {
		User     *repository.UserRepository
		UserData *repository.UserDataRepository
	}
}

// NewCore 构建核心依赖
func NewCore(cfgPath string) (*Core, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg.App.LogLevel)

	db, err := repository.NewDatabase(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	c := &Core{Cfg: cfg, DB: db, Hub: eventbus.NewHub(), Tokens: tokens}

	// Repos
	c.Repos.User = repository.NewUserRepository(db.DB)
	c.Repos.UserData = repository.NewUserDataRepository(db.DB)

	return c, nil
}

// Close 关闭核心依赖资源
func (c *Core) Close() error {
	if c == nil {
		return nil
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
