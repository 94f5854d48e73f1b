package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/sketch0395/focuszone/internal/eventbus"
	"github.com/sketch0395/focuszone/internal/schema"
	"github.com/sketch0395/focuszone/internal/service"
)

// 缓存键。实体键与云端 dataType 同名，会话键只存在于本地。
const (
	keyToken = "session.token"
	keyEmail = "session.email"
)

// Orchestrator 本地缓存与云端之间的同步编排。
// 未登录时只读写本地缓存；登录后加载走 拉取→合并→回写两侧，
// 保存走 本地同步写 + 云端异步推送（失败只记日志，不阻塞调用方）。
type Orchestrator struct {
	cache  Cache
	client *Client
	hub    *eventbus.Hub

	wg stdsync.WaitGroup
}

// NewOrchestrator 创建编排器并恢复持久化的会话令牌
func NewOrchestrator(cache Cache, client *Client, hub *eventbus.Hub) *Orchestrator {
	o := &Orchestrator{cache: cache, client: client, hub: hub}
	if b, err := cache.Get(keyToken); err == nil {
		client.SetToken(string(b))
	}
	return o
}

// Authenticated 是否处于登录态
func (o *Orchestrator) Authenticated() bool {
	return o.client.Authenticated()
}

// Email 当前登录邮箱（未登录为空）
func (o *Orchestrator) Email() string {
	b, err := o.cache.Get(keyEmail)
	if err != nil {
		return ""
	}
	return string(b)
}

// Flush 等待全部后台推送完成（进程退出前与测试中调用）
func (o *Orchestrator) Flush() {
	o.wg.Wait()
}

// ---- 会话 ----

// Signup 注册新账号并把本地数据全量推送到云端
func (o *Orchestrator) Signup(ctx context.Context, email, password, displayName string) error {
	user, err := o.client.Signup(ctx, email, password, displayName)
	if err != nil {
		return err
	}
	o.persistSession(user.Email)
	o.pushAllLocal(ctx)
	o.hub.Publish(eventbus.Event{Type: eventbus.TypeSyncCompleted, Data: map[string]any{"email": user.Email}})
	return nil
}

// Login 登录后对全部实体执行 拉取→合并→回写，缓存与云端收敛到同一状态
func (o *Orchestrator) Login(ctx context.Context, email, password string) error {
	user, err := o.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	o.persistSession(user.Email)

	if _, err := o.LoadProgress(ctx); err != nil {
		slog.Warn("登录后同步进度失败", "error", err)
	}
	if _, err := o.LoadPet(ctx); err != nil {
		slog.Warn("登录后同步宠物失败", "error", err)
	}
	if _, err := o.LoadRoutine(ctx); err != nil {
		slog.Warn("登录后同步日程失败", "error", err)
	}
	if _, err := o.LoadUsage(ctx); err != nil {
		slog.Warn("登录后同步使用记录失败", "error", err)
	}

	o.hub.Publish(eventbus.Event{Type: eventbus.TypeSyncCompleted, Data: map[string]any{"email": user.Email}})
	return nil
}

// Logout 清除令牌与会话，本地缓存数据保留
func (o *Orchestrator) Logout() {
	o.Flush()
	o.client.SetToken("")
	_ = o.cache.Delete(keyToken)
	_ = o.cache.Delete(keyEmail)
}

// DeleteAccount 删除云端账号并清空本地全部数据
func (o *Orchestrator) DeleteAccount(ctx context.Context) error {
	o.Flush()
	if err := o.client.DeleteAccount(ctx); err != nil {
		return err
	}
	for _, dt := range schema.DataTypes {
		_ = o.cache.Delete(dt)
	}
	_ = o.cache.Delete(keyToken)
	_ = o.cache.Delete(keyEmail)
	o.hub.Publish(eventbus.Event{Type: eventbus.TypeUserDeleted})
	return nil
}

func (o *Orchestrator) persistSession(email string) {
	if err := o.cache.Put(keyToken, []byte(o.client.Token())); err != nil {
		slog.Warn("持久化令牌失败", "error", err)
	}
	if err := o.cache.Put(keyEmail, []byte(email)); err != nil {
		slog.Warn("持久化会话失败", "error", err)
	}
}

// pushAllLocal 把本地已有的实体全量推送到云端（注册后首次上行）
func (o *Orchestrator) pushAllLocal(ctx context.Context) {
	for _, dt := range schema.DataTypes {
		b, err := o.cache.Get(dt)
		if err != nil {
			continue
		}
		if err := o.client.PushData(ctx, dt, json.RawMessage(b)); err != nil {
			slog.Warn("推送本地数据失败", "type", dt, "error", err)
		}
	}
}

// ---- 进度 ----

// LoadProgress 加载游戏化进度。未登录读缓存；登录态拉取云端并合并回写。
// 缓存缺失或损坏一律按零值处理。
func (o *Orchestrator) LoadProgress(ctx context.Context) (schema.Progress, error) {
	var local *schema.Progress
	if p, ok := loadCached[schema.Progress](o.cache, schema.DataTypeGamification); ok {
		local = &p
	}

	if !o.client.Authenticated() {
		if local != nil {
			return *local, nil
		}
		return schema.NewProgress(), nil
	}

	remote, err := fetchRemote[schema.Progress](ctx, o.client, schema.DataTypeGamification)
	if err != nil {
		// 云端不可达时退化为纯本地模式
		slog.Warn("拉取云端进度失败，使用本地副本", "error", err)
		if local != nil {
			return *local, nil
		}
		return schema.NewProgress(), nil
	}

	merged := service.MergeProgress(local, remote)
	if merged == nil {
		p := schema.NewProgress()
		merged = &p
	}
	o.repair(ctx, schema.DataTypeGamification, *merged)
	return *merged, nil
}

// SaveProgress 写本地缓存并异步推送云端。
// 与缓存中旧记录对比，升级和新解锁的成就发独立事件。
func (o *Orchestrator) SaveProgress(ctx context.Context, p schema.Progress) error {
	var old *schema.Progress
	if prev, ok := loadCached[schema.Progress](o.cache, schema.DataTypeGamification); ok {
		old = &prev
	}

	if err := o.save(ctx, schema.DataTypeGamification, p); err != nil {
		return err
	}

	o.hub.Publish(eventbus.Event{Type: eventbus.TypeGamificationUpdated, Data: map[string]any{
		"points": p.Points,
		"level":  p.Level,
	}})
	if old != nil {
		if p.Level > old.Level {
			o.hub.Publish(eventbus.Event{Type: eventbus.TypeLevelUp, Data: map[string]any{
				"from": old.Level,
				"to":   p.Level,
			}})
		}
		for _, id := range p.Achievements {
			if !old.HasAchievement(id) {
				o.hub.Publish(eventbus.Event{Type: eventbus.TypeAchievementUnlocked, Data: map[string]any{
					"achievementId": id,
				}})
			}
		}
	}
	return nil
}

// ---- 宠物 ----

// LoadPet 加载宠物，可能返回 nil（尚未领养）。
// 返回前统一对胜出副本做一次衰减投影，调用方拿到的永远是当前时刻的体征。
func (o *Orchestrator) LoadPet(ctx context.Context) (*schema.Pet, error) {
	var local *schema.Pet
	if p, ok := loadCached[schema.Pet](o.cache, schema.DataTypePet); ok {
		local = &p
	}

	if !o.client.Authenticated() {
		if local == nil {
			return nil, nil
		}
		p := service.UpdateStats(*local, time.Now())
		return &p, nil
	}

	remote, err := fetchRemote[schema.Pet](ctx, o.client, schema.DataTypePet)
	if err != nil {
		slog.Warn("拉取云端宠物失败，使用本地副本", "error", err)
		if local == nil {
			return nil, nil
		}
		p := service.UpdateStats(*local, time.Now())
		return &p, nil
	}

	merged := service.MergePet(local, remote)
	if merged == nil {
		return nil, nil
	}
	projected := service.UpdateStats(*merged, time.Now())
	o.repair(ctx, schema.DataTypePet, projected)
	return &projected, nil
}

// SavePet 写本地缓存并异步推送云端
func (o *Orchestrator) SavePet(ctx context.Context, p schema.Pet) error {
	if err := o.save(ctx, schema.DataTypePet, p); err != nil {
		return err
	}
	o.hub.Publish(eventbus.Event{Type: eventbus.TypePetUpdated, Data: map[string]any{
		"name":  p.Name,
		"level": p.Level,
	}})
	return nil
}

// ---- 日程 ----

// LoadRoutine 加载日程，两侧都没有时返回默认日程
func (o *Orchestrator) LoadRoutine(ctx context.Context) ([]schema.Block, error) {
	var local []schema.Block
	if b, ok := loadCached[[]schema.Block](o.cache, schema.DataTypeRoutine); ok {
		local = b
	}

	if !o.client.Authenticated() {
		if local != nil {
			return local, nil
		}
		return schema.DefaultRoutine(), nil
	}

	remote, err := fetchRemote[[]schema.Block](ctx, o.client, schema.DataTypeRoutine)
	if err != nil {
		slog.Warn("拉取云端日程失败，使用本地副本", "error", err)
		if local != nil {
			return local, nil
		}
		return schema.DefaultRoutine(), nil
	}

	var remoteBlocks []schema.Block
	if remote != nil {
		remoteBlocks = *remote
	}
	merged := service.MergeRoutine(local, remoteBlocks)
	if merged == nil {
		merged = schema.DefaultRoutine()
	}
	o.repair(ctx, schema.DataTypeRoutine, merged)
	return merged, nil
}

// SaveRoutine 写本地缓存并异步推送云端
func (o *Orchestrator) SaveRoutine(ctx context.Context, blocks []schema.Block) error {
	if err := o.save(ctx, schema.DataTypeRoutine, blocks); err != nil {
		return err
	}
	o.hub.Publish(eventbus.Event{Type: eventbus.TypeRoutineUpdated, Data: map[string]any{
		"blocks": len(blocks),
	}})
	return nil
}

// ---- 使用记录 ----

// LoadUsage 加载使用记录
func (o *Orchestrator) LoadUsage(ctx context.Context) (schema.Usage, error) {
	var local *schema.Usage
	if u, ok := loadCached[schema.Usage](o.cache, schema.DataTypeUsage); ok {
		local = &u
	}

	if !o.client.Authenticated() {
		if local != nil {
			return *local, nil
		}
		return schema.NewUsage(), nil
	}

	remote, err := fetchRemote[schema.Usage](ctx, o.client, schema.DataTypeUsage)
	if err != nil {
		slog.Warn("拉取云端使用记录失败，使用本地副本", "error", err)
		if local != nil {
			return *local, nil
		}
		return schema.NewUsage(), nil
	}

	merged := service.MergeUsage(local, remote)
	if merged == nil {
		u := schema.NewUsage()
		merged = &u
	}
	o.repair(ctx, schema.DataTypeUsage, *merged)
	return *merged, nil
}

// SaveUsage 写本地缓存并异步推送云端
func (o *Orchestrator) SaveUsage(ctx context.Context, u schema.Usage) error {
	if err := o.save(ctx, schema.DataTypeUsage, u); err != nil {
		return err
	}
	o.hub.Publish(eventbus.Event{Type: eventbus.TypeUsageUpdated, Data: map[string]any{
		"activeDays": len(u.ActiveDays),
	}})
	return nil
}

// ---- 内部 ----

// save 本地缓存同步写；登录态下再起后台 goroutine 推送云端。
// 云端失败只记日志：下次带认证加载时的合并会把状态追平。
func (o *Orchestrator) save(ctx context.Context, dataType string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("编码 %s 失败: %w", dataType, err)
	}
	if err := o.cache.Put(dataType, b); err != nil {
		return err
	}

	if !o.client.Authenticated() {
		return nil
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if err := o.client.PushData(context.WithoutCancel(ctx), dataType, b); err != nil {
			slog.Warn("云端推送失败", "type", dataType, "error", err)
		}
	}()
	return nil
}

// repair 合并结果回写两侧。本地同步写，云端后台推送。
func (o *Orchestrator) repair(ctx context.Context, dataType string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("编码合并结果失败", "type", dataType, "error", err)
		return
	}
	if err := o.cache.Put(dataType, b); err != nil {
		slog.Warn("回写缓存失败", "type", dataType, "error", err)
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if err := o.client.PushData(context.WithoutCancel(ctx), dataType, b); err != nil {
			slog.Warn("回写云端失败", "type", dataType, "error", err)
		}
	}()
}

// loadCached 读缓存并解码，缺失或 JSON 损坏都按不存在处理
func loadCached[T any](cache Cache, key string) (T, bool) {
	var zero T
	b, err := cache.Get(key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("读取缓存失败", "key", key, "error", err)
		}
		return zero, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		slog.Warn("缓存数据损坏，按空处理", "key", key, "error", err)
		return zero, false
	}
	return v, true
}

// fetchRemote 拉取云端单类型数据，云端没有返回 nil
func fetchRemote[T any](ctx context.Context, client *Client, dataType string) (*T, error) {
	rd, err := client.FetchData(ctx, dataType)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var v T
	if err := json.Unmarshal(rd.Data, &v); err != nil {
		return nil, fmt.Errorf("解码云端 %s 失败: %w", dataType, err)
	}
	return &v, nil
}
