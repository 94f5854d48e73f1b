package service

import (
	"sort"

	"github.com/sketch0395/focuszone/internal/schema"
)

// 本地与云端各持有同一实体的独立副本，谁都不是权威；
// 每次带认证加载时由这里按实体各自的策略合并出权威值，随后回写两侧（read-repair）。
// 单侧缺失时不做合并，现存副本原样采用。

// MergeProgress 游戏化记录：计数器逐项取最大，成就集合并集，历史合并去重。
// 这些字段按构造单调递增，max/union 不会丢失任一设备上的进度，且合并满足交换律与幂等性。
func MergeProgress(local, remote *schema.Progress) *schema.Progress {
	if local == nil && remote == nil {
		return nil
	}
	if local == nil {
		out := remote.Clone()
		return &out
	}
	if remote == nil {
		out := local.Clone()
		return &out
	}

	out := schema.Progress{
		Points:            maxInt(local.Points, remote.Points),
		CompletedBlocks:   maxInt(local.CompletedBlocks, remote.CompletedBlocks),
		CompletedSessions: maxInt(local.CompletedSessions, remote.CompletedSessions),
		TotalFocusMinutes: maxInt(local.TotalFocusMinutes, remote.TotalFocusMinutes),
		LastPointsEarned:  local.LastPointsEarned,
	}
	if remote.LastPointsEarned != 0 && local.LastPointsEarned == 0 {
		out.LastPointsEarned = remote.LastPointsEarned
	}
	// 等级始终由合并后的积分重新推导
	out.Level = CalculateLevel(out.Points)

	out.Achievements = unionAchievements(local.Achievements, remote.Achievements)
	out.PointsHistory = mergeHistory(local.PointsHistory, remote.PointsHistory)
	return &out
}

// unionAchievements 并集，先按成就目录顺序，再补上目录外的未知 ID（向前兼容）
func unionAchievements(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		seen[id] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for _, def := range Achievements {
		if _, ok := seen[def.ID]; ok {
			out = append(out, def.ID)
			delete(seen, def.ID)
		}
	}
	var extra []string
	for id := range seen {
		extra = append(extra, id)
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// mergeHistory 历史事件去重合并，按时间戳升序（最新在尾部），截断到环形上限。
// 去重保证 merge(A,A)==A；升序保持环形缓冲“最新在尾”的既有约定。
func mergeHistory(a, b []schema.PointsEvent) []schema.PointsEvent {
	seen := make(map[schema.PointsEvent]struct{}, len(a)+len(b))
	merged := make([]schema.PointsEvent, 0, len(a)+len(b))
	for _, e := range a {
		if _, ok := seen[e]; !ok {
			seen[e] = struct{}{}
			merged = append(merged, e)
		}
	}
	for _, e := range b {
		if _, ok := seen[e]; !ok {
			seen[e] = struct{}{}
			merged = append(merged, e)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Timestamp != merged[j].Timestamp {
			return merged[i].Timestamp < merged[j].Timestamp
		}
		if merged[i].Reason != merged[j].Reason {
			return merged[i].Reason < merged[j].Reason
		}
		return merged[i].Amount < merged[j].Amount
	})

	if len(merged) > schema.HistoryCap {
		merged = merged[len(merged)-schema.HistoryCap:]
	}
	return merged
}

// MergePet 宠物取整记录而非逐字段：照料动作一次改多项体征，逐字段取最大会拼出
// 任何设备都没见过的状态。比较两副本三个照料时间戳的最大值，较新者整体胜出
// （云端严格更新才胜出，持平保留本地）。调用方随后必须对胜者执行 UpdateStats。
func MergePet(local, remote *schema.Pet) *schema.Pet {
	if local == nil && remote == nil {
		return nil
	}
	if local == nil {
		out := *remote
		return &out
	}
	if remote == nil {
		out := *local
		return &out
	}

	if remote.LastCaredAt() > local.LastCaredAt() {
		out := *remote
		return &out
	}
	out := *local
	return &out
}

// MergeRoutine 日程结构化合并：两侧都存在时以云端列表为基（顺序与其余字段取自基列表），
// 每个块的 completed 按 ID 在两侧取或——任一设备标记完成即保持完成。
func MergeRoutine(local, remote []schema.Block) []schema.Block {
	if remote == nil && local == nil {
		return nil
	}
	if remote == nil {
		return cloneBlocks(local)
	}
	if local == nil {
		return cloneBlocks(remote)
	}

	completed := make(map[string]bool, len(local))
	for _, b := range local {
		if b.Completed {
			completed[b.ID] = true
		}
	}

	out := cloneBlocks(remote)
	for i := range out {
		if completed[out[i].ID] {
			out[i].Completed = true
		}
	}
	return out
}

func cloneBlocks(blocks []schema.Block) []schema.Block {
	return append([]schema.Block(nil), blocks...)
}

// MergeUsage 使用记录：日期键集合并集（升序），会话数取最大，lastVisit 取较晚日期
func MergeUsage(local, remote *schema.Usage) *schema.Usage {
	if local == nil && remote == nil {
		return nil
	}
	if local == nil {
		out := remote.Clone()
		return &out
	}
	if remote == nil {
		out := local.Clone()
		return &out
	}

	seen := make(map[string]struct{}, len(local.ActiveDays)+len(remote.ActiveDays))
	days := make([]string, 0, len(local.ActiveDays)+len(remote.ActiveDays))
	for _, d := range local.ActiveDays {
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			days = append(days, d)
		}
	}
	for _, d := range remote.ActiveDays {
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			days = append(days, d)
		}
	}
	sort.Strings(days)

	lastVisit := local.LastVisit
	if remote.LastVisit > lastVisit {
		lastVisit = remote.LastVisit
	}

	return &schema.Usage{
		ActiveDays:    days,
		LastVisit:     lastVisit,
		TotalSessions: maxInt(local.TotalSessions, remote.TotalSessions),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
