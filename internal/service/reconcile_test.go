package service

import (
	"reflect"
	"testing"

	"github.com/sketch0395/focuszone/internal/schema"
)

func sampleProgress() *schema.Progress {
	return &schema.Progress{
		Points:            950,
		Level:             3,
		Achievements:      []string{"first-block", "ten-blocks"},
		CompletedBlocks:   12,
		CompletedSessions: 4,
		TotalFocusMinutes: 120,
		PointsHistory: []schema.PointsEvent{
			{Amount: 10, Reason: "Completed routine block", Timestamp: 1000},
			{Amount: 25, Reason: "Completed 25-minute focus session", Timestamp: 2000},
		},
	}
}

func TestMergeProgressIdempotent(t *testing.T) {
	a := sampleProgress()
	got := MergeProgress(a, a)
	if !reflect.DeepEqual(*got, *a) {
		t.Errorf("merge(A,A) != A:\n got %+v\nwant %+v", *got, *a)
	}
}

func TestMergeProgressCommutative(t *testing.T) {
	a := sampleProgress()
	b := sampleProgress()
	b.Points = 1200
	b.Achievements = []string{"first-block", "first-session"}
	b.PointsHistory = append(b.PointsHistory, schema.PointsEvent{Amount: 45, Reason: "x", Timestamp: 3000})

	ab := MergeProgress(a, b)
	ba := MergeProgress(b, a)
	ab.LastPointsEarned, ba.LastPointsEarned = 0, 0 // 唯一允许不对称的展示字段
	if !reflect.DeepEqual(*ab, *ba) {
		t.Errorf("merge 不满足交换律:\n ab=%+v\n ba=%+v", *ab, *ba)
	}
}

func TestMergeProgressTakesMaxAndUnion(t *testing.T) {
	a := sampleProgress()
	b := sampleProgress()
	b.Points = 2600
	b.CompletedBlocks = 30
	b.Achievements = []string{"first-session"}

	got := MergeProgress(a, b)
	if got.Points != 2600 || got.CompletedBlocks != 30 {
		t.Errorf("计数未取最大: %+v", got)
	}
	// 等级由合并后积分重新推导：sqrt(26) → 5
	if got.Level != 5 {
		t.Errorf("Level = %d, want 5", got.Level)
	}
	for _, id := range []string{"first-block", "ten-blocks", "first-session"} {
		if !got.HasAchievement(id) {
			t.Errorf("成就并集缺少 %s", id)
		}
	}
}

func TestMergeProgressOneSided(t *testing.T) {
	a := sampleProgress()
	if got := MergeProgress(a, nil); !reflect.DeepEqual(*got, *a) {
		t.Error("remote 缺失时应原样采用 local")
	}
	if got := MergeProgress(nil, a); !reflect.DeepEqual(*got, *a) {
		t.Error("local 缺失时应原样采用 remote")
	}
	if got := MergeProgress(nil, nil); got != nil {
		t.Error("两侧都缺失应返回 nil")
	}
}

func TestMergeHistoryDedupeAndCap(t *testing.T) {
	var a, b []schema.PointsEvent
	for i := 0; i < 40; i++ {
		e := schema.PointsEvent{Amount: 1, Reason: "tick", Timestamp: int64(i)}
		a = append(a, e)
		if i%2 == 0 {
			b = append(b, e)
		}
	}
	for i := 40; i < 80; i++ {
		b = append(b, schema.PointsEvent{Amount: 1, Reason: "tick", Timestamp: int64(i)})
	}

	got := mergeHistory(a, b)
	if len(got) != schema.HistoryCap {
		t.Fatalf("len = %d, want %d", len(got), schema.HistoryCap)
	}
	// 升序且保留最新的 50 条（30..79）
	if got[0].Timestamp != 30 || got[len(got)-1].Timestamp != 79 {
		t.Errorf("截断方向错误: first=%d last=%d", got[0].Timestamp, got[len(got)-1].Timestamp)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp < got[i-1].Timestamp {
			t.Fatal("历史未按时间升序")
		}
	}
}

func samplePet(lastCared int64) *schema.Pet {
	return &schema.Pet{
		Name: "Mochi", Species: "cat", Level: 2,
		Happiness: 80, Health: 90, Hunger: 70, Energy: 60,
		LastFed: lastCared, LastPlay: lastCared - 1000, LastRest: lastCared - 2000,
		CreatedAt: 1,
	}
}

func TestMergePetRecencyWins(t *testing.T) {
	local := samplePet(1000)
	remote := samplePet(2000)
	remote.Name = "Cloud"

	got := MergePet(local, remote)
	if got.Name != "Cloud" {
		t.Error("云端副本较新时应整体胜出")
	}
}

func TestMergePetTieKeepsLocal(t *testing.T) {
	local := samplePet(1000)
	local.Name = "Local"
	remote := samplePet(1000)
	remote.Name = "Remote"

	got := MergePet(local, remote)
	if got.Name != "Local" {
		t.Error("时间戳持平应保留本地副本")
	}
}

func TestMergePetOneSidedAdoption(t *testing.T) {
	p := samplePet(1000)
	if got := MergePet(p, nil); got == nil || got.Name != p.Name {
		t.Error("单侧领养应保留现存宠物")
	}
	if got := MergePet(nil, p); got == nil || got.Name != p.Name {
		t.Error("仅云端有宠物时应采用云端")
	}
	if got := MergePet(nil, nil); got != nil {
		t.Error("两侧都没有宠物应返回 nil")
	}
}

func TestMergeRoutineCompletedOr(t *testing.T) {
	local := schema.DefaultRoutine()
	local[0].Completed = true
	remote := schema.DefaultRoutine()
	remote[2].Completed = true
	remote[0].Name = "Renamed on another device"

	got := MergeRoutine(local, remote)
	// 结构以云端为基
	if got[0].Name != "Renamed on another device" {
		t.Error("结构字段应取自云端基列表")
	}
	// completed 按 ID 取或
	if !got[0].Completed || !got[2].Completed {
		t.Errorf("completed 未取或: %+v", got)
	}
}

func TestMergeRoutineOneSided(t *testing.T) {
	local := schema.DefaultRoutine()
	if got := MergeRoutine(local, nil); len(got) != len(local) {
		t.Error("remote 缺失应保留 local")
	}
	if got := MergeRoutine(nil, nil); got != nil {
		t.Error("两侧缺失应返回 nil")
	}
}

func TestMergeUsageUnion(t *testing.T) {
	local := &schema.Usage{ActiveDays: []string{"2026-08-29", "2026-08-31"}, LastVisit: "2026-08-31", TotalSessions: 7}
	remote := &schema.Usage{ActiveDays: []string{"2026-08-30", "2026-08-31"}, LastVisit: "2026-08-30", TotalSessions: 9}

	got := MergeUsage(local, remote)
	want := []string{"2026-08-29", "2026-08-30", "2026-08-31"}
	if !reflect.DeepEqual(got.ActiveDays, want) {
		t.Errorf("ActiveDays = %v, want %v", got.ActiveDays, want)
	}
	if got.LastVisit != "2026-08-31" {
		t.Errorf("LastVisit = %q, want 2026-08-31", got.LastVisit)
	}
	if got.TotalSessions != 9 {
		t.Errorf("TotalSessions = %d, want 9", got.TotalSessions)
	}
}

func TestMergeUsageIdempotent(t *testing.T) {
	u := &schema.Usage{ActiveDays: []string{"2026-08-30", "2026-08-31"}, LastVisit: "2026-08-31", TotalSessions: 3}
	got := MergeUsage(u, u)
	if !reflect.DeepEqual(*got, *u) {
		t.Errorf("merge(A,A) != A: %+v", *got)
	}
}
