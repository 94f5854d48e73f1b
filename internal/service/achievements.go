package service

import (
	"github.com/sketch0395/focuszone/internal/schema"
)

// Achievement 成就定义：判定条件 + 一次性奖励积分
// 判定条件只允许引用单调不减字段（计数、总量、等级），保证成就一旦达成不会被之后的状态撤销。
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
	Requirement func(schema.Progress) bool `json:"-"`
}

// Achievements 固定有序成就目录。等级门槛成就排在最后，
// 使同一次 AwardPoints 中前面成就的奖励积分有机会触发它们。
var Achievements = []Achievement{
	{
		ID: "first-block", Name: "First Steps", Icon: "🎯", Points: 10,
		Description: "Complete your first routine block",
		Requirement: func(p schema.Progress) bool { return p.CompletedBlocks >= 1 },
	},
	{
		ID: "ten-blocks", Name: "Getting Started", Icon: "⭐", Points: 25,
		Description: "Complete 10 routine blocks",
		Requirement: func(p schema.Progress) bool { return p.CompletedBlocks >= 10 },
	},
	{
		ID: "fifty-blocks", Name: "Consistent Performer", Icon: "🌟", Points: 50,
		Description: "Complete 50 routine blocks",
		Requirement: func(p schema.Progress) bool { return p.CompletedBlocks >= 50 },
	},
	{
		ID: "hundred-blocks", Name: "Century Club", Icon: "💯", Points: 100,
		Description: "Complete 100 routine blocks",
		Requirement: func(p schema.Progress) bool { return p.CompletedBlocks >= 100 },
	},
	{
		ID: "first-session", Name: "Focus Initiate", Icon: "🎓", Points: 10,
		Description: "Complete your first focus session",
		Requirement: func(p schema.Progress) bool { return p.CompletedSessions >= 1 },
	},
	{
		ID: "ten-sessions", Name: "Focus Apprentice", Icon: "📚", Points: 30,
		Description: "Complete 10 focus sessions",
		Requirement: func(p schema.Progress) bool { return p.CompletedSessions >= 10 },
	},
	{
		ID: "fifty-sessions", Name: "Focus Master", Icon: "🎖️", Points: 75,
		Description: "Complete 50 focus sessions",
		Requirement: func(p schema.Progress) bool { return p.CompletedSessions >= 50 },
	},
	{
		ID: "ten-hours", Name: "Time Warrior", Icon: "⏰", Points: 50,
		Description: "Accumulate 10 hours of focus time",
		Requirement: func(p schema.Progress) bool { return p.TotalFocusMinutes >= 600 },
	},
	{
		ID: "fifty-hours", Name: "Time Lord", Icon: "⌛", Points: 150,
		Description: "Accumulate 50 hours of focus time",
		Requirement: func(p schema.Progress) bool { return p.TotalFocusMinutes >= 3000 },
	},
	{
		ID: "level-5", Name: "Rising Star", Icon: "🚀", Points: 50,
		Description: "Reach level 5",
		Requirement: func(p schema.Progress) bool { return p.Level >= 5 },
	},
	{
		ID: "level-10", Name: "Productivity Pro", Icon: "👑", Points: 100,
		Description: "Reach level 10",
		Requirement: func(p schema.Progress) bool { return p.Level >= 10 },
	},
	{
		ID: "level-20", Name: "Legendary Focus", Icon: "🏆", Points: 200,
		Description: "Reach level 20",
		Requirement: func(p schema.Progress) bool { return p.Level >= 20 },
	},
}

// AchievementByID 按 ID 查找成就定义
func AchievementByID(id string) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// UnlockedAchievements 已解锁成就定义列表（按目录顺序）
func UnlockedAchievements(p schema.Progress) []Achievement {
	var out []Achievement
	for _, a := range Achievements {
		if p.HasAchievement(a.ID) {
			out = append(out, a)
		}
	}
	return out
}

// LockedAchievements 未解锁成就定义列表（按目录顺序）
func LockedAchievements(p schema.Progress) []Achievement {
	var out []Achievement
	for _, a := range Achievements {
		if !p.HasAchievement(a.ID) {
			out = append(out, a)
		}
	}
	return out
}
