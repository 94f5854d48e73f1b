package service

import (
	"fmt"
	"math"
	"time"

	"github.com/sketch0395/focuszone/internal/schema"
)

// 各类动作的积分值
const (
	PointsBlockCompleted    = 10
	PointsFocusSession15Min = 15
	PointsFocusSession25Min = 25
	PointsFocusSession45Min = 45
)

// CalculateLevel 等级公式：level = floor(sqrt(points / 100))
// 即升到第 n 级累计需要 n²×100 积分，升级成本逐级加速。
func CalculateLevel(points int) int {
	if points <= 0 {
		return 0
	}
	return int(math.Sqrt(float64(points) / 100))
}

// PointsForLevel 达到指定等级所需的累计积分
func PointsForLevel(level int) int {
	return level * level * 100
}

// ProgressToNextLevel 当前等级内的进度百分比 [0,100)
func ProgressToNextLevel(points int) float64 {
	level := CalculateLevel(points)
	cur := PointsForLevel(level)
	next := PointsForLevel(level + 1)
	return float64(points-cur) / float64(next-cur) * 100
}

// AwardPoints 所有积分变更的唯一入口：加分、重算等级、记录历史、评估成就。
// 成就奖励积分在同一次调用内生效，可能连带再次升级。
func AwardPoints(p schema.Progress, amount int, reason string, now time.Time) (schema.Progress, bool, []Achievement) {
	out := p.Clone()
	oldLevel := out.Level

	out.Points += amount
	out.Level = CalculateLevel(out.Points)
	out.LastPointsEarned = amount

	out.PointsHistory = append(out.PointsHistory, schema.PointsEvent{
		Amount:    amount,
		Reason:    reason,
		Timestamp: now.UnixMilli(),
	})
	if len(out.PointsHistory) > schema.HistoryCap {
		out.PointsHistory = out.PointsHistory[len(out.PointsHistory)-schema.HistoryCap:]
	}

	// 按目录顺序单遍评估成就；奖励积分立即计入并重算等级，
	// 因此奖励触发的升级可以解锁目录中更靠后的等级门槛成就。
	var unlocked []Achievement
	for _, a := range Achievements {
		if out.HasAchievement(a.ID) {
			continue
		}
		if !a.Requirement(out) {
			continue
		}
		out.Achievements = append(out.Achievements, a.ID)
		out.Points += a.Points
		out.Level = CalculateLevel(out.Points)
		unlocked = append(unlocked, a)
	}

	return out, out.Level > oldLevel, unlocked
}

// RecordBlockCompletion 完成一个日程块
func RecordBlockCompletion(p schema.Progress, now time.Time) (schema.Progress, bool, []Achievement) {
	p = p.Clone()
	p.CompletedBlocks++
	return AwardPoints(p, PointsBlockCompleted, "Completed routine block", now)
}

// RecordFocusSession 完成一次专注，积分按时长分档：<25 分钟 15 分，<45 分钟 25 分，其余 45 分
func RecordFocusSession(p schema.Progress, minutes int, now time.Time) (schema.Progress, bool, []Achievement) {
	p = p.Clone()
	p.CompletedSessions++
	p.TotalFocusMinutes += minutes

	points := PointsFocusSession15Min
	switch {
	case minutes >= 45:
		points = PointsFocusSession45Min
	case minutes >= 25:
		points = PointsFocusSession25Min
	}

	return AwardPoints(p, points, fmt.Sprintf("Completed %d-minute focus session", minutes), now)
}

// LevelTitle 等级称号
func LevelTitle(level int) string {
	switch {
	case level == 0:
		return "Beginner"
	case level < 3:
		return "Novice"
	case level < 5:
		return "Apprentice"
	case level < 10:
		return "Practitioner"
	case level < 15:
		return "Expert"
	case level < 20:
		return "Master"
	case level < 30:
		return "Grandmaster"
	default:
		return "Legendary"
	}
}
