package service

import (
	"sort"
	"time"

	"github.com/sketch0395/focuszone/internal/schema"
)

const dateKeyLayout = "2006-01-02"

// DateKey 日历日期键 YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// RecordVisit 记录一次使用：日期集合去重插入，刷新 lastVisit，会话数 +1
func RecordVisit(u schema.Usage, day string) schema.Usage {
	out := u.Clone()
	if !out.HasDay(day) {
		out.ActiveDays = append(out.ActiveDays, day)
	}
	out.LastVisit = day
	out.TotalSessions++
	return out
}

// CurrentStreak 截至 today 的连续使用天数；今天和昨天都缺席则为 0
func CurrentStreak(activeDays []string, today time.Time) int {
	if len(activeDays) == 0 {
		return 0
	}

	sorted := append([]string(nil), activeDays...)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	cursor := today
	if sorted[0] != DateKey(today) {
		yesterday := today.AddDate(0, 0, -1)
		if sorted[0] != DateKey(yesterday) {
			return 0
		}
		cursor = yesterday
	}

	streak := 0
	for _, day := range sorted {
		if day != DateKey(cursor) {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak 历史最长连续使用天数
func LongestStreak(activeDays []string) int {
	if len(activeDays) == 0 {
		return 0
	}

	sorted := append([]string(nil), activeDays...)
	sort.Strings(sorted)

	longest := 1
	current := 1
	for i := 1; i < len(sorted); i++ {
		prev, err1 := time.Parse(dateKeyLayout, sorted[i-1])
		curr, err2 := time.Parse(dateKeyLayout, sorted[i])
		if err1 != nil || err2 != nil {
			current = 1
			continue
		}
		if curr.Sub(prev) == 24*time.Hour {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}

// ActiveDaysInMonth 某年某月的活跃天数
func ActiveDaysInMonth(activeDays []string, year int, month time.Month) int {
	prefix := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	n := 0
	for _, day := range activeDays {
		if len(day) >= 7 && day[:7] == prefix {
			n++
		}
	}
	return n
}

// UsageStats 使用统计汇总
type UsageStats struct {
	TotalDays     int    `json:"total_days"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	ThisMonth     int    `json:"this_month"`
	LastActive    string `json:"last_active"`
}

// Stats 计算使用统计
func Stats(u schema.Usage, now time.Time) UsageStats {
	lastActive := ""
	if len(u.ActiveDays) > 0 {
		sorted := append([]string(nil), u.ActiveDays...)
		sort.Strings(sorted)
		lastActive = sorted[len(sorted)-1]
	}
	return UsageStats{
		TotalDays:     len(u.ActiveDays),
		CurrentStreak: CurrentStreak(u.ActiveDays, now),
		LongestStreak: LongestStreak(u.ActiveDays),
		ThisMonth:     ActiveDaysInMonth(u.ActiveDays, now.Year(), now.Month()),
		LastActive:    lastActive,
	}
}
