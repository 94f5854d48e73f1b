package schema

// Usage 使用记录。activeDays 为去重的 YYYY-MM-DD 日期集合，
// totalSessions 单调递增。
type Usage struct {
	ActiveDays    []string `json:"activeDays"`
	LastVisit     string   `json:"lastVisit"`
	TotalSessions int      `json:"totalSessions"`
}

// NewUsage 初始使用记录
func NewUsage() Usage {
	return Usage{ActiveDays: []string{}}
}

// HasDay 判断某天是否已记录
func (u Usage) HasDay(day string) bool {
	for _, d := range u.ActiveDays {
		if d == day {
			return true
		}
	}
	return false
}

// Clone 深拷贝
func (u Usage) Clone() Usage {
	out := u
	out.ActiveDays = append([]string(nil), u.ActiveDays...)
	return out
}
