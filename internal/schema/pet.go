package schema

// Pet 虚拟宠物状态
// 四项体征恒定在 [0,100]，存储值是锚定在 updatedAt 的基线；
// 三个照料时间戳与 updatedAt 均为 Unix 毫秒，衰减只覆盖尚未投影过的区间。
type Pet struct {
	Name      string  `json:"name"`
	Species   string  `json:"type"` // 兼容旧前端字段名 type
	Level     int     `json:"level"`
	Happiness float64 `json:"happiness"`
	Health    float64 `json:"health"`
	Hunger    float64 `json:"hunger"`
	Energy    float64 `json:"energy"`
	LastFed   int64   `json:"lastFed"`
	LastPlay  int64   `json:"lastPlayed"`
	LastRest  int64   `json:"lastSlept"` // 兼容旧前端字段名 lastSlept
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt,omitempty"` // 体征基线时刻，旧记录缺省为 0
}

// LastCaredAt 三个照料时间戳中的最大值，整记录合并时用它判定新旧
func (p Pet) LastCaredAt() int64 {
	t := p.LastFed
	if p.LastPlay > t {
		t = p.LastPlay
	}
	if p.LastRest > t {
		t = p.LastRest
	}
	return t
}
