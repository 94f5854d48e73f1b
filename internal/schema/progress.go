package schema

// PointsEvent 一次积分获取记录
type PointsEvent struct {
	Amount    int    `json:"amount"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"` // Unix 毫秒
}

// HistoryCap 积分历史环形上限，超出时丢弃最旧事件
const HistoryCap = 50

// Progress 游戏化进度记录
// points 单调不减（除外部重置）；level 永远由 points 推导，不独立存储为权威值；
// achievements 只增不减，解锁奖励积分恰好加一次。
type Progress struct {
	Points            int           `json:"points"`
	Level             int           `json:"level"`
	Achievements      []string      `json:"achievements"`
	CompletedBlocks   int           `json:"completedBlocks"`
	CompletedSessions int           `json:"completedSessions"`
	TotalFocusMinutes int           `json:"totalFocusMinutes"`
	LastPointsEarned  int           `json:"lastPointsEarned,omitempty"`
	PointsHistory     []PointsEvent `json:"pointsHistory"`
}

// NewProgress 初始进度记录
func NewProgress() Progress {
	return Progress{
		Achievements:  []string{},
		PointsHistory: []PointsEvent{},
	}
}

// HasAchievement 判断成就是否已解锁
func (p Progress) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Clone 深拷贝，纯函数修改前先复制切片避免共享底层数组
func (p Progress) Clone() Progress {
	out := p
	out.Achievements = append([]string(nil), p.Achievements...)
	out.PointsHistory = append([]PointsEvent(nil), p.PointsHistory...)
	return out
}
