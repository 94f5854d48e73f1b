package schema

// 日程块分类闭集
const (
	BlockWork        = "work"
	BlockSideProject = "side-project"
	BlockBreak       = "break"
	BlockPersonal    = "personal"
)

// BlockCategories 全部合法分类
var BlockCategories = []string{BlockWork, BlockSideProject, BlockBreak, BlockPersonal}

// ValidBlockCategory 校验分类是否合法
func ValidBlockCategory(c string) bool {
	for _, v := range BlockCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Block 日程块。数组顺序即日程顺序，排序由用户驱动，与时间字段无关。
type Block struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"type"` // 兼容旧前端字段名 type
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Completed bool   `json:"completed"`
	Color     string `json:"color"`
}

// DefaultRoutine 默认日程（未登录新设备的初始值）
func DefaultRoutine() []Block {
	return []Block{
		{ID: "1", Name: "Morning Focus Work", Category: BlockWork, StartTime: "09:00", EndTime: "11:00", Color: "bg-blue-500"},
		{ID: "2", Name: "Break Time", Category: BlockBreak, StartTime: "11:00", EndTime: "11:15", Color: "bg-green-500"},
		{ID: "3", Name: "Work Sprint", Category: BlockWork, StartTime: "11:15", EndTime: "12:30", Color: "bg-blue-500"},
		{ID: "4", Name: "Lunch Break", Category: BlockBreak, StartTime: "12:30", EndTime: "13:30", Color: "bg-green-500"},
		{ID: "5", Name: "Afternoon Work", Category: BlockWork, StartTime: "13:30", EndTime: "15:30", Color: "bg-blue-500"},
		{ID: "6", Name: "Side Project Time", Category: BlockSideProject, StartTime: "15:30", EndTime: "17:00", Color: "bg-purple-500"},
		{ID: "7", Name: "Personal Time", Category: BlockPersonal, StartTime: "17:00", EndTime: "18:00", Color: "bg-orange-500"},
	}
}
