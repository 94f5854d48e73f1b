package schema

import (
	"time"
)

// 同步数据类型闭集，也是云端同步的最小粒度（整行 upsert，不做字段级同步）
const (
	DataTypeRoutine      = "routine"
	DataTypeGamification = "gamification"
	DataTypeUsage        = "usage"
	DataTypePet          = "pet"
)

// DataTypes 按固定顺序列出全部数据类型
var DataTypes = []string{DataTypeRoutine, DataTypeGamification, DataTypeUsage, DataTypePet}

// ValidDataType 校验数据类型是否在闭集内
func ValidDataType(t string) bool {
	for _, v := range DataTypes {
		if v == t {
			return true
		}
	}
	return false
}

// UserData 每个 (用户, 数据类型) 一行，data 为不透明 JSON
// 数据量级：用户数 × 4
type UserData struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"uniqueIndex:idx_user_data_user_type;index" json:"user_id"`
	DataType   string    `gorm:"size:20;uniqueIndex:idx_user_data_user_type" json:"data_type"`
	Data       string    `gorm:"type:text" json:"data"`
	LastSynced time.Time `json:"last_synced"`
}

// TableName 指定表名
func (UserData) TableName() string {
	return "user_data"
}
