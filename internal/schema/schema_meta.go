package schema

// SchemaMeta 记录数据库结构版本（单行，ID=1）
type SchemaMeta struct {
	ID            int64 `gorm:"primaryKey"`
	SchemaVersion int
}

// TableName 指定表名
func (SchemaMeta) TableName() string {
	return "schema_meta"
}
