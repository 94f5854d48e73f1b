package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sketch0395/focuszone/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserDataRepository 按 (用户, 数据类型) 存取不透明 JSON 行
type UserDataRepository struct {
	db *gorm.DB
}

// NewUserDataRepository 创建仓储
func NewUserDataRepository(db *gorm.DB) *UserDataRepository {
	return &UserDataRepository{db: db}
}

// Upsert 插入或整行替换，同时刷新 last_synced
func (r *UserDataRepository) Upsert(ctx context.Context, userID int64, dataType, data string) error {
	row := &schema.UserData{
		UserID:     userID,
		DataType:   dataType,
		Data:       data,
		LastSynced: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "data_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "last_synced"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("写入用户数据失败: %w", err)
	}
	return nil
}

// Get 查询单行，不存在返回 nil（合法的空状态，不是错误）
func (r *UserDataRepository) Get(ctx context.Context, userID int64, dataType string) (*schema.UserData, error) {
	var row schema.UserData
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND data_type = ?", userID, dataType).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询用户数据失败: %w", err)
	}
	return &row, nil
}

// GetAll 查询用户的全部数据行
func (r *UserDataRepository) GetAll(ctx context.Context, userID int64) ([]schema.UserData, error) {
	var rows []schema.UserData
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("data_type").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询用户数据失败: %w", err)
	}
	return rows, nil
}

// Delete 删除单个类型的行
func (r *UserDataRepository) Delete(ctx context.Context, userID int64, dataType string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND data_type = ?", userID, dataType).
		Delete(&schema.UserData{}).Error
	if err != nil {
		return fmt.Errorf("删除用户数据失败: %w", err)
	}
	return nil
}

// CountForUser 统计用户数据行数
func (r *UserDataRepository) CountForUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&schema.UserData{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计用户数据失败: %w", err)
	}
	return count, nil
}
