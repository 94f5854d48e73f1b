package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sketch0395/focuszone/internal/schema"
	"gorm.io/gorm"
)

// UserRepository 用户仓储
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建仓储
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *schema.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("创建用户失败: %w", err)
	}
	return nil
}

// GetByEmail 按邮箱查询用户，不存在返回 nil
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*schema.User, error) {
	var user schema.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &user, nil
}

// GetByID 按 ID 查询用户，不存在返回 nil
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*schema.User, error) {
	var user schema.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &user, nil
}

// Delete 删除用户并级联清理其全部同步数据（同一事务内）
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&schema.UserData{}).Error; err != nil {
			return fmt.Errorf("删除用户数据失败: %w", err)
		}
		if err := tx.Delete(&schema.User{}, id).Error; err != nil {
			return fmt.Errorf("删除用户失败: %w", err)
		}
		return nil
	})
}
