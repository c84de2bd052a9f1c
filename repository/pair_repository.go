package repository

import (
	"context"
	"fmt"

	"BassTab/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PairRepository 曲目配对数据访问接口
type PairRepository interface {
	GetBySlug(ctx context.Context, slug string) (*model.Pair, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Upsert(ctx context.Context, pair *model.Pair) error
	Delete(ctx context.Context, slug string) error
	All(ctx context.Context) ([]*model.Pair, error)
}

// gormPairRepository GORM 实现
type gormPairRepository struct {
	db *gorm.DB
}

// NewGormPairRepository 创建 GORM 配对仓库
func NewGormPairRepository(db *gorm.DB) PairRepository {
	return &gormPairRepository{db: db}
}

// GetBySlug 根据 slug 获取配对记录，未找到时返回 (nil, nil)
func (r *gormPairRepository) GetBySlug(ctx context.Context, slug string) (*model.Pair, error) {
	var pair model.Pair
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&pair).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query pair %q: %w", slug, err)
	}
	return &pair, nil
}

// ExistsBySlug 检查 slug 是否存在
func (r *gormPairRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Pair{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// Upsert 插入或更新配对记录（按 slug 冲突更新）
func (r *gormPairRepository) Upsert(ctx context.Context, pair *model.Pair) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			UpdateAll: true,
		}).
		Create(pair).Error
}

// Delete 删除配对记录
func (r *gormPairRepository) Delete(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).
		Where("slug = ?", slug).
		Delete(&model.Pair{}).Error
}

// All 获取全部配对记录（用于快照导出）
func (r *gormPairRepository) All(ctx context.Context) ([]*model.Pair, error) {
	var pairs []*model.Pair
	err := r.db.WithContext(ctx).
		Order("slug ASC").
		Find(&pairs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pairs: %w", err)
	}
	return pairs, nil
}
