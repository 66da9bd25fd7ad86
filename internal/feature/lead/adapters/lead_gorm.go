// Package adapters はleadフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"courtier_backend/internal/feature/lead/domain"
	"courtier_backend/internal/feature/lead/domain/entity"
)

// leadGorm はLeadRepositoryのGORM実装です。
type leadGorm struct {
	db *gorm.DB
}

// NewLeadRepository は指定されたgorm.DB接続でleadGormの新しいインスタンスを生成します。
func NewLeadRepository(db *gorm.DB) *leadGorm {
	return &leadGorm{db: db}
}

// Create はリードを追加します。
func (r *leadGorm) Create(ctx context.Context, l *entity.Lead) error {
	return r.db.WithContext(ctx).Omit("User").Create(l).Error
}

// FindByID はIDでリードを取得します。所有ユーザーもあわせて読み込みます。
// 存在しない場合、domain.ErrLeadNotFoundを返します。
func (r *leadGorm) FindByID(ctx context.Context, id uint) (*entity.Lead, error) {
	var l entity.Lead
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List はリードをID順にページングして返し、総件数も返します。
func (r *leadGorm) List(ctx context.Context, offset, limit int) ([]entity.Lead, int64, error) {
	var (
		leads []entity.Lead
		total int64
	)
	if err := r.db.WithContext(ctx).Model(&entity.Lead{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).Preload("User").Order("id").Offset(offset).Limit(limit).Find(&leads).Error
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// Save はリードの全カラムを更新します。関連ユーザーは更新しません。
// 行が存在しない場合は挿入せず、domain.ErrLeadNotFoundを返します。
func (r *leadGorm) Save(ctx context.Context, l *entity.Lead) error {
	res := r.db.WithContext(ctx).Model(l).Select("*").Omit("User", "CreatedAt").Updates(l)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

// Delete はリードを削除します。存在しない場合、domain.ErrLeadNotFoundを返します。
func (r *leadGorm) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Lead{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}
