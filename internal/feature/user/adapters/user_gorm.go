// Package adapters はuserフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"courtier_backend/internal/feature/user/domain"
	"courtier_backend/internal/feature/user/domain/entity"
	"courtier_backend/internal/platform/db"
)

// userGorm はユーザーリポジトリのGORM実装です（MySQL / PostgreSQL）。
type userGorm struct {
	db *gorm.DB
}

// NewUserRepository は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserRepository(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// 同じメールアドレスのユーザーが既に存在する場合、domain.ErrUserAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// Save はユーザーの全カラムを更新します（パスワード・リセットトークンの更新に使用）。
// 削除済みのユーザーは再作成せず、domain.ErrUserNotFoundを返します。
func (r *userGorm) Save(ctx context.Context, u *entity.User) error {
	res := r.db.WithContext(ctx).Model(u).Select("*").Omit("CreatedAt").Updates(u)
	if res.Error != nil {
		if db.IsDuplicateKey(res.Error) {
			return domain.ErrUserAlreadyExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByEmailAndRole はメールアドレスとロールの両方が一致するユーザーを取得します。
func (r *userGorm) FindByEmailAndRole(ctx context.Context, email string, role entity.Role) (*entity.User, error) {
	return r.first(ctx, "email = ? AND role = ?", email, role)
}

// FindByID はIDでユーザーを取得します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userGorm) first(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateProfile は名前・メールアドレス・電話番号のうち指定されたものだけを更新します。
func (r *userGorm) UpdateProfile(ctx context.Context, id uint, p entity.ProfileUpdate) error {
	cols := p.Columns()
	if len(cols) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(cols).Error
	if err != nil && db.IsDuplicateKey(err) {
		return domain.ErrUserAlreadyExists
	}
	return err
}

// ListByRole は指定ロールのユーザーをページングして返し、総件数も返します。
func (r *userGorm) ListByRole(ctx context.Context, role entity.Role, offset, limit int) ([]entity.User, int64, error) {
	var (
		users []entity.User
		total int64
	)
	q := r.db.WithContext(ctx).Model(&entity.User{}).Where("role = ?", role).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Delete はユーザーを物理削除します。関連するリードは外部キーのCASCADEで削除されます。
func (r *userGorm) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
