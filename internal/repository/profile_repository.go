package repository

import (
	"context"
	"errors"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePersonalID personalID 为 nil 表示解除绑定
func (r *ProfileRepository) UpdatePersonalID(ctx context.Context, id string, personalID *string) error {
	res := r.DB.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", id).
		Update("personal_id", personalID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

func (r *ProfileRepository) FindByPersonalID(ctx context.Context, personalID string) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.DB.WithContext(ctx).
		Where("personal_id = ? AND role = ?", personalID, model.RoleStudent).
		Order("name ASC").
		Find(&profiles).Error
	return profiles, err
}

// ListByRole 按注册时间倒序
func (r *ProfileRepository) ListByRole(ctx context.Context, role model.UserRole) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.DB.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at DESC").
		Find(&profiles).Error
	return profiles, err
}

// FindByEmail 忽略大小写
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var p model.Profile
	err := r.DB.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	return r.DB.WithContext(ctx).Save(p).Error
}
