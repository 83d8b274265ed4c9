package mysql

import (
	"context"
	"errors"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB    *gorm.DB
	clock clock
}

func (r *ProfileRepository) GetProfiles(ctx context.Context) ([]model.Profile, error) {
	var list []model.Profile
	err := r.DB.WithContext(ctx).Order("full_name ASC").Find(&list).Error
	return list, err
}

func (r *ProfileRepository) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var p model.Profile
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfilesByLocation 通过 member_locations 关联查询
func (r *ProfileRepository) GetProfilesByLocation(ctx context.Context, locationID string) ([]model.Profile, error) {
	var list []model.Profile
	err := r.DB.WithContext(ctx).
		Joins("JOIN member_locations ON member_locations.profile_id = profiles.id").
		Where("member_locations.location_id = ?", locationID).
		Order("profiles.full_name ASC").
		Find(&list).Error
	return list, err
}

// CreateProfile 主键即身份 id，重复插入返回 repository.ErrDuplicate
func (r *ProfileRepository) CreateProfile(ctx context.Context, profile *model.Profile) error {
	now := r.clock.now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if profile.Role == "" {
		profile.Role = model.RoleMember
	}
	return translateError(r.DB.WithContext(ctx).Create(profile).Error)
}

func (r *ProfileRepository) UpdateProfile(ctx context.Context, id string, changes repository.ProfileUpdate) (*model.Profile, error) {
	updates := map[string]any{}
	if changes.FullName != nil {
		updates["full_name"] = *changes.FullName
	}
	if changes.DisplayName != nil {
		updates["display_name"] = *changes.DisplayName
	}
	if changes.Bio != nil {
		updates["bio"] = *changes.Bio
	}
	if changes.AvatarURL != nil {
		updates["avatar_url"] = *changes.AvatarURL
	}
	if len(updates) > 0 {
		updates["updated_at"] = r.clock.now()
		tx := r.DB.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Updates(updates)
		if tx.Error != nil {
			return nil, tx.Error
		}
	}
	return r.GetProfile(ctx, id)
}
