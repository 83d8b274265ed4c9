package mysql

import (
	"context"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberLocationRepository struct {
	DB    *gorm.DB
	clock clock
}

func (r *MemberLocationRepository) GetLocationsByUser(ctx context.Context, userID string) ([]repository.LocationMembership, error) {
	var rows []model.MemberLocation
	if err := r.DB.WithContext(ctx).
		Where("profile_id = ?", userID).
		Order("is_primary DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]repository.LocationMembership, 0, len(rows))
	for _, ml := range rows {
		out = append(out, repository.LocationMembership{LocationID: ml.LocationID, IsPrimary: ml.IsPrimary})
	}
	return out, nil
}

// AddMemberLocations 幂等插入：(profile_id, location_id) 已存在则跳过
func (r *MemberLocationRepository) AddMemberLocations(ctx context.Context, rows []model.MemberLocation) error {
	if len(rows) == 0 {
		return nil
	}
	rows = append([]model.MemberLocation(nil), rows...)

	// 已有主场馆时，新行一律不再标记为主
	var primaries int64
	if err := r.DB.WithContext(ctx).Model(&model.MemberLocation{}).
		Where("profile_id = ? AND is_primary = ?", rows[0].ProfileID, true).
		Count(&primaries).Error; err != nil {
		return err
	}
	repository.PrimaryOnce(rows, primaries > 0)

	now := r.clock.now()
	for i := range rows {
		rows[i].ID = newID()
		rows[i].CreatedAt = now
	}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "location_id"}},
		DoNothing: true,
	}).Create(&rows).Error
	return translateError(err)
}
