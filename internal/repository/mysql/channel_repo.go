package mysql

import (
	"context"
	"errors"

	"Clubhouse_Hub/internal/model"

	"gorm.io/gorm"
)

type ChannelRepository struct {
	DB *gorm.DB
}

func (r *ChannelRepository) GetChannelsByLocation(ctx context.Context, locationID string) ([]model.Channel, error) {
	var list []model.Channel
	err := r.DB.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("sort_order ASC").
		Find(&list).Error
	return list, err
}

func (r *ChannelRepository) GetChannel(ctx context.Context, id string) (*model.Channel, error) {
	var ch model.Channel
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}
