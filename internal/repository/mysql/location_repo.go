package mysql

import (
	"context"
	"errors"

	"Clubhouse_Hub/internal/model"

	"gorm.io/gorm"
)

type LocationRepository struct {
	DB *gorm.DB
}

func (r *LocationRepository) GetLocations(ctx context.Context) ([]model.Location, error) {
	var list []model.Location
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

// GetLocation 不存在时返回 nil, nil
func (r *LocationRepository) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
