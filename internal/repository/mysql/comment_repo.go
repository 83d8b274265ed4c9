package mysql

import (
	"context"

	"Clubhouse_Hub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository struct {
	DB    *gorm.DB
	clock clock
}

func (r *CommentRepository) GetCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	list := []model.Comment{}
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *CommentRepository) AddComment(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	c := *comment
	c.StripJoined()
	now := r.clock.now()
	c.ID = newID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(&c).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}
