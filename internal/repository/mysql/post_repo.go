package mysql

import (
	"context"
	"errors"

	"Clubhouse_Hub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository struct {
	DB    *gorm.DB
	clock clock
}

const postColumns = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// feed 带作者、频道与评论数，置顶优先，其次按时间倒序
func (r *PostRepository) feed(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Model(&model.Post{}).
		Select(postColumns).
		Preload("Author").
		Preload("Channel").
		Order("posts.is_pinned DESC").
		Order("posts.created_at DESC")
}

func (r *PostRepository) GetPostsByChannel(ctx context.Context, channelID string) ([]model.Post, error) {
	list := []model.Post{}
	err := r.feed(ctx).Where("posts.channel_id = ?", channelID).Find(&list).Error
	return list, err
}

func (r *PostRepository) GetPost(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.feed(ctx).Where("posts.id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPostsByLocation 汇总该场馆所有频道的帖子
func (r *PostRepository) GetPostsByLocation(ctx context.Context, locationID string) ([]model.Post, error) {
	channels := r.DB.WithContext(ctx).Model(&model.Channel{}).Select("id").Where("location_id = ?", locationID)
	list := []model.Post{}
	err := r.feed(ctx).Where("posts.channel_id IN (?)", channels).Find(&list).Error
	return list, err
}

func (r *PostRepository) AddPost(ctx context.Context, post *model.Post) (*model.Post, error) {
	p := *post
	p.StripJoined()
	now := r.clock.now()
	p.ID = newID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(&p).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}
