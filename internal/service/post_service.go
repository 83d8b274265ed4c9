package service

import (
	"context"
	"strings"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository"
)

type CreatePostInput struct {
	ChannelID  string
	Title      string
	Body       string
	ImageURL   string
	BookingURL string
	IsPinned   bool
}

type PostService struct {
	store repository.Store
}

func NewPostService(store repository.Store) *PostService {
	return &PostService{store: store}
}

// author 发帖/评论前必须已有 Profile
func (s *PostService) author(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotReady
	}
	return p, nil
}

// CreatePost 置顶需要 admin 或 staff
func (s *PostService) CreatePost(ctx context.Context, userID string, in CreatePostInput) (*model.Post, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, invalid("body is required")
	}
	if in.ChannelID == "" {
		return nil, invalid("channel_id is required")
	}

	author, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.IsPinned && !author.Role.CanModerate() {
		return nil, ErrForbidden
	}

	ch, err := s.store.GetChannel(ctx, in.ChannelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrNotFound
	}

	return s.store.AddPost(ctx, &model.Post{
		ChannelID:  ch.ID,
		AuthorID:   author.ID,
		Title:      strings.TrimSpace(in.Title),
		Body:       body,
		ImageURL:   strings.TrimSpace(in.ImageURL),
		BookingURL: strings.TrimSpace(in.BookingURL),
		IsPinned:   in.IsPinned,
	})
}

func (s *PostService) GetPost(ctx context.Context, id string) (*model.Post, error) {
	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *PostService) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.GetCommentsByPost(ctx, postID)
}

func (s *PostService) AddComment(ctx context.Context, userID, postID, body string) (*model.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalid("body is required")
	}
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	author, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.AddComment(ctx, &model.Comment{PostID: postID, AuthorID: author.ID, Body: body})
}
