// Package repository defines the storage contract shared by the in-memory and
// relational backends, and the facade that routes every call to exactly one of them.
package repository

import (
	"context"
	"errors"

	"Clubhouse_Hub/internal/model"
)

var (
	// ErrDuplicate 唯一约束冲突（两个后端统一使用）
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotSupported 当前后端不支持该操作
	ErrNotSupported = errors.New("operation not supported by this backend")
)

// LocationMembership is the per-user view of a MemberLocation row.
type LocationMembership struct {
	LocationID string `json:"location_id"`
	IsPrimary  bool   `json:"is_primary"`
}

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	FullName    *string
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

// Store is implemented by both backends. Single-entity lookups return (nil, nil)
// when the row does not exist.
type Store interface {
	GetLocations(ctx context.Context) ([]model.Location, error)
	GetLocation(ctx context.Context, id string) (*model.Location, error)
	GetLocationsByUser(ctx context.Context, userID string) ([]LocationMembership, error)
	AddMemberLocations(ctx context.Context, rows []model.MemberLocation) error

	GetProfiles(ctx context.Context) ([]model.Profile, error)
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error)
	GetProfilesByLocation(ctx context.Context, locationID string) ([]model.Profile, error)
	CreateProfile(ctx context.Context, profile *model.Profile) error
	UpdateProfile(ctx context.Context, id string, changes ProfileUpdate) (*model.Profile, error)

	GetChannelsByLocation(ctx context.Context, locationID string) ([]model.Channel, error)
	GetChannel(ctx context.Context, id string) (*model.Channel, error)

	GetPostsByChannel(ctx context.Context, channelID string) ([]model.Post, error)
	GetPost(ctx context.Context, id string) (*model.Post, error)
	GetPostsByLocation(ctx context.Context, locationID string) ([]model.Post, error)
	AddPost(ctx context.Context, post *model.Post) (*model.Post, error)

	GetCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error)
	AddComment(ctx context.Context, comment *model.Comment) (*model.Comment, error)

	GetConversationsForUser(ctx context.Context, userID string) ([]model.Conversation, error)
	GetConversation(ctx context.Context, id string) (*model.Conversation, error)
	GetMessagesByConversation(ctx context.Context, conversationID string) ([]model.DirectMessage, error)
	AddMessage(ctx context.Context, msg *model.DirectMessage) (*model.DirectMessage, error)
	GetOrCreateConversation(ctx context.Context, userA, userB string) (*model.Conversation, error)
}

// PrimaryOnce keeps at most one is_primary row: the first primary in rows wins,
// and none wins when the profile already has a primary location.
func PrimaryOnce(rows []model.MemberLocation, hasPrimary bool) {
	seen := hasPrimary
	for i := range rows {
		if !rows[i].IsPrimary {
			continue
		}
		if seen {
			rows[i].IsPrimary = false
			continue
		}
		seen = true
	}
}
