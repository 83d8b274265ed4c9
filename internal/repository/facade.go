package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"Clubhouse_Hub/internal/model"
)

// Mode selects the backend for the whole process lifetime.
type Mode string

const (
	ModeMock       Mode = "mock"
	ModeRelational Mode = "relational"
)

// ModeFromDemoFlag maps the demo toggle to a Mode.
func ModeFromDemoFlag(demo bool) Mode {
	if demo {
		return ModeMock
	}
	return ModeRelational
}

// ParseMode accepts "mock", "relational" or a boolean demo flag.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMock, ModeRelational:
		return Mode(s), nil
	}
	demo, err := strconv.ParseBool(s)
	if err != nil {
		return "", fmt.Errorf("invalid mode %q", s)
	}
	return ModeFromDemoFlag(demo), nil
}

// Backends 后端工厂，只有被选中的那个会被调用
type Backends struct {
	Mock       func() (Store, error)
	Relational func() (Store, error)
}

// Facade routes every call to the backend chosen at construction.
type Facade struct {
	mode  Mode
	store Store
}

var _ Store = (*Facade)(nil)

// NewFacade builds the backend for mode. The other factory is never invoked.
func NewFacade(mode Mode, b Backends) (*Facade, error) {
	var factory func() (Store, error)
	switch mode {
	case ModeMock:
		factory = b.Mock
	case ModeRelational:
		factory = b.Relational
	default:
		return nil, fmt.Errorf("unknown store mode %q", mode)
	}
	if factory == nil {
		return nil, errors.New("no backend factory for mode " + string(mode))
	}
	s, err := factory()
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", mode, err)
	}
	return &Facade{mode: mode, store: s}, nil
}

func (f *Facade) Mode() Mode { return f.mode }

func (f *Facade) GetLocations(ctx context.Context) ([]model.Location, error) {
	return f.store.GetLocations(ctx)
}

func (f *Facade) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	return f.store.GetLocation(ctx, id)
}

func (f *Facade) GetLocationsByUser(ctx context.Context, userID string) ([]LocationMembership, error) {
	return f.store.GetLocationsByUser(ctx, userID)
}

func (f *Facade) AddMemberLocations(ctx context.Context, rows []model.MemberLocation) error {
	return f.store.AddMemberLocations(ctx, rows)
}

func (f *Facade) GetProfiles(ctx context.Context) ([]model.Profile, error) {
	return f.store.GetProfiles(ctx)
}

func (f *Facade) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	return f.store.GetProfile(ctx, id)
}

func (f *Facade) GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return f.store.GetProfileByEmail(ctx, email)
}

func (f *Facade) GetProfilesByLocation(ctx context.Context, locationID string) ([]model.Profile, error) {
	return f.store.GetProfilesByLocation(ctx, locationID)
}

func (f *Facade) CreateProfile(ctx context.Context, profile *model.Profile) error {
	return f.store.CreateProfile(ctx, profile)
}

func (f *Facade) UpdateProfile(ctx context.Context, id string, changes ProfileUpdate) (*model.Profile, error) {
	return f.store.UpdateProfile(ctx, id, changes)
}

func (f *Facade) GetChannelsByLocation(ctx context.Context, locationID string) ([]model.Channel, error) {
	return f.store.GetChannelsByLocation(ctx, locationID)
}

func (f *Facade) GetChannel(ctx context.Context, id string) (*model.Channel, error) {
	return f.store.GetChannel(ctx, id)
}

func (f *Facade) GetPostsByChannel(ctx context.Context, channelID string) ([]model.Post, error) {
	return f.store.GetPostsByChannel(ctx, channelID)
}

func (f *Facade) GetPost(ctx context.Context, id string) (*model.Post, error) {
	return f.store.GetPost(ctx, id)
}

func (f *Facade) GetPostsByLocation(ctx context.Context, locationID string) ([]model.Post, error) {
	return f.store.GetPostsByLocation(ctx, locationID)
}

// AddPost 写入前剥离关联字段，id 与时间戳由后端分配
func (f *Facade) AddPost(ctx context.Context, post *model.Post) (*model.Post, error) {
	in := *post
	in.StripJoined()
	in.ID = ""
	return f.store.AddPost(ctx, &in)
}

func (f *Facade) GetCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	return f.store.GetCommentsByPost(ctx, postID)
}

func (f *Facade) AddComment(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	in := *comment
	in.StripJoined()
	in.ID = ""
	return f.store.AddComment(ctx, &in)
}

func (f *Facade) GetConversationsForUser(ctx context.Context, userID string) ([]model.Conversation, error) {
	return f.store.GetConversationsForUser(ctx, userID)
}

func (f *Facade) GetConversation(ctx context.Context, id string) (*model.Conversation, error) {
	return f.store.GetConversation(ctx, id)
}

func (f *Facade) GetMessagesByConversation(ctx context.Context, conversationID string) ([]model.DirectMessage, error) {
	return f.store.GetMessagesByConversation(ctx, conversationID)
}

func (f *Facade) AddMessage(ctx context.Context, msg *model.DirectMessage) (*model.DirectMessage, error) {
	in := *msg
	in.StripJoined()
	in.ID = ""
	return f.store.AddMessage(ctx, &in)
}

func (f *Facade) GetOrCreateConversation(ctx context.Context, userA, userB string) (*model.Conversation, error) {
	return f.store.GetOrCreateConversation(ctx, userA, userB)
}
