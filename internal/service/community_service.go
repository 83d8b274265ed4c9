package service

import (
	"context"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository"
)

// ChannelView 频道附带分类的展示信息
type ChannelView struct {
	model.Channel
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

func newChannelView(ch model.Channel) ChannelView {
	meta := model.ChannelMeta[ch.Category]
	return ChannelView{Channel: ch, Label: meta.Label, Icon: meta.Icon}
}

type MyLocation struct {
	model.Location
	IsPrimary bool `json:"is_primary"`
}

type CommunityService struct {
	store repository.Store
}

func NewCommunityService(store repository.Store) *CommunityService {
	return &CommunityService{store: store}
}

func (s *CommunityService) ListLocations(ctx context.Context) ([]model.Location, error) {
	return s.store.GetLocations(ctx)
}

func (s *CommunityService) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	loc, err := s.store.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, ErrNotFound
	}
	return loc, nil
}

// MyLocations 主场馆排在最前
func (s *CommunityService) MyLocations(ctx context.Context, userID string) ([]MyLocation, error) {
	memberships, err := s.store.GetLocationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]MyLocation, 0, len(memberships))
	var rest []MyLocation
	for _, m := range memberships {
		loc, err := s.store.GetLocation(ctx, m.LocationID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			continue
		}
		if m.IsPrimary {
			out = append(out, MyLocation{Location: *loc, IsPrimary: true})
		} else {
			rest = append(rest, MyLocation{Location: *loc})
		}
	}
	return append(out, rest...), nil
}

func (s *CommunityService) ListChannels(ctx context.Context, locationID string) ([]ChannelView, error) {
	if _, err := s.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}
	channels, err := s.store.GetChannelsByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]ChannelView, 0, len(channels))
	for _, ch := range channels {
		out = append(out, newChannelView(ch))
	}
	return out, nil
}

func (s *CommunityService) GetChannel(ctx context.Context, id string) (*ChannelView, error) {
	ch, err := s.store.GetChannel(ctx, id)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrNotFound
	}
	v := newChannelView(*ch)
	return &v, nil
}

func (s *CommunityService) ListMembers(ctx context.Context, locationID string) ([]ProfileView, error) {
	if _, err := s.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}
	profiles, err := s.store.GetProfilesByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return newProfileViews(profiles), nil
}

// LocationFeed 场馆下所有频道的帖子，置顶优先
func (s *CommunityService) LocationFeed(ctx context.Context, locationID string) ([]model.Post, error) {
	if _, err := s.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}
	return s.store.GetPostsByLocation(ctx, locationID)
}

func (s *CommunityService) ChannelPosts(ctx context.Context, channelID string) ([]model.Post, error) {
	if _, err := s.GetChannel(ctx, channelID); err != nil {
		return nil, err
	}
	return s.store.GetPostsByChannel(ctx, channelID)
}
