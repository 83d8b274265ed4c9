package service

import (
	"context"
	"strings"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository"
)

type ProfileView struct {
	model.Profile
	RoleLabel string `json:"role_label"`
}

func newProfileView(p model.Profile) ProfileView {
	return ProfileView{Profile: p, RoleLabel: model.RoleLabels[p.Role]}
}

func newProfileViews(list []model.Profile) []ProfileView {
	out := make([]ProfileView, 0, len(list))
	for _, p := range list {
		out = append(out, newProfileView(p))
	}
	return out
}

type ProfileService struct {
	store repository.Store
}

func NewProfileService(store repository.Store) *ProfileService {
	return &ProfileService{store: store}
}

func (s *ProfileService) ListProfiles(ctx context.Context) ([]ProfileView, error) {
	list, err := s.store.GetProfiles(ctx)
	if err != nil {
		return nil, err
	}
	return newProfileViews(list), nil
}

func (s *ProfileService) GetProfile(ctx context.Context, id string) (*ProfileView, error) {
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	v := newProfileView(*p)
	return &v, nil
}

// UpdateMe 演示模式下后端返回 repository.ErrNotSupported
func (s *ProfileService) UpdateMe(ctx context.Context, userID string, changes repository.ProfileUpdate) (*ProfileView, error) {
	if changes.FullName != nil {
		name := strings.TrimSpace(*changes.FullName)
		if name == "" {
			return nil, invalid("full_name cannot be empty")
		}
		changes.FullName = &name
	}
	p, err := s.store.UpdateProfile(ctx, userID, changes)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	v := newProfileView(*p)
	return &v, nil
}
