package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/pkg"
	"Clubhouse_Hub/internal/repository"

	"github.com/cenkalti/backoff/v5"
)

// DefaultFullName 既没有姓名也无法从邮箱推出时使用
const DefaultFullName = "New Member"

const (
	DefaultLookupAttempts = 3
	DefaultLookupDelay    = 300 * time.Millisecond
)

type ProvisionConfig struct {
	LookupAttempts uint
	LookupDelay    time.Duration
}

// ProvisionService 每个身份只创建一次 Profile 与默认场馆关系
type ProvisionService struct {
	store  repository.Store
	events pkg.EventPublisher
	cfg    ProvisionConfig
}

func NewProvisionService(store repository.Store, events pkg.EventPublisher, cfg ProvisionConfig) *ProvisionService {
	if cfg.LookupAttempts == 0 {
		cfg.LookupAttempts = DefaultLookupAttempts
	}
	if cfg.LookupDelay <= 0 {
		cfg.LookupDelay = DefaultLookupDelay
	}
	if events == nil {
		events = pkg.NopPublisher{}
	}
	return &ProvisionService{store: store, events: events, cfg: cfg}
}

// FullNameFor 优先使用身份里的姓名，其次邮箱 @ 前的部分
func FullNameFor(ident model.Identity) string {
	if name := ident.FullName(); name != "" {
		return name
	}
	if local, _, _ := strings.Cut(ident.Email, "@"); local != "" {
		return local
	}
	return DefaultFullName
}

// EnsureProfile 可重复调用；所有存储错误只记录日志，不返回给调用方
func (s *ProvisionService) EnsureProfile(ctx context.Context, ident model.Identity) {
	log := slog.With("user_id", ident.ID, "email", ident.Email)

	existing, err := s.store.GetProfile(ctx, ident.ID)
	if err != nil {
		log.Error("profile lookup failed", "error", err)
		pkg.ProfilesProvisioned.WithLabelValues("error").Inc()
		return
	}
	if existing != nil {
		pkg.ProfilesProvisioned.WithLabelValues("existing").Inc()
		return
	}

	profile := &model.Profile{
		ID:       ident.ID,
		Email:    ident.Email,
		FullName: FullNameFor(ident),
		Role:     model.RoleMember,
	}
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.reportDuplicate(ctx, log, ident)
			return
		}
		log.Error("create profile failed", "error", err)
		pkg.ProfilesProvisioned.WithLabelValues("error").Inc()
		return
	}

	locations, err := s.store.GetLocations(ctx)
	if err != nil {
		log.Error("list locations failed, profile left without memberships", "error", err)
		pkg.ProfilesProvisioned.WithLabelValues("partial").Inc()
		return
	}
	if len(locations) > 0 {
		rows := make([]model.MemberLocation, 0, len(locations))
		for i, loc := range locations {
			rows = append(rows, model.MemberLocation{
				ProfileID:  ident.ID,
				LocationID: loc.ID,
				IsPrimary:  i == 0,
			})
		}
		if err := s.store.AddMemberLocations(ctx, rows); err != nil {
			log.Error("add member locations failed", "error", err)
			pkg.ProfilesProvisioned.WithLabelValues("partial").Inc()
			return
		}
	}

	pkg.ProfilesProvisioned.WithLabelValues("created").Inc()
	log.Info("profile provisioned", "locations", len(locations))

	ev := pkg.Event{Type: pkg.EventProfileCreated, Key: profile.ID, Payload: profile}
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Warn("publish profile event failed", "error", err)
	}
}

// reportDuplicate 区分并发登录已插入同一 id 与邮箱已属于另一个 Profile
func (s *ProvisionService) reportDuplicate(ctx context.Context, log *slog.Logger, ident model.Identity) {
	owner, err := s.store.GetProfileByEmail(ctx, ident.Email)
	if err == nil && owner != nil && owner.ID != ident.ID {
		log.Error("email already belongs to another profile, identity left without one", "profile_id", owner.ID)
		pkg.ProfilesProvisioned.WithLabelValues("conflict").Inc()
		return
	}
	log.Debug("profile already provisioned concurrently")
	pkg.ProfilesProvisioned.WithLabelValues("existing").Inc()
}

// LoadProfile 有限次数重试，覆盖刚刚并发创建的窗口
func (s *ProvisionService) LoadProfile(ctx context.Context, userID string) (*model.Profile, error) {
	op := func() (*model.Profile, error) {
		p, err := s.store.GetProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrProfileNotReady
		}
		return p, nil
	}
	p, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(s.cfg.LookupDelay)),
		backoff.WithMaxTries(s.cfg.LookupAttempts),
	)
	if err != nil {
		slog.Error("profile still unavailable, continuing without it", "user_id", userID, "attempts", s.cfg.LookupAttempts, "error", err)
		return nil, err
	}
	return p, nil
}
