package service

import (
	"context"
	"fmt"
	"log/slog"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/pkg"
)

// Verifier decides whether an email belongs to an active member.
type Verifier interface {
	Verify(ctx context.Context, email string) Verdict
}

// LoginDispatcher sends one passwordless login artifact to an email.
type LoginDispatcher interface {
	SendMagicLink(ctx context.Context, email string, metadata map[string]string) error
}

type LoginResult struct {
	Email          string
	MembershipTier string
	Name           string
}

// SessionService 先校验会员资格，通过后发送一次登录链接
type SessionService struct {
	verifier   Verifier
	dispatcher LoginDispatcher
}

func NewSessionService(verifier Verifier, dispatcher LoginDispatcher) *SessionService {
	return &SessionService{verifier: verifier, dispatcher: dispatcher}
}

// VerifyMember only checks membership; nothing is sent.
func (s *SessionService) VerifyMember(ctx context.Context, rawEmail string) (*LoginResult, error) {
	email := NormalizeEmail(rawEmail)
	if email == "" {
		return nil, ErrEmailRequired
	}
	v := s.verifier.Verify(ctx, email)
	if !v.IsValid {
		return nil, ErrMembershipRequired
	}
	return &LoginResult{Email: email, MembershipTier: v.MembershipTier, Name: v.Name()}, nil
}

// SendLoginLink 校验失败不发送；发送失败直接返回，不重试
func (s *SessionService) SendLoginLink(ctx context.Context, rawEmail string) (*LoginResult, error) {
	res, err := s.VerifyMember(ctx, rawEmail)
	if err != nil {
		return nil, err
	}

	var metadata map[string]string
	if res.Name != "" {
		metadata = map[string]string{model.MetadataFullName: res.Name}
	}
	if err := s.dispatcher.SendMagicLink(ctx, res.Email, metadata); err != nil {
		slog.Error("login link dispatch failed", "email", res.Email, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	pkg.LoginLinksSent.Inc()
	return res, nil
}
