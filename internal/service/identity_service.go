package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"time"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/pkg"
	"Clubhouse_Hub/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultLoginTTL    = 15 * time.Minute
	DefaultAuthCodeTTL = 2 * time.Minute
	otpDigits          = 6
	linkTokenBytes     = 32
	authCodeBytes      = 24
)

// DefaultMaxCodeAttempts 验证码连续输错这么多次后作废整个登录请求
const DefaultMaxCodeAttempts = 5

type IdentityConfig struct {
	// PublicURL 邮件链接的站点根地址
	PublicURL       string
	LoginTTL        time.Duration
	AuthCodeTTL     time.Duration
	MaxCodeAttempts int64
}

// ProfileDirectory 首次登录时按邮箱找回已有 Profile，身份沿用它的 id
type ProfileDirectory interface {
	GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error)
}

// IdentityService 内置的免密身份提供方：发送登录邮件、兑换链接/验证码、签发会话
type IdentityService struct {
	logins     repository.LoginStore
	identities repository.IdentityStore
	sessions   repository.SessionStore
	profiles   ProfileDirectory
	mailer     pkg.Mailer
	tokens     *pkg.TokenIssuer
	cfg        IdentityConfig
}

func NewIdentityService(
	logins repository.LoginStore,
	identities repository.IdentityStore,
	sessions repository.SessionStore,
	profiles ProfileDirectory,
	mailer pkg.Mailer,
	tokens *pkg.TokenIssuer,
	cfg IdentityConfig,
) *IdentityService {
	if cfg.LoginTTL <= 0 {
		cfg.LoginTTL = DefaultLoginTTL
	}
	if cfg.AuthCodeTTL <= 0 {
		cfg.AuthCodeTTL = DefaultAuthCodeTTL
	}
	if cfg.MaxCodeAttempts <= 0 {
		cfg.MaxCodeAttempts = DefaultMaxCodeAttempts
	}
	return &IdentityService{
		logins:     logins,
		identities: identities,
		sessions:   sessions,
		profiles:   profiles,
		mailer:     mailer,
		tokens:     tokens,
		cfg:        cfg,
	}
}

// SendMagicLink 先写 pending，邮件发出后转为 confirmed；任一步失败都清理 pending
func (s *IdentityService) SendMagicLink(ctx context.Context, email string, metadata map[string]string) error {
	linkToken, err := pkg.RandToken(linkTokenBytes)
	if err != nil {
		return err
	}
	code, err := pkg.RandDigits(otpDigits)
	if err != nil {
		return err
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	req := model.LoginRequest{
		TokenHash: pkg.HashToken(linkToken),
		Email:     email,
		CodeHash:  string(codeHash),
		Metadata:  maps.Clone(metadata),
	}
	if err := s.logins.SavePendingLogin(ctx, req, s.cfg.LoginTTL); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/callback?token_hash=%s&type=%s",
		s.cfg.PublicURL, url.QueryEscape(linkToken), model.LoginTypeMagicLink)
	body := pkg.LoginLinkHTML(metadata[model.MetadataFullName], link, code, s.cfg.LoginTTL)
	if err := s.mailer.Send(ctx, email, "Your Clubhouse sign-in link", body); err != nil {
		_ = s.logins.DeletePendingLogin(ctx, req.TokenHash)
		return err
	}

	if err := s.logins.ConfirmLogin(ctx, req.TokenHash, email, s.cfg.LoginTTL); err != nil {
		_ = s.logins.DeletePendingLogin(ctx, req.TokenHash)
		return err
	}
	return nil
}

// VerifyOtp 兑换邮件链接里的 token_hash
func (s *IdentityService) VerifyOtp(ctx context.Context, tokenHash, loginType string) (*model.Identity, error) {
	if tokenHash == "" || (loginType != model.LoginTypeMagicLink && loginType != model.LoginTypeEmail) {
		return nil, ErrInvalidLogin
	}
	req, err := s.logins.ConsumeLogin(ctx, pkg.HashToken(tokenHash))
	if errors.Is(err, repository.ErrTokenNotFound) {
		return nil, ErrInvalidLogin
	}
	if err != nil {
		return nil, err
	}
	return s.resolveIdentity(ctx, req)
}

// VerifyCode checks the emailed one-time code and returns a short-lived
// authorization code for the callback exchange.
func (s *IdentityService) VerifyCode(ctx context.Context, email, code string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || code == "" {
		return "", invalid("email and code are required")
	}
	req, err := s.logins.FindLoginByEmail(ctx, email)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return "", ErrInvalidLogin
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(req.CodeHash), []byte(code)) != nil {
		if err := s.recordFailedCode(ctx, req); err != nil {
			return "", err
		}
		return "", ErrInvalidLogin
	}

	req, err = s.logins.ConsumeLogin(ctx, req.TokenHash)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return "", ErrInvalidLogin
	}
	if err != nil {
		return "", err
	}
	ident, err := s.resolveIdentity(ctx, req)
	if err != nil {
		return "", err
	}

	authCode, err := pkg.RandToken(authCodeBytes)
	if err != nil {
		return "", err
	}
	if err := s.logins.SaveAuthCode(ctx, authCode, ident.ID, s.cfg.AuthCodeTTL); err != nil {
		return "", err
	}
	return authCode, nil
}

// recordFailedCode 输错达到上限后作废登录请求，链接与验证码一并失效
func (s *IdentityService) recordFailedCode(ctx context.Context, req *model.LoginRequest) error {
	n, err := s.logins.RecordFailedCode(ctx, req.TokenHash, s.cfg.LoginTTL)
	if err != nil {
		return err
	}
	if n < s.cfg.MaxCodeAttempts {
		return nil
	}
	_, err = s.logins.ConsumeLogin(ctx, req.TokenHash)
	if err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
		return err
	}
	slog.Warn("login revoked after repeated wrong codes", "email", req.Email, "attempts", n)
	return nil
}

// ExchangeCode 授权码只能使用一次
func (s *IdentityService) ExchangeCode(ctx context.Context, code string) (*model.Identity, error) {
	if code == "" {
		return nil, ErrInvalidLogin
	}
	id, err := s.logins.ConsumeAuthCode(ctx, code)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return nil, ErrInvalidLogin
	}
	if err != nil {
		return nil, err
	}
	ident, err := s.identities.FindIdentity(ctx, id)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		return nil, ErrInvalidLogin
	}
	return ident, nil
}

// resolveIdentity 同一邮箱只对应一个身份，并发创建时回读
func (s *IdentityService) resolveIdentity(ctx context.Context, req *model.LoginRequest) (*model.Identity, error) {
	ident, err := s.identities.FindIdentityByEmail(ctx, req.Email)
	if err != nil || ident != nil {
		return ident, err
	}
	id, err := s.identityIDFor(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	created := model.Identity{ID: id, Email: req.Email, Metadata: req.Metadata}
	err = s.identities.CreateIdentity(ctx, created)
	if errors.Is(err, repository.ErrIdentityExists) {
		ident, err = s.identities.FindIdentityByEmail(ctx, req.Email)
		if err == nil && ident == nil {
			err = ErrInvalidLogin
		}
		return ident, err
	}
	if err != nil {
		return nil, err
	}
	slog.Info("identity created", "user_id", created.ID, "email", created.Email)
	return &created, nil
}

// identityIDFor 邮箱已有 Profile 时沿用其 id，否则分配新 id
func (s *IdentityService) identityIDFor(ctx context.Context, email string) (string, error) {
	if s.profiles == nil {
		return uuid.NewString(), nil
	}
	p, err := s.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if p != nil {
		return p.ID, nil
	}
	return uuid.NewString(), nil
}

// SignInAs 直接为给定身份签发会话，不存在则先登记（演示切换用户）
func (s *IdentityService) SignInAs(ctx context.Context, ident model.Identity) (*pkg.Pair, error) {
	existing, err := s.identities.FindIdentity(ctx, ident.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := s.identities.CreateIdentity(ctx, ident); err != nil && !errors.Is(err, repository.ErrIdentityExists) {
			return nil, err
		}
	}
	return s.IssueSession(ctx, ident)
}

// IssueSession 新会话会顶掉该用户之前的 access token
func (s *IdentityService) IssueSession(ctx context.Context, ident model.Identity) (*pkg.Pair, error) {
	pair, err := s.tokens.GeneratePair(ident.ID, ident.Email)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.AddSession(ctx, ident.ID, pair.AccessToken, s.tokens.AccessTTL); err != nil {
		return nil, err
	}
	if err := s.sessions.AddRefresh(ctx, ident.ID, pair.RefreshID, s.tokens.RefreshTTL); err != nil {
		return nil, err
	}
	return pair, nil
}

// Authenticate 校验 access token 且必须是该用户当前有效的那一个
func (s *IdentityService) Authenticate(ctx context.Context, accessToken string) (*pkg.Claims, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	current, err := s.sessions.GetSession(ctx, claims.UserID)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return nil, fmt.Errorf("%w: session expired", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if current != accessToken {
		return nil, fmt.Errorf("%w: signed in elsewhere", ErrUnauthorized)
	}
	if err := s.sessions.ExtendSession(ctx, claims.UserID, s.tokens.AccessTTL); err != nil {
		return nil, err
	}
	return claims, nil
}

// Refresh 只接受该用户最近一次签发的 refresh token，用过即轮换
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	current, err := s.sessions.GetRefresh(ctx, claims.UserID)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return nil, fmt.Errorf("%w: session revoked", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if current != claims.ID {
		return nil, fmt.Errorf("%w: refresh token superseded", ErrUnauthorized)
	}
	ident, err := s.identities.FindIdentity(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		return nil, ErrUnauthorized
	}
	return s.IssueSession(ctx, *ident)
}

// Logout 同时吊销 access 与 refresh
func (s *IdentityService) Logout(ctx context.Context, userID string) error {
	return s.sessions.DeleteSession(ctx, userID)
}

// CurrentIdentity returns the identity behind a session, or ErrUnauthorized.
func (s *IdentityService) CurrentIdentity(ctx context.Context, userID string) (*model.Identity, error) {
	ident, err := s.identities.FindIdentity(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		return nil, ErrUnauthorized
	}
	return ident, nil
}
