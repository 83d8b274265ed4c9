package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"Clubhouse_Hub/internal/middleware"
	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/pkg"
	"Clubhouse_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	FeedPath  = "/feed"
	LoginPath = "/login"
)

type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthHandler struct {
	sessions  *service.SessionService
	identity  *service.IdentityService
	provision *service.ProvisionService
	profiles  *service.ProfileService
	cookies   CookieConfig
}

func NewAuthHandler(
	sessions *service.SessionService,
	identity *service.IdentityService,
	provision *service.ProvisionService,
	profiles *service.ProfileService,
	cookies CookieConfig,
) *AuthHandler {
	return &AuthHandler{
		sessions:  sessions,
		identity:  identity,
		provision: provision,
		profiles:  profiles,
		cookies:   cookies,
	}
}

type emailReq struct {
	Email string `json:"email"`
}

// authError 登录相关接口使用 {error, message} 结构
func authError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
	case errors.Is(err, service.ErrMembershipRequired):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "No active membership found",
			"message": service.MembershipRequiredMessage,
		})
	case errors.Is(err, service.ErrDispatchFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrDispatchFailed.Error()})
	default:
		slog.Error("auth request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
	}
}

// VerifyMember 只校验会员资格
func (h *AuthHandler) VerifyMember(c *gin.Context) {
	var req emailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}
	res, err := h.sessions.VerifyMember(c.Request.Context(), req.Email)
	if err != nil {
		authError(c, err)
		return
	}
	body := gin.H{"verified": true, "membershipTier": res.MembershipTier}
	if res.Name != "" {
		body["name"] = res.Name
	}
	c.JSON(http.StatusOK, body)
}

// Login 校验通过后发送登录邮件
func (h *AuthHandler) Login(c *gin.Context) {
	var req emailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}
	res, err := h.sessions.SendLoginLink(c.Request.Context(), req.Email)
	if err != nil {
		authError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true, "membershipTier": res.MembershipTier})
}

// VerifyCode 邮件验证码换授权码，由前端跳转回调
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code" binding:"required,len=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	authCode, err := h.identity.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": "/auth/callback?code=" + url.QueryEscape(authCode)})
}

// Callback 兑换授权码或邮件链接，建档后跳转 feed；任何失败跳转登录页
func (h *AuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Query("code")
	tokenHash := c.Query("token_hash")
	loginType := c.Query("type")

	var (
		ident *model.Identity
		err   error
		fresh bool
	)
	switch {
	case code != "":
		ident, err = h.identity.ExchangeCode(ctx, code)
		fresh = true
	case tokenHash != "" && loginType != "":
		ident, err = h.identity.VerifyOtp(ctx, tokenHash, loginType)
		fresh = true
	default:
		ident, err = h.sessionIdentity(c)
	}
	if err != nil {
		slog.Warn("auth callback rejected", "error", err)
		c.Redirect(http.StatusFound, LoginPath)
		return
	}

	if fresh {
		pair, err := h.identity.IssueSession(ctx, *ident)
		if err != nil {
			slog.Error("issue session failed", "user_id", ident.ID, "error", err)
			c.Redirect(http.StatusFound, LoginPath)
			return
		}
		h.setSessionCookies(c, pair)
	}

	h.provision.EnsureProfile(ctx, *ident)
	// 拿不到 Profile 也保持登录
	_, _ = h.provision.LoadProfile(ctx, ident.ID)

	c.Redirect(http.StatusFound, FeedPath)
}

func (h *AuthHandler) sessionIdentity(c *gin.Context) (*model.Identity, error) {
	token := middleware.AccessToken(c)
	if token == "" {
		return nil, service.ErrUnauthorized
	}
	claims, err := h.identity.Authenticate(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	return h.identity.CurrentIdentity(c.Request.Context(), claims.UserID)
}

// Refresh 用 refresh token 换新的一对令牌
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(middleware.RefreshCookie)
	}
	if req.RefreshToken == "" {
		badRequest(c)
		return
	}

	pair, err := h.identity.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}
	h.setSessionCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.identity.Logout(c.Request.Context(), middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Me 当前身份与 Profile；Profile 可能尚未创建
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)
	ident, err := h.identity.CurrentIdentity(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}
	profile, err := h.profiles.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": ident, "profile": profile})
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, pair *pkg.Pair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, pair.AccessToken, int(h.cookies.AccessTTL.Seconds()), "/", "", h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshCookie, pair.RefreshToken, int(h.cookies.RefreshTTL.Seconds()), "/", "", h.cookies.Secure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshCookie, "", -1, "/", "", h.cookies.Secure, true)
}
