package handler

import (
	"net/http"

	"Clubhouse_Hub/internal/middleware"
	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository"
	"Clubhouse_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc      *service.ProfileService
	identity *service.IdentityService
	auth     *AuthHandler
}

func NewProfileHandler(svc *service.ProfileService, identity *service.IdentityService, auth *AuthHandler) *ProfileHandler {
	return &ProfileHandler{svc: svc, identity: identity, auth: auth}
}

func (h *ProfileHandler) List(c *gin.Context) {
	list, err := h.svc.ListProfiles(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": list})
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.svc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

type UpdateMeReq struct {
	FullName    *string `json:"full_name"`
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	p, err := h.svc.UpdateMe(c.Request.Context(), middleware.UserID(c), repository.ProfileUpdate{
		FullName:    req.FullName,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// SwitchUser 演示模式下直接登录为某个种子用户
func (h *ProfileHandler) SwitchUser(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	ctx := c.Request.Context()
	p, err := h.svc.GetProfile(ctx, req.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	pair, err := h.identity.SignInAs(ctx, model.Identity{
		ID:       p.ID,
		Email:    p.Email,
		Metadata: map[string]string{model.MetadataFullName: p.FullName},
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.auth.setSessionCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"profile": p, "access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}
