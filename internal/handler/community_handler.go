package handler

import (
	"net/http"

	"Clubhouse_Hub/internal/middleware"
	"Clubhouse_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

func (h *CommunityHandler) ListLocations(c *gin.Context) {
	list, err := h.svc.ListLocations(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": list})
}

func (h *CommunityHandler) GetLocation(c *gin.Context) {
	loc, err := h.svc.GetLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

func (h *CommunityHandler) MyLocations(c *gin.Context) {
	list, err := h.svc.MyLocations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": list})
}

func (h *CommunityHandler) ListChannels(c *gin.Context) {
	list, err := h.svc.ListChannels(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": list})
}

func (h *CommunityHandler) ListMembers(c *gin.Context) {
	list, err := h.svc.ListMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": list})
}

// Feed 场馆动态
func (h *CommunityHandler) Feed(c *gin.Context) {
	list, err := h.svc.LocationFeed(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": list})
}

func (h *CommunityHandler) GetChannel(c *gin.Context) {
	ch, err := h.svc.GetChannel(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": ch})
}

func (h *CommunityHandler) ChannelPosts(c *gin.Context) {
	list, err := h.svc.ChannelPosts(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": list})
}
