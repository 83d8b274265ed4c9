package handler

import (
	"net/http"

	"Clubhouse_Hub/internal/middleware"
	"Clubhouse_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

type CreatePostReq struct {
	ChannelID  string `json:"channel_id" binding:"required"`
	Title      string `json:"title"`
	Body       string `json:"body" binding:"required"`
	ImageURL   string `json:"image_url"`
	BookingURL string `json:"booking_url"`
	IsPinned   bool   `json:"is_pinned"`
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	post, err := h.svc.CreatePost(c.Request.Context(), middleware.UserID(c), service.CreatePostInput{
		ChannelID:  req.ChannelID,
		Title:      req.Title,
		Body:       req.Body,
		ImageURL:   req.ImageURL,
		BookingURL: req.BookingURL,
		IsPinned:   req.IsPinned,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.svc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) ListComments(c *gin.Context) {
	list, err := h.svc.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": list})
}

func (h *PostHandler) AddComment(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	comment, err := h.svc.AddComment(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Body)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
