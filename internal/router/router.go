package router

import (
	"net/http"

	"Clubhouse_Hub/internal/handler"
	"Clubhouse_Hub/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps 路由需要的全部 handler 与鉴权器
type Deps struct {
	Auth          *handler.AuthHandler
	Community     *handler.CommunityHandler
	Post          *handler.PostHandler
	Conversation  *handler.ConversationHandler
	Profile       *handler.ProfileHandler
	Authenticator middleware.Authenticator
	// DemoMode 为 true 时开放切换用户接口
	DemoMode bool
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"msg": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 登录回调
	r.GET("/auth/callback", d.Auth.Callback)

	authPublic := r.Group("/api/auth")
	{
		authPublic.POST("/verify-member", d.Auth.VerifyMember)
		authPublic.POST("/login", d.Auth.Login)
		authPublic.POST("/verify-code", d.Auth.VerifyCode)
		authPublic.POST("/refresh", d.Auth.Refresh)
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(d.Authenticator))
	{
		api.POST("/auth/logout", d.Auth.Logout)
		api.GET("/me", d.Auth.Me)
		api.PATCH("/me", d.Profile.UpdateMe)
		api.GET("/me/locations", d.Community.MyLocations)

		api.GET("/locations", d.Community.ListLocations)
		api.GET("/locations/:id", d.Community.GetLocation)
		api.GET("/locations/:id/channels", d.Community.ListChannels)
		api.GET("/locations/:id/members", d.Community.ListMembers)
		api.GET("/locations/:id/feed", d.Community.Feed)

		api.GET("/channels/:id", d.Community.GetChannel)
		api.GET("/channels/:id/posts", d.Community.ChannelPosts)

		api.POST("/posts", d.Post.CreatePost)
		api.GET("/posts/:id", d.Post.GetPost)
		api.GET("/posts/:id/comments", d.Post.ListComments)
		api.POST("/posts/:id/comments", d.Post.AddComment)

		api.GET("/profiles", d.Profile.List)
		api.GET("/profiles/:id", d.Profile.Get)

		api.GET("/conversations", d.Conversation.List)
		api.POST("/conversations", d.Conversation.Start)
		api.GET("/conversations/:id/messages", d.Conversation.Messages)
		api.POST("/conversations/:id/messages", d.Conversation.Send)
	}

	if d.DemoMode {
		r.POST("/api/demo/switch", d.Profile.SwitchUser)
	}

	return r
}
