package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"Clubhouse_Hub/internal/handler"
	"Clubhouse_Hub/internal/middleware"
	"Clubhouse_Hub/internal/pkg"
	"Clubhouse_Hub/internal/repository"
	"Clubhouse_Hub/internal/repository/mock"
	"Clubhouse_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	linkRe = regexp.MustCompile(`/auth/callback\?token_hash=([0-9a-f]+)&amp;type=(\w+)`)
	codeRe = regexp.MustCompile(`<b[^>]*>(\d{6})</b>`)
)

type inbox struct {
	mu   sync.Mutex
	mail map[string]string
}

func (b *inbox) Send(_ context.Context, to, _, body string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mail[to] = body
	return nil
}

func (b *inbox) get(t *testing.T, to string) string {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	body, ok := b.mail[to]
	require.True(t, ok, "no mail for %s", to)
	return body
}

// shopifyStub 按邮箱返回顾客
func shopifyStub(t *testing.T) *pkg.ShopifyClient {
	t.Helper()
	customers := map[string]string{
		"email:nina@example.com":   `{"customers":[{"id":1,"email":"nina@example.com","first_name":"Nina","last_name":"Park","tags":"member"}]}`,
		"email:omar@example.com":   `{"customers":[{"id":2,"email":"omar@example.com","first_name":"Omar","orders_count":3}]}`,
		"email:lapsed@example.com": `{"customers":[{"id":3,"email":"lapsed@example.com","tags":"newsletter"}]}`,
		"email:maya@example.com":   `{"customers":[{"id":4,"email":"maya@example.com","first_name":"Maya","last_name":"Chen","tags":"member"}]}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := customers[r.URL.Query().Get("query")]
		if !ok {
			body = `{"customers":[]}`
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	c := pkg.NewShopifyClient(pkg.ShopifyConfig{StoreDomain: "clubhouse.myshopify.com", AccessToken: "shpat_test"})
	c.BaseURL = srv.URL
	return c
}

func newTestServer(t *testing.T) (*gin.Engine, *inbox) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := repository.NewFacade(repository.ModeMock, repository.Backends{
		Mock: func() (repository.Store, error) { return mock.New(mock.DefaultSeed(time.Now())), nil },
	})
	require.NoError(t, err)

	mail := &inbox{mail: map[string]string{}}
	authStore := mock.NewAuthStore()
	tokens := pkg.NewTokenIssuer("test-secret", "test-secret:refresh", 0, 0)
	identitySvc := service.NewIdentityService(authStore, authStore, authStore, store, mail, tokens, service.IdentityConfig{PublicURL: "http://hub.test"})
	sessionSvc := service.NewSessionService(service.NewMembershipService(shopifyStub(t)), identitySvc)
	provisionSvc := service.NewProvisionService(store, nil, service.ProvisionConfig{LookupDelay: time.Millisecond})
	profileSvc := service.NewProfileService(store)

	authHandler := handler.NewAuthHandler(sessionSvc, identitySvc, provisionSvc, profileSvc, handler.CookieConfig{
		AccessTTL:  tokens.AccessTTL,
		RefreshTTL: tokens.RefreshTTL,
	})
	r := InitRouter(Deps{
		Auth:          authHandler,
		Community:     handler.NewCommunityHandler(service.NewCommunityService(store)),
		Post:          handler.NewPostHandler(service.NewPostService(store)),
		Conversation:  handler.NewConversationHandler(service.NewMessageService(store, nil)),
		Profile:       handler.NewProfileHandler(profileSvc, identitySvc, authHandler),
		Authenticator: identitySvc,
		DemoMode:      true,
	})
	return r, mail
}

type client struct {
	t       *testing.T
	r       *gin.Engine
	cookies []*http.Cookie
	bearer  string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, ck := range cookies {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func TestVerifyMember(t *testing.T) {
	r, _ := newTestServer(t)
	c := &client{t: t, r: r}

	w := c.do(http.MethodPost, "/api/auth/verify-member", map[string]string{"email": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email is required", decode(t, w)["error"])

	w = c.do(http.MethodPost, "/api/auth/verify-member", map[string]string{"email": "lapsed@example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, "No active membership found", body["error"])
	assert.Equal(t, service.MembershipRequiredMessage, body["message"])

	w = c.do(http.MethodPost, "/api/auth/verify-member", map[string]string{"email": "Nina@Example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, true, body["verified"])
	assert.Equal(t, "member", body["membershipTier"])
	assert.Equal(t, "Nina Park", body["name"])

	w = c.do(http.MethodPost, "/api/auth/verify-member", map[string]string{"email": "omar@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.DefaultTier, decode(t, w)["membershipTier"])
}

func TestLogin_NonMemberGetsNoMail(t *testing.T) {
	r, mail := newTestServer(t)
	c := &client{t: t, r: r}

	w := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "stranger@example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, mail.mail)
}

func TestMagicLinkLoginProvisionsAndBrowses(t *testing.T) {
	r, mail := newTestServer(t)
	c := &client{t: t, r: r}

	w := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "nina@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["sent"])

	m := linkRe.FindStringSubmatch(mail.get(t, "nina@example.com"))
	require.Len(t, m, 3)

	w = c.do(http.MethodGet, "/auth/callback?token_hash="+m[1]+"&type="+m[2], nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, handler.FeedPath, w.Header().Get("Location"))
	require.NotEmpty(t, cookieValue(c.cookies, middleware.AccessCookie))
	require.NotEmpty(t, cookieValue(c.cookies, middleware.RefreshCookie))

	// 链接已被使用
	again := &client{t: t, r: r}
	w = again.do(http.MethodGet, "/auth/callback?token_hash="+m[1]+"&type="+m[2], nil)
	assert.Equal(t, handler.LoginPath, w.Header().Get("Location"))

	w = c.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)
	profile := me["profile"].(map[string]any)
	assert.Equal(t, "Nina Park", profile["full_name"])
	assert.Equal(t, "Member", profile["role_label"])

	w = c.do(http.MethodGet, "/api/me/locations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	locs := decode(t, w)["locations"].([]any)
	require.Len(t, locs, 2)
	assert.Equal(t, true, locs[0].(map[string]any)["is_primary"])
	assert.Equal(t, false, locs[1].(map[string]any)["is_primary"])

	// 已登录再次访问回调只做建档检查
	w = c.do(http.MethodGet, "/auth/callback", nil)
	assert.Equal(t, handler.FeedPath, w.Header().Get("Location"))

	w = c.do(http.MethodGet, "/api/locations/"+mock.LocDarlingHill+"/feed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decode(t, w)["posts"].([]any)
	require.NotEmpty(t, posts)
	assert.Equal(t, true, posts[0].(map[string]any)["is_pinned"])

	rides := mock.ChannelID(mock.LocDarlingHill, "rides")
	w = c.do(http.MethodPost, "/api/posts", map[string]any{"channel_id": rides, "body": "pin me", "is_pinned": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = c.do(http.MethodPost, "/api/posts", map[string]any{"channel_id": rides, "body": "First ride!"})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := decode(t, w)["post"].(map[string]any)["id"].(string)

	w = c.do(http.MethodPost, "/api/posts/"+postID+"/comments", map[string]any{"body": "see you there"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = c.do(http.MethodGet, "/api/posts/"+postID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["post"].(map[string]any)["comment_count"])

	w = c.do(http.MethodPost, "/api/conversations", map[string]any{"user_id": mock.UserStaff})
	require.Equal(t, http.StatusOK, w.Code)
	convID := decode(t, w)["conversation"].(map[string]any)["id"].(string)

	w = c.do(http.MethodPost, "/api/conversations/"+convID+"/messages", map[string]any{"body": "Hi coach"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = c.do(http.MethodGet, "/api/conversations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	convs := decode(t, w)["conversations"].([]any)
	require.Len(t, convs, 1)
	assert.Equal(t, "Hi coach", convs[0].(map[string]any)["last_message"].(map[string]any)["body"])

	w = c.do(http.MethodGet, "/api/conversations/conv-maya-sam/messages", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = c.do(http.MethodPatch, "/api/me", map[string]any{"bio": "hello"})
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = c.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = c.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCodeLogin(t *testing.T) {
	r, mail := newTestServer(t)
	c := &client{t: t, r: r}

	w := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "omar@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	code := codeRe.FindStringSubmatch(mail.get(t, "omar@example.com"))
	require.Len(t, code, 2)

	w = c.do(http.MethodPost, "/api/auth/verify-code", map[string]string{"email": "omar@example.com", "code": "12345"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/auth/verify-code", map[string]string{"email": "omar@example.com", "code": code[1]})
	require.Equal(t, http.StatusOK, w.Code)
	redirect := decode(t, w)["redirect"].(string)
	require.True(t, strings.HasPrefix(redirect, "/auth/callback?code="))

	w = c.do(http.MethodGet, redirect, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, handler.FeedPath, w.Header().Get("Location"))

	w = c.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Omar", decode(t, w)["profile"].(map[string]any)["full_name"])

	// refresh 从 cookie 读取
	old := cookieValue(c.cookies, middleware.AccessCookie)
	w = c.do(http.MethodPost, "/api/auth/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, old, cookieValue(c.cookies, middleware.AccessCookie))
}

func TestLoginWithSeededEmailKeepsProfile(t *testing.T) {
	r, mail := newTestServer(t)
	c := &client{t: t, r: r}

	w := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "maya@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	m := linkRe.FindStringSubmatch(mail.get(t, "maya@example.com"))
	require.Len(t, m, 3)

	w = c.do(http.MethodGet, "/auth/callback?token_hash="+m[1]+"&type="+m[2], nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, handler.FeedPath, w.Header().Get("Location"))

	w = c.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)["profile"].(map[string]any)
	assert.Equal(t, mock.UserMaya, profile["id"])
	assert.Equal(t, "Maya Chen", profile["full_name"])

	w = c.do(http.MethodPost, "/api/posts", map[string]any{"channel_id": mock.ChannelID(mock.LocDarlingHill, "rides"), "body": "Back again"})
	assert.Equal(t, http.StatusCreated, w.Code)

	// 退出后旧 refresh cookie 不能再换新会话
	stale := append([]*http.Cookie(nil), c.cookies...)
	w = c.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	replay := &client{t: t, r: r, cookies: stale}
	w = replay.do(http.MethodPost, "/api/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r, _ := newTestServer(t)
	c := &client{t: t, r: r}

	for _, path := range []string{"/api/locations", "/api/me", "/api/profiles", "/api/conversations"} {
		w := c.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	c.bearer = "not-a-token"
	w := c.do(http.MethodGet, "/api/locations", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodGet, "/auth/callback?code=bogus", nil)
	assert.Equal(t, handler.LoginPath, w.Header().Get("Location"))

	w = c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDemoSwitchUser(t *testing.T) {
	r, _ := newTestServer(t)
	c := &client{t: t, r: r}

	w := c.do(http.MethodPost, "/api/demo/switch", map[string]string{"user_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodPost, "/api/demo/switch", map[string]string{"user_id": mock.UserMaya})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["access_token"].(string)

	bearer := &client{t: t, r: r, bearer: token}
	w = bearer.do(http.MethodGet, "/api/conversations/conv-maya-sam/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["messages"].([]any), 2)

	w = bearer.do(http.MethodGet, "/api/locations/"+mock.LocDarlingHill+"/channels", nil)
	require.Equal(t, http.StatusOK, w.Code)
	channels := decode(t, w)["channels"].([]any)
	require.Len(t, channels, 6)
	assert.Equal(t, "Announcements", channels[0].(map[string]any)["label"])

	w = bearer.do(http.MethodGet, "/api/locations/"+mock.LocLitchfieldHills+"/members", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["members"].([]any), 3)
}

func TestDemoSwitchDisabledOutsideDemo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := InitRouter(Deps{
		Auth:         &handler.AuthHandler{},
		Community:    &handler.CommunityHandler{},
		Post:         &handler.PostHandler{},
		Conversation: &handler.ConversationHandler{},
		Profile:      &handler.ProfileHandler{},
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/demo/switch", strings.NewReader(`{"user_id":"x"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
