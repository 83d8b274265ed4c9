// Package mock is the seeded in-memory backend used in demo mode.
// Relationships are joined by hand; identifiers are synthetic.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository"

	"github.com/google/uuid"
)

type Option func(*Store)

// WithClock overrides the time source used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store 内存后端。锁只保证单次调用的一致性，多步操作之间不是原子的
type Store struct {
	mu sync.RWMutex

	locations       []model.Location
	profiles        []model.Profile
	memberLocations []model.MemberLocation
	channels        []model.Channel
	posts           []model.Post
	comments        []model.Comment
	conversations   []model.Conversation
	messages        []model.DirectMessage

	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

// New copies the seed so the store never mutates the caller's slices.
func New(seed Seed, opts ...Option) *Store {
	s := &Store{
		locations:       append([]model.Location(nil), seed.Locations...),
		profiles:        append([]model.Profile(nil), seed.Profiles...),
		memberLocations: append([]model.MemberLocation(nil), seed.MemberLocations...),
		channels:        append([]model.Channel(nil), seed.Channels...),
		posts:           append([]model.Post(nil), seed.Posts...),
		comments:        append([]model.Comment(nil), seed.Comments...),
		conversations:   append([]model.Conversation(nil), seed.Conversations...),
		messages:        append([]model.DirectMessage(nil), seed.Messages...),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

/*
场馆
*/

func (s *Store) GetLocations(_ context.Context) ([]model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Location{}, s.locations...), nil
}

func (s *Store) GetLocation(_ context.Context, id string) (*model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.locations {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, nil
}

func (s *Store) GetLocationsByUser(_ context.Context, userID string) ([]repository.LocationMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []repository.LocationMembership{}
	for _, ml := range s.memberLocations {
		if ml.ProfileID == userID {
			out = append(out, repository.LocationMembership{LocationID: ml.LocationID, IsPrimary: ml.IsPrimary})
		}
	}
	return out, nil
}

// AddMemberLocations 已存在的 (profile, location) 直接跳过
func (s *Store) AddMemberLocations(_ context.Context, rows []model.MemberLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows = append([]model.MemberLocation(nil), rows...)
	hasPrimary := false
	for _, ml := range s.memberLocations {
		if len(rows) > 0 && ml.ProfileID == rows[0].ProfileID && ml.IsPrimary {
			hasPrimary = true
		}
	}
	repository.PrimaryOnce(rows, hasPrimary)

	now := s.now()
	for _, row := range rows {
		if s.hasMembership(row.ProfileID, row.LocationID) {
			continue
		}
		row.ID = newID("ml")
		row.CreatedAt = now
		s.memberLocations = append(s.memberLocations, row)
	}
	return nil
}

func (s *Store) hasMembership(profileID, locationID string) bool {
	for _, ml := range s.memberLocations {
		if ml.ProfileID == profileID && ml.LocationID == locationID {
			return true
		}
	}
	return false
}

/*
成员
*/

func (s *Store) GetProfiles(_ context.Context) ([]model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Profile{}, s.profiles...), nil
}

func (s *Store) GetProfile(_ context.Context, id string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profileByID(id), nil
}

func (s *Store) GetProfileByEmail(_ context.Context, email string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Store) profileByID(id string) *model.Profile {
	for _, p := range s.profiles {
		if p.ID == id {
			return &p
		}
	}
	return nil
}

func (s *Store) GetProfilesByLocation(_ context.Context, locationID string) ([]model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	memberIDs := make(map[string]bool)
	for _, ml := range s.memberLocations {
		if ml.LocationID == locationID {
			memberIDs[ml.ProfileID] = true
		}
	}
	out := []model.Profile{}
	for _, p := range s.profiles {
		if memberIDs[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// CreateProfile id 或 email 重复时返回 ErrDuplicate
func (s *Store) CreateProfile(_ context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.ID == profile.ID || p.Email == profile.Email {
			return repository.ErrDuplicate
		}
	}
	now := s.now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if profile.Role == "" {
		profile.Role = model.RoleMember
	}
	s.profiles = append(s.profiles, *profile)
	return nil
}

// UpdateProfile 演示模式不支持编辑资料
func (s *Store) UpdateProfile(context.Context, string, repository.ProfileUpdate) (*model.Profile, error) {
	return nil, repository.ErrNotSupported
}

/*
频道
*/

func (s *Store) GetChannelsByLocation(_ context.Context, locationID string) ([]model.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Channel{}
	for _, c := range s.channels {
		if c.LocationID == locationID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (s *Store) GetChannel(_ context.Context, id string) (*model.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channelByID(id), nil
}

func (s *Store) channelByID(id string) *model.Channel {
	for _, c := range s.channels {
		if c.ID == id {
			return &c
		}
	}
	return nil
}

/*
帖子与评论
*/

func (s *Store) enrichPost(p model.Post) model.Post {
	p.Author = s.profileByID(p.AuthorID)
	p.Channel = s.channelByID(p.ChannelID)
	var n int64
	for _, c := range s.comments {
		if c.PostID == p.ID {
			n++
		}
	}
	p.CommentCount = n
	return p
}

// sortFeed 置顶优先，其次按创建时间倒序
func sortFeed(posts []model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].IsPinned != posts[j].IsPinned {
			return posts[i].IsPinned
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func (s *Store) GetPostsByChannel(_ context.Context, channelID string) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Post{}
	for _, p := range s.posts {
		if p.ChannelID == channelID {
			out = append(out, s.enrichPost(p))
		}
	}
	sortFeed(out)
	return out, nil
}

func (s *Store) GetPost(_ context.Context, id string) (*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			enriched := s.enrichPost(p)
			return &enriched, nil
		}
	}
	return nil, nil
}

func (s *Store) GetPostsByLocation(_ context.Context, locationID string) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channelIDs := make(map[string]bool)
	for _, c := range s.channels {
		if c.LocationID == locationID {
			channelIDs[c.ID] = true
		}
	}
	out := []model.Post{}
	for _, p := range s.posts {
		if channelIDs[p.ChannelID] {
			out = append(out, s.enrichPost(p))
		}
	}
	sortFeed(out)
	return out, nil
}

func (s *Store) AddPost(_ context.Context, post *model.Post) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *post
	p.StripJoined()
	now := s.now()
	p.ID = newID("post")
	p.CreatedAt = now
	p.UpdatedAt = now
	s.posts = append([]model.Post{p}, s.posts...)
	return &p, nil
}

func (s *Store) GetCommentsByPost(_ context.Context, postID string) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Comment{}
	for _, c := range s.comments {
		if c.PostID == postID {
			c.Author = s.profileByID(c.AuthorID)
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) AddComment(_ context.Context, comment *model.Comment) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *comment
	c.StripJoined()
	now := s.now()
	c.ID = newID("cmt")
	c.CreatedAt = now
	c.UpdatedAt = now
	s.comments = append(s.comments, c)
	return &c, nil
}

/*
私信
*/

func (s *Store) GetConversationsForUser(_ context.Context, userID string) ([]model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Conversation{}
	for _, conv := range s.conversations {
		if !conv.HasParticipant(userID) {
			continue
		}
		conv.OtherParticipant = s.profileByID(conv.OtherOf(userID))
		conv.LastMessage = s.lastMessage(conv.ID)
		out = append(out, conv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *Store) lastMessage(conversationID string) *model.DirectMessage {
	var last *model.DirectMessage
	for i := range s.messages {
		m := s.messages[i]
		if m.ConversationID != conversationID {
			continue
		}
		if last == nil || m.CreatedAt.After(last.CreatedAt) {
			last = &m
		}
	}
	return last
}

func (s *Store) GetConversation(_ context.Context, id string) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.conversations {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) GetMessagesByConversation(_ context.Context, conversationID string) ([]model.DirectMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.DirectMessage{}
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			m.Sender = s.profileByID(m.SenderID)
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// AddMessage 写入消息后刷新会话的 updated_at
func (s *Store) AddMessage(_ context.Context, msg *model.DirectMessage) (*model.DirectMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := *msg
	m.StripJoined()
	m.ID = newID("dm")
	m.CreatedAt = s.now()
	s.messages = append(s.messages, m)

	touched := s.now()
	for i := range s.conversations {
		if s.conversations[i].ID == m.ConversationID {
			s.conversations[i].UpdatedAt = touched
		}
	}
	return &m, nil
}

func (s *Store) GetOrCreateConversation(_ context.Context, userA, userB string) (*model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p1, p2 := model.CanonicalPair(userA, userB)
	for _, c := range s.conversations {
		if c.ParticipantOne == p1 && c.ParticipantTwo == p2 {
			return &c, nil
		}
	}
	now := s.now()
	conv := model.Conversation{
		ID:             newID("conv"),
		ParticipantOne: p1,
		ParticipantTwo: p2,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.conversations = append(s.conversations, conv)
	return &conv, nil
}
