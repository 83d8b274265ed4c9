// Package mysql is the relational backend: gorm over MySQL with foreign-key joins.
// Multi-statement sequences are not wrapped in transactions.
package mysql

import (
	"time"

	"Clubhouse_Hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clock func() time.Time

// now 截断到毫秒，与 datetime(3) 精度一致
func (c clock) now() time.Time {
	return c().UTC().Truncate(time.Millisecond)
}

func newID() string {
	return uuid.NewString()
}

type Option func(*Store)

// WithClock overrides the time source used for assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.setClock(now) }
}

// Store 组合各实体仓储，实现 repository.Store
type Store struct {
	*LocationRepository
	*MemberLocationRepository
	*ProfileRepository
	*ChannelRepository
	*PostRepository
	*CommentRepository
	*ConversationRepository
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		LocationRepository:       &LocationRepository{DB: db},
		MemberLocationRepository: &MemberLocationRepository{DB: db},
		ProfileRepository:        &ProfileRepository{DB: db},
		ChannelRepository:        &ChannelRepository{DB: db},
		PostRepository:           &PostRepository{DB: db},
		CommentRepository:        &CommentRepository{DB: db},
		ConversationRepository:   &ConversationRepository{DB: db},
	}
	s.setClock(time.Now)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) setClock(now func() time.Time) {
	c := clock(now)
	s.MemberLocationRepository.clock = c
	s.ProfileRepository.clock = c
	s.PostRepository.clock = c
	s.CommentRepository.clock = c
	s.ConversationRepository.clock = c
}
