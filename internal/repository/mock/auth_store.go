package mock

import (
	"context"
	"sync"
	"time"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository"
)

type expiring[T any] struct {
	val       T
	expiresAt time.Time
}

// AuthStore 演示模式下替代 redis 的令牌/身份/会话存储
type AuthStore struct {
	mu sync.Mutex

	pending    map[string]expiring[model.LoginRequest]
	confirmed  map[string]expiring[model.LoginRequest]
	byEmail    map[string]expiring[string]
	authCodes  map[string]expiring[string]
	attempts   map[string]expiring[int64]
	sessions   map[string]expiring[string]
	refreshes  map[string]expiring[string]
	identities map[string]model.Identity
	emails     map[string]string

	now func() time.Time
}

var (
	_ repository.LoginStore    = (*AuthStore)(nil)
	_ repository.IdentityStore = (*AuthStore)(nil)
	_ repository.SessionStore  = (*AuthStore)(nil)
)

func NewAuthStore() *AuthStore {
	return &AuthStore{
		pending:    make(map[string]expiring[model.LoginRequest]),
		confirmed:  make(map[string]expiring[model.LoginRequest]),
		byEmail:    make(map[string]expiring[string]),
		authCodes:  make(map[string]expiring[string]),
		attempts:   make(map[string]expiring[int64]),
		sessions:   make(map[string]expiring[string]),
		refreshes:  make(map[string]expiring[string]),
		identities: make(map[string]model.Identity),
		emails:     make(map[string]string),
		now:        time.Now,
	}
}

func (a *AuthStore) live(expiresAt time.Time) bool {
	return a.now().Before(expiresAt)
}

func (a *AuthStore) SavePendingLogin(_ context.Context, req model.LoginRequest, ttl time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending[req.TokenHash] = expiring[model.LoginRequest]{val: req, expiresAt: a.now().Add(ttl)}
	return nil
}

func (a *AuthStore) ConfirmLogin(_ context.Context, tokenHash, email string, ttl time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.pending[tokenHash]
	if !ok || !a.live(p.expiresAt) {
		return repository.ErrTokenNotFound
	}
	delete(a.pending, tokenHash)
	exp := a.now().Add(ttl)
	a.confirmed[tokenHash] = expiring[model.LoginRequest]{val: p.val, expiresAt: exp}
	a.byEmail[email] = expiring[string]{val: tokenHash, expiresAt: exp}
	return nil
}

func (a *AuthStore) DeletePendingLogin(_ context.Context, tokenHash string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.pending, tokenHash)
	return nil
}

func (a *AuthStore) ConsumeLogin(_ context.Context, tokenHash string) (*model.LoginRequest, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.confirmed[tokenHash]
	delete(a.confirmed, tokenHash)
	delete(a.attempts, tokenHash)
	if !ok || !a.live(c.expiresAt) {
		return nil, repository.ErrTokenNotFound
	}
	if e, ok := a.byEmail[c.val.Email]; ok && e.val == tokenHash {
		delete(a.byEmail, c.val.Email)
	}
	req := c.val
	return &req, nil
}

func (a *AuthStore) FindLoginByEmail(_ context.Context, email string) (*model.LoginRequest, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.byEmail[email]
	if !ok || !a.live(e.expiresAt) {
		return nil, repository.ErrTokenNotFound
	}
	c, ok := a.confirmed[e.val]
	if !ok || !a.live(c.expiresAt) {
		return nil, repository.ErrTokenNotFound
	}
	req := c.val
	return &req, nil
}

func (a *AuthStore) RecordFailedCode(_ context.Context, tokenHash string, ttl time.Duration) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := a.attempts[tokenHash]
	if !a.live(n.expiresAt) {
		n.val = 0
	}
	n.val++
	n.expiresAt = a.now().Add(ttl)
	a.attempts[tokenHash] = n
	return n.val, nil
}

func (a *AuthStore) SaveAuthCode(_ context.Context, code, identityID string, ttl time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.authCodes[code] = expiring[string]{val: identityID, expiresAt: a.now().Add(ttl)}
	return nil
}

func (a *AuthStore) ConsumeAuthCode(_ context.Context, code string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.authCodes[code]
	delete(a.authCodes, code)
	if !ok || !a.live(c.expiresAt) {
		return "", repository.ErrTokenNotFound
	}
	return c.val, nil
}

func (a *AuthStore) FindIdentity(_ context.Context, id string) (*model.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ident, ok := a.identities[id]
	if !ok {
		return nil, nil
	}
	return &ident, nil
}

func (a *AuthStore) FindIdentityByEmail(_ context.Context, email string) (*model.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.emails[email]
	if !ok {
		return nil, nil
	}
	ident := a.identities[id]
	return &ident, nil
}

func (a *AuthStore) CreateIdentity(_ context.Context, identity model.Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.emails[identity.Email]; ok {
		return repository.ErrIdentityExists
	}
	if _, ok := a.identities[identity.ID]; ok {
		return repository.ErrIdentityExists
	}
	a.emails[identity.Email] = identity.ID
	a.identities[identity.ID] = identity
	return nil
}

func (a *AuthStore) AddSession(_ context.Context, userID, token string, ttl time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions[userID] = expiring[string]{val: token, expiresAt: a.now().Add(ttl)}
	return nil
}

func (a *AuthStore) GetSession(_ context.Context, userID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[userID]
	if !ok || !a.live(s.expiresAt) {
		return "", repository.ErrTokenNotFound
	}
	return s.val, nil
}

func (a *AuthStore) ExtendSession(_ context.Context, userID string, ttl time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[userID]
	if !ok {
		return repository.ErrTokenNotFound
	}
	s.expiresAt = a.now().Add(ttl)
	a.sessions[userID] = s
	return nil
}

func (a *AuthStore) AddRefresh(_ context.Context, userID, jti string, ttl time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refreshes[userID] = expiring[string]{val: jti, expiresAt: a.now().Add(ttl)}
	return nil
}

func (a *AuthStore) GetRefresh(_ context.Context, userID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.refreshes[userID]
	if !ok || !a.live(r.expiresAt) {
		return "", repository.ErrTokenNotFound
	}
	return r.val, nil
}

func (a *AuthStore) DeleteSession(_ context.Context, userID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, userID)
	delete(a.refreshes, userID)
	return nil
}
