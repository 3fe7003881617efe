package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"docnest/internal/model"
)

// errInvalidCredentials is shared by the unknown-email and wrong-password
// branches of Authenticate so both produce byte-identical errors.
var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)

// UserStore holds user accounts in memory, keyed by id with a secondary
// index on normalized email. All methods are safe for concurrent use and
// return copies, never pointers into the store.
type UserStore struct {
	mu      sync.RWMutex
	cost    int
	users   map[string]*model.User
	byEmail map[string]string // normalized email -> user id
}

// NewUserStore creates an empty store. cost is the bcrypt work factor.
func NewUserStore(cost int) *UserStore {
	return &UserStore{
		cost:    cost,
		users:   make(map[string]*model.User),
		byEmail: make(map[string]string),
	}
}

// Register creates an account. All three fields are required; the email
// must not already be registered (compared case-insensitively). The
// password is stored only as a bcrypt hash.
func (s *UserStore) Register(name, email, password string) (model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return model.User{}, ErrEmailExists
	}

	now := time.Now().UTC()
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	s.byEmail[email] = u.ID
	return *u, nil
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password return the same generic error; bcrypt's own comparison does the
// constant-time work.
func (s *UserStore) Authenticate(email, password string) (model.User, error) {
	email = normalizeEmail(email)

	s.mu.RLock()
	id, ok := s.byEmail[email]
	var u model.User
	if ok {
		u = *s.users[id]
	}
	s.mu.RUnlock()

	if !ok {
		return model.User{}, errInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return model.User{}, errInvalidCredentials
	}
	return u, nil
}

// GetByID fetches a user by id.
func (s *UserStore) GetByID(id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return *u, nil
}

// ProfileUpdate carries the optional fields of a profile change. Nil
// pointers leave the corresponding field untouched.
type ProfileUpdate struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// UpdateProfile applies a partial update to the user's mutable fields and
// refreshes UpdatedAt. Email and id are immutable.
func (s *UserStore) UpdateProfile(id string, upd ProfileUpdate) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return model.User{}, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		u.Name = name
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	u.UpdatedAt = nextTimestamp(u.UpdatedAt)
	return *u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// nextTimestamp returns the current UTC time, nudged forward when the
// clock has not advanced past prev so UpdatedAt strictly increases even
// for back-to-back updates on a coarse clock.
func nextTimestamp(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}
