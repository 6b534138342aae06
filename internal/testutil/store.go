// Package testutil holds in-memory stand-ins for the PostgreSQL repositories.
// Deleting a user removes its DEO profile, advisor and refresh tokens, as the
// schema's ON DELETE CASCADE does.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

// Store keeps users, profiles and refresh tokens in memory.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*models.User
	deos     map[int64]*models.DEO
	advisors map[int64]*models.Advisor
	tokens   map[string]*models.RefreshToken
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[int64]*models.User),
		deos:     make(map[int64]*models.DEO),
		advisors: make(map[int64]*models.Advisor),
		tokens:   make(map[string]*models.RefreshToken),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (s *Store) copyAdvisor(a *models.Advisor) *models.Advisor {
	c := *a
	if u, ok := s.users[a.UserID]; ok {
		c.User = copyUser(u)
	}
	return &c
}

// AddUser stores a user with a cheaply hashed password.
func (s *Store) AddUser(username, password string, role models.Role, active bool) *models.User {
	hashed, err := auth.HashPasswordWithCost(password, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{
		ID:         s.id(),
		Username:   username,
		Password:   hashed,
		Role:       role,
		IsActive:   active,
		DateJoined: time.Now(),
	}
	s.users[u.ID] = u
	return copyUser(u)
}

// AddDEO stores an active DEO user with its profile.
func (s *Store) AddDEO(username, password string) (*models.User, *models.DEO) {
	u := s.AddUser(username, password, models.RoleDEO, true)

	s.mu.Lock()
	defer s.mu.Unlock()
	deo := &models.DEO{ID: s.id(), UserID: u.ID}
	s.deos[deo.ID] = deo
	return u, deo
}

// AddAdvisor stores an active advisor user and its profile under deo.
func (s *Store) AddAdvisor(username, password string, deo *models.DEO) *models.Advisor {
	u := s.AddUser(username, password, models.RoleAdvisor, true)

	s.mu.Lock()
	defer s.mu.Unlock()
	a := &models.Advisor{ID: s.id(), UserID: u.ID}
	if deo != nil {
		a.DEOID = &deo.ID
	}
	s.advisors[a.ID] = a
	return s.copyAdvisor(a)
}

// UserCount returns the number of stored users.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// AdvisorCount returns the number of stored advisors.
func (s *Store) AdvisorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.advisors)
}

// Token returns the stored refresh token for jti, or nil.
func (s *Store) Token(jti string) *models.RefreshToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[jti]
	if !ok {
		return nil
	}
	c := *t
	return &c
}

// GetUserByUsername implements services.UserStore.
func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// GetUserByID implements services.UserStore.
func (s *Store) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return copyUser(u), nil
}

// UpdateLastLogin implements services.UserStore.
func (s *Store) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.LastLogin = &at
	}
	return nil
}

// UsernameExists implements services.UsernameChecker.
func (s *Store) UsernameExists(_ context.Context, username string, excludeUserID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usernameTaken(username, excludeUserID), nil
}

func (s *Store) usernameTaken(username string, excludeUserID int64) bool {
	for _, u := range s.users {
		if u.Username == username && u.ID != excludeUserID {
			return true
		}
	}
	return false
}

// GetDEOByUserID implements auth.DEOProfileStore.
func (s *Store) GetDEOByUserID(_ context.Context, userID int64) (*models.DEO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.deos {
		if d.UserID == userID {
			c := *d
			return &c, nil
		}
	}
	return nil, apperrors.ErrDEOProfileAbsent
}

// DeleteUser removes a user and everything that references it.
func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteUser(id)
}

func (s *Store) deleteUser(id int64) error {
	if _, ok := s.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(s.users, id)

	for deoID, d := range s.deos {
		if d.UserID == id {
			delete(s.deos, deoID)
			for advID, a := range s.advisors {
				if a.DEOID != nil && *a.DEOID == deoID {
					delete(s.advisors, advID)
					delete(s.users, a.UserID)
				}
			}
		}
	}
	for advID, a := range s.advisors {
		if a.UserID == id {
			delete(s.advisors, advID)
		}
	}
	for jti, t := range s.tokens {
		if _, ok := s.users[t.UserID]; !ok {
			delete(s.tokens, jti)
		}
	}
	return nil
}

// CreateOutstanding implements services.TokenStore.
func (s *Store) CreateOutstanding(_ context.Context, token *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token.JTI]; ok {
		return apperrors.ErrTokenInvalid
	}
	if _, ok := s.users[token.UserID]; !ok {
		return apperrors.ErrTokenInvalid
	}
	c := *token
	c.ID = s.id()
	s.tokens[token.JTI] = &c
	token.ID = c.ID
	return nil
}

// GetByJTI implements services.TokenStore.
func (s *Store) GetByJTI(_ context.Context, jti string) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[jti]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	c := *t
	return &c, nil
}

// Blacklist implements services.TokenStore. Like the SQL upsert, an unknown
// jti is recorded and a second call reports apperrors.ErrTokenRevoked.
func (s *Store) Blacklist(_ context.Context, token *models.RefreshToken, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[token.UserID]; !ok {
		return apperrors.ErrTokenInvalid
	}
	stored, ok := s.tokens[token.JTI]
	if !ok {
		c := *token
		c.ID = s.id()
		c.CreatedAt = at
		stored = &c
		s.tokens[token.JTI] = stored
	}
	if stored.BlacklistedAt != nil {
		return apperrors.ErrTokenRevoked
	}
	stored.BlacklistedAt = &at
	return nil
}

// CleanupExpired implements services.TokenStore.
func (s *Store) CleanupExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for jti, t := range s.tokens {
		if !t.ExpiresAt.After(now) {
			delete(s.tokens, jti)
			removed++
		}
	}
	return removed, nil
}

// ListAdvisors implements services.AdvisorStore.
func (s *Store) ListAdvisors(_ context.Context) ([]*models.Advisor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Advisor, 0, len(s.advisors))
	for _, a := range s.advisors {
		out = append(out, s.copyAdvisor(a))
	}
	sortByID(out, func(a *models.Advisor) int64 { return a.ID })
	return out, nil
}

// GetAdvisorByID implements services.AdvisorStore.
func (s *Store) GetAdvisorByID(_ context.Context, id int64) (*models.Advisor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.advisors[id]
	if !ok {
		return nil, apperrors.ErrAdvisorNotFound
	}
	return s.copyAdvisor(a), nil
}

// CreateAdvisor implements services.AdvisorStore.
func (s *Store) CreateAdvisor(_ context.Context, user *models.User, advisor *models.Advisor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usernameTaken(user.Username, 0) {
		return apperrors.ErrUsernameTaken
	}
	if advisor.DEOID != nil {
		if _, ok := s.deos[*advisor.DEOID]; !ok {
			return apperrors.ErrInvalidReference
		}
	}

	user.ID = s.id()
	user.DateJoined = time.Now()
	s.users[user.ID] = copyUser(user)

	advisor.ID = s.id()
	advisor.UserID = user.ID
	advisor.User = user
	stored := *advisor
	stored.User = nil
	s.advisors[advisor.ID] = &stored
	return nil
}

// UpdateAdvisor implements services.AdvisorStore.
func (s *Store) UpdateAdvisor(_ context.Context, advisor *models.Advisor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.advisors[advisor.ID]; !ok {
		return apperrors.ErrAdvisorNotFound
	}
	if advisor.User != nil {
		if s.usernameTaken(advisor.User.Username, advisor.UserID) {
			return apperrors.ErrUsernameTaken
		}
		s.users[advisor.UserID] = copyUser(advisor.User)
	}
	stored := *advisor
	stored.User = nil
	s.advisors[advisor.ID] = &stored
	return nil
}

// DeleteAdvisor implements services.AdvisorStore by deleting the advisor's user.
func (s *Store) DeleteAdvisor(_ context.Context, advisor *models.Advisor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.deleteUser(advisor.UserID); err != nil {
		if err == apperrors.ErrUserNotFound {
			return apperrors.ErrAdvisorNotFound
		}
		return err
	}
	return nil
}
