// Package auth checks credentials against the users catalog and keeps
// in-memory session tokens.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/skillbridge/internal/catalog"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleMentor = "mentor"
	RoleMentee = "mentee"

	DefaultSessionTTL = 12 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired session")
)

// User is the identity handed to the rest of the application.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

func (u User) IsMentor() bool { return u.Role == RoleMentor }

type UserSource interface {
	Users(ctx context.Context) ([]catalog.User, error)
}

type session struct {
	user      User
	expiresAt time.Time
}

type Service struct {
	users UserSource
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]session
}

func NewService(users UserSource, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{users: users, ttl: ttl, now: time.Now, sessions: make(map[string]session)}
}

// Authenticate matches login against email or username, case-insensitively.
func (s *Service) Authenticate(ctx context.Context, login, password string) (User, error) {
	users, err := s.users.Users(ctx)
	if err != nil {
		return User{}, err
	}
	login = strings.TrimSpace(login)
	for _, u := range users {
		if !strings.EqualFold(u.Email, login) && !strings.EqualFold(u.Username, login) {
			continue
		}
		if !passwordMatches(u.Password, password) {
			return User{}, ErrInvalidCredentials
		}
		role := strings.ToLower(u.Role)
		if role != RoleMentor {
			role = RoleMentee
		}
		return User{ID: u.ID, Username: u.Username, Email: u.Email, Role: role, Name: u.Name}, nil
	}
	return User{}, ErrInvalidCredentials
}

// passwordMatches accepts bcrypt hashes and, for the sample catalog, plain values.
func passwordMatches(stored, given string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

// Login authenticates and opens a session, returning its token.
func (s *Service) Login(ctx context.Context, login, password string) (string, User, error) {
	user, err := s.Authenticate(ctx, login, password)
	if err != nil {
		return "", User{}, err
	}
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = session{user: user, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return token, user, nil
}

func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Lookup returns the user behind token. Expired sessions are dropped.
func (s *Service) Lookup(token string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return User{}, ErrInvalidToken
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return User{}, ErrInvalidToken
	}
	return sess.user, nil
}
