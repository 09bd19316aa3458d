package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSignedOut is returned by Token when no user is signed in.
	ErrSignedOut = errors.New("not signed in")
	// ErrTokenExpired is returned by Token once the ID token's exp has passed.
	ErrTokenExpired = errors.New("session token expired")
)

// Status is the coarse session state observed by the store.
type Status int

const (
	StatusInitializing Status = iota
	StatusSignedOut
	StatusUnverified
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusSignedOut:
		return "signed out"
	case StatusUnverified:
		return "email not verified"
	case StatusReady:
		return "ready"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// User is the identity carried by the session token.
type User struct {
	UID           string
	Email         string
	Name          string
	EmailVerified bool
}

type claims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

// Session holds the signed-in identity and bearer token.
type Session struct {
	mu           sync.RWMutex
	token        string
	user         *User
	expires      time.Time
	initializing bool

	subs   map[int]chan Status
	nextID int

	now func() time.Time
}

// New returns a session that is still initializing.
func New() *Session {
	return &Session{
		initializing: true,
		subs:         make(map[int]chan Status),
		now:          time.Now,
	}
}

// Restore completes initialization from a persisted token. An empty token
// leaves the session signed out.
func (s *Session) Restore(token string) error {
	if strings.TrimSpace(token) == "" {
		s.mu.Lock()
		s.initializing = false
		s.clearLocked()
		s.publishLocked()
		s.mu.Unlock()
		return nil
	}
	if err := s.SignIn(token); err != nil {
		s.mu.Lock()
		s.initializing = false
		s.clearLocked()
		s.publishLocked()
		s.mu.Unlock()
		return err
	}
	return nil
}

// SignIn replaces the session identity with the one carried by token.
func (s *Session) SignIn(token string) error {
	token = strings.TrimSpace(token)
	user, expires, err := parseToken(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	s.expires = expires
	s.initializing = false
	s.publishLocked()
	return nil
}

// SignOut drops the identity and token.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initializing = false
	s.clearLocked()
	s.publishLocked()
}

// Token returns the bearer token for API calls.
func (s *Session) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.token == "" {
		return "", ErrSignedOut
	}
	if !s.expires.IsZero() && !s.now().Before(s.expires) {
		return "", ErrTokenExpired
	}
	return s.token, nil
}

// User returns the signed-in user, if any.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Status returns the current session status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked()
}

// Ready reports whether API calls are allowed: signed in with a verified email.
func (s *Session) Ready() bool {
	return s.Status() == StatusReady
}

// Subscribe returns a channel that receives the current status right away
// and every change afterwards. Slow readers only see the latest status.
// Call cancel to release the subscription.
func (s *Session) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.statusLocked()
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func (s *Session) statusLocked() Status {
	switch {
	case s.initializing:
		return StatusInitializing
	case s.user == nil:
		return StatusSignedOut
	case !s.user.EmailVerified:
		return StatusUnverified
	default:
		return StatusReady
	}
}

func (s *Session) clearLocked() {
	s.token = ""
	s.user = nil
	s.expires = time.Time{}
}

func (s *Session) publishLocked() {
	status := s.statusLocked()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- status
	}
}

// parseToken reads identity claims without verifying the signature; the
// backend verifies every request.
func parseToken(token string) (User, time.Time, error) {
	if token == "" {
		return User{}, time.Time{}, fmt.Errorf("token is empty")
	}
	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return User{}, time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if strings.TrimSpace(c.Subject) == "" {
		return User{}, time.Time{}, fmt.Errorf("parse token: missing subject")
	}
	var expires time.Time
	if c.ExpiresAt != nil {
		expires = c.ExpiresAt.Time
	}
	return User{
		UID:           c.Subject,
		Email:         c.Email,
		Name:          c.Name,
		EmailVerified: c.EmailVerified,
	}, expires, nil
}
