// Package session holds the authenticated user of the client and mirrors it
// into the local metadata store so it survives restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/dmitrijs2005/authportal/internal/client/client"
	"github.com/dmitrijs2005/authportal/internal/client/models"
	"github.com/dmitrijs2005/authportal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authportal/internal/logging"
)

// ErrIncompleteUser is returned by Set for a user without ID or email.
var ErrIncompleteUser = errors.New("user record is incomplete")

// FetchFunc loads the current user from the server.
type FetchFunc func(ctx context.Context) (*models.User, error)

// Store is the single source of truth for "who is logged in". The in-memory
// user and the persisted copy change together; when persistence fails on
// clear, memory is emptied anyway.
type Store struct {
	mu        sync.Mutex
	user      *models.User
	repo      metadata.Repository
	log       logging.Logger
	listeners []func(*models.User)
	onClear   []func()
}

type Option func(*Store)

// WithClearHook registers fn to run whenever the session is cleared, e.g. to
// drop in-memory cookies.
func WithClearHook(fn func()) Option {
	return func(s *Store) { s.onClear = append(s.onClear, fn) }
}

// New creates a Store and hydrates it from repo. A cached value that cannot
// be decoded, or that lacks an ID or email, is deleted.
func New(ctx context.Context, repo metadata.Repository, log logging.Logger, opts ...Option) (*Store, error) {
	s := &Store{repo: repo, log: log}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := repo.Get(ctx, metadata.KeyUser)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if raw == nil {
		return s, nil
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil || !u.Complete() {
		log.Warn(ctx, "discarding cached session", "error", err)
		if err := repo.Delete(ctx, metadata.KeyUser); err != nil {
			return nil, fmt.Errorf("discard session: %w", err)
		}
		return s, nil
	}

	s.user = &u
	return s, nil
}

// Current returns a copy of the logged-in user, or nil.
func (s *Store) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Subscribe registers fn to be called with the new user after every change.
func (s *Store) Subscribe(fn func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Set replaces the current user. A nil user clears the session.
func (s *Store) Set(ctx context.Context, u *models.User) error {
	if u == nil {
		return s.Clear(ctx)
	}
	if !u.Complete() {
		return ErrIncompleteUser
	}

	b, err := json.Marshal(u)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.repo.Set(ctx, metadata.KeyUser, b); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save session: %w", err)
	}
	s.user = u.Clone()
	s.mu.Unlock()

	s.notify(u)
	return nil
}

// Clear logs the user out locally: the cached user and cookies are deleted
// in one transaction and memory is emptied even if that fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := s.repo.Delete(ctx, metadata.KeyUser, metadata.KeyCookies)
	s.user = nil
	hooks := s.onClear
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	s.notify(nil)

	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Refresh re-fetches the current user. A 401 or 404 from the server clears
// the session; any other failure leaves it untouched.
func (s *Store) Refresh(ctx context.Context, fetch FetchFunc) (*models.User, error) {
	u, err := fetch(ctx)
	if err != nil {
		if client.IsStatus(err, http.StatusUnauthorized, http.StatusNotFound) {
			if clearErr := s.Clear(ctx); clearErr != nil {
				s.log.Error(ctx, "clearing stale session failed", "error", clearErr)
			}
		}
		return nil, err
	}

	if err := s.Set(ctx, u); err != nil {
		return nil, err
	}
	return u.Clone(), nil
}

func (s *Store) notify(u *models.User) {
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(u.Clone())
	}
}
