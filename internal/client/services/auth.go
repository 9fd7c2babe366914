package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/loveops/internal/client/client"
	"github.com/dmitrijs2005/loveops/internal/client/store"
	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/dmitrijs2005/loveops/internal/logging"
)

const minPasswordLen = 6

// Session is the authenticated identity, persisted across restarts.
type Session struct {
	UserID   string        `json:"userId"`
	Username string        `json:"username"`
	Tokens   client.Tokens `json:"tokens"`
}

// SessionStore keeps the serialized session.
type SessionStore interface {
	GetRaw(ctx context.Context, key string) ([]byte, error)
	SetRaw(ctx context.Context, key string, value []byte) error
	DeleteRaw(ctx context.Context, key string) error
}

// Identity reports the current session, if any.
type Identity interface {
	Current() (Session, bool)
}

type AuthService interface {
	Identity
	Configured() bool
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (Session, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (Session, bool, error)
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  SessionStore
	log    logging.Logger

	mu      sync.RWMutex
	session *Session
}

// NewAuthService binds the session to c. A nil c means no server is
// configured; every remote operation then fails with common.ErrNotConfigured.
func NewAuthService(c client.Client, s SessionStore, log logging.Logger) AuthService {
	a := &authService{client: c, store: s, log: log.With("component", "auth")}
	if c != nil {
		c.OnTokensRefreshed(a.tokensRefreshed)
	}
	return a
}

func (a *authService) Configured() bool { return a.client != nil }

func (a *authService) Current() (Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return Session{}, false
	}
	return *a.session, true
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || strings.ContainsAny(username, " \t\n") {
		return common.ErrorInvalidLoginFormat
	}
	if len(password) < minPasswordLen {
		return common.ErrorInvalidPasswordFormat
	}
	return nil
}

func (a *authService) Register(ctx context.Context, username, password string) error {
	if a.client == nil {
		return common.ErrNotConfigured
	}
	if err := validateCredentials(username, password); err != nil {
		return err
	}
	if _, err := a.client.Register(ctx, username, password); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Login authenticates and persists the session.
func (a *authService) Login(ctx context.Context, username, password string) (Session, error) {
	if a.client == nil {
		return Session{}, common.ErrNotConfigured
	}
	if err := validateCredentials(username, password); err != nil {
		return Session{}, err
	}

	res, err := a.client.Login(ctx, username, password)
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}

	s := Session{UserID: res.UserID, Username: username, Tokens: res.Tokens}
	if err := a.save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	a.log.Info(ctx, "logged in", "user_id", s.UserID)
	return s, nil
}

// Logout forgets the session locally. Local records are kept.
func (a *authService) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
	if a.client != nil {
		a.client.SetTokens(client.Tokens{})
	}
	return a.store.DeleteRaw(ctx, store.KeySession)
}

// Restore loads a previously saved session and hands its tokens to the
// client. An unreadable session is discarded.
func (a *authService) Restore(ctx context.Context) (Session, bool, error) {
	raw, err := a.store.GetRaw(ctx, store.KeySession)
	if err != nil {
		return Session{}, false, err
	}
	if len(raw) == 0 {
		return Session{}, false, nil
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil || s.UserID == "" {
		a.log.Warn(ctx, "discarding unreadable session")
		return Session{}, false, a.store.DeleteRaw(ctx, store.KeySession)
	}

	a.set(s)
	return s, true, nil
}

func (a *authService) Ping(ctx context.Context) error {
	if a.client == nil {
		return common.ErrNotConfigured
	}
	return a.client.Ping(ctx)
}

func (a *authService) set(s Session) {
	a.mu.Lock()
	a.session = &s
	a.mu.Unlock()
	if a.client != nil {
		a.client.SetTokens(s.Tokens)
	}
}

func (a *authService) save(ctx context.Context, s Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := a.store.SetRaw(ctx, store.KeySession, b); err != nil {
		return err
	}
	a.set(s)
	return nil
}

func (a *authService) tokensRefreshed(t client.Tokens) {
	s, ok := a.Current()
	if !ok {
		return
	}
	s.Tokens = t
	b, err := json.Marshal(s)
	if err != nil {
		return
	}
	a.mu.Lock()
	a.session = &s
	a.mu.Unlock()

	ctx := context.Background()
	if err := a.store.SetRaw(ctx, store.KeySession, b); err != nil {
		a.log.Error(ctx, "failed to persist refreshed tokens", "error", err)
	}
}
