package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/loveops/internal/client/client"
	"github.com/dmitrijs2005/loveops/internal/client/localdb"
	"github.com/dmitrijs2005/loveops/internal/client/store"
	"github.com/dmitrijs2005/loveops/internal/logging"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := localdb.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return store.New(db, logging.NewNopLogger())
}

// fakeClient implements client.Client in memory.
type fakeClient struct {
	mu sync.Mutex

	RegisterErr error
	LoginRet    client.LoginResult
	LoginErr    error
	PingErr     error

	PushErr   error
	PullRet   []byte
	PullErrs  []error
	Pushed    [][]byte
	PullCalls int

	PresignRet client.PhotoUpload
	PresignErr error
	LastExt    string

	Tokens    client.Tokens
	onRefresh func(client.Tokens)
}

func (f *fakeClient) Close() error                   { return nil }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Register(ctx context.Context, username, password string) (string, error) {
	return "u1", f.RegisterErr
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (client.LoginResult, error) {
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) SetTokens(t client.Tokens) {
	f.mu.Lock()
	f.Tokens = t
	f.mu.Unlock()
}

func (f *fakeClient) OnTokensRefreshed(fn func(client.Tokens)) { f.onRefresh = fn }

func (f *fakeClient) Push(ctx context.Context, doc []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PushErr != nil {
		return "", f.PushErr
	}
	f.Pushed = append(f.Pushed, doc)
	return "2024-01-01T00:00:00.000Z", nil
}

func (f *fakeClient) Pull(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.PullCalls
	f.PullCalls++
	if i < len(f.PullErrs) && f.PullErrs[i] != nil {
		return nil, f.PullErrs[i]
	}
	return f.PullRet, nil
}

func (f *fakeClient) PresignPhotoUpload(ctx context.Context, ext string) (client.PhotoUpload, error) {
	f.LastExt = ext
	return f.PresignRet, f.PresignErr
}

func (f *fakeClient) pushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Pushed)
}

// fakeIdentity is a fixed session.
type fakeIdentity struct {
	session *Session
}

func (f fakeIdentity) Current() (Session, bool) {
	if f.session == nil {
		return Session{}, false
	}
	return *f.session, true
}

func loggedIn() fakeIdentity {
	return fakeIdentity{session: &Session{UserID: "u1", Username: "alice"}}
}

// fakeTimer records scheduled callbacks so tests can fire them by hand.
type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) active() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}
