package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/loveops/internal/client/backup"
	"github.com/dmitrijs2005/loveops/internal/client/client"
	"github.com/dmitrijs2005/loveops/internal/client/config"
	"github.com/dmitrijs2005/loveops/internal/client/localdb"
	"github.com/dmitrijs2005/loveops/internal/client/services"
	"github.com/dmitrijs2005/loveops/internal/client/store"
	"github.com/dmitrijs2005/loveops/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth embeds the interface so only the methods a test needs are
// implemented.
type fakeAuth struct {
	services.AuthService
	session  *services.Session
	pingErr  error
	loginErr error
	logouts  int
}

func (f *fakeAuth) Current() (services.Session, bool) {
	if f.session == nil {
		return services.Session{}, false
	}
	return *f.session, true
}

func (f *fakeAuth) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeAuth) Login(ctx context.Context, username, password string) (services.Session, error) {
	if f.loginErr != nil {
		return services.Session{}, f.loginErr
	}
	f.session = &services.Session{UserID: "u1", Username: username}
	return *f.session, nil
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logouts++
	f.session = nil
	return nil
}

type fakeSync struct {
	status      services.SyncStatus
	syncErr     error
	pullOK      bool
	pullErr     error
	calls       []string
	foregrounds int
}

func (f *fakeSync) Start(ctx context.Context) { f.calls = append(f.calls, "start") }
func (f *fakeSync) Stop()                     { f.calls = append(f.calls, "stop") }
func (f *fakeSync) SyncNow(ctx context.Context) error {
	f.calls = append(f.calls, "sync")
	return f.syncErr
}
func (f *fakeSync) PullNow(ctx context.Context) (bool, error) {
	f.calls = append(f.calls, "pull")
	return f.pullOK, f.pullErr
}
func (f *fakeSync) InitialPull(ctx context.Context) (bool, error) {
	f.calls = append(f.calls, "initial")
	return f.pullOK, f.pullErr
}
func (f *fakeSync) Foreground(ctx context.Context) (bool, error) {
	f.foregrounds++
	return f.pullOK, f.pullErr
}
func (f *fakeSync) Status(ctx context.Context) services.SyncStatus { return f.status }

type fakePhotos struct {
	target string
	name   string
	ctype  string
}

func (f *fakePhotos) AddToPerson(ctx context.Context, personID, fileName, contentType string, data []byte) (string, error) {
	f.target, f.name, f.ctype = "person:"+personID, fileName, contentType
	return "https://cdn/p.png", nil
}

func (f *fakePhotos) AddToDate(ctx context.Context, dateID, fileName, contentType string, data []byte) (string, error) {
	f.target, f.name, f.ctype = "date:"+dateID, fileName, contentType
	return "https://cdn/d.png", nil
}

type testApp struct {
	*App
	out    *bytes.Buffer
	auth   *fakeAuth
	sync   *fakeSync
	photos *fakePhotos
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, lines ...string) *testApp {
	t.Helper()
	db, err := localdb.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st := store.New(db, logging.NewNopLogger())
	out := &bytes.Buffer{}
	ta := &testApp{
		out:    out,
		auth:   &fakeAuth{},
		sync:   &fakeSync{},
		photos: &fakePhotos{},
	}
	ta.App = &App{
		config: &config.Config{ServerEndpointAddr: "127.0.0.1:1", ExportDir: t.TempDir()},
		store:  st,
		codec:  backup.NewCodec(st, logging.NewNopLogger()),
		auth:   ta.auth,
		sync:   ta.sync,
		photos: ta.photos,
		log:    logging.NewNopLogger(),
		reader: bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n")),
		out:    out,
		now:    func() time.Time { return fixedNow },
		Mode:   ModeOffline,
	}
	return ta
}

// feed replaces the pending input.
func (ta *testApp) feed(lines ...string) {
	ta.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestSetMode_ChangesAndReportsOnce(t *testing.T) {
	ta := newTestApp(t)

	require.True(t, ta.setMode(ModeOnline))
	assert.Equal(t, ModeOnline, ta.mode())
	assert.Contains(t, ta.out.String(), "Switched to online mode")

	ta.out.Reset()
	require.False(t, ta.setMode(ModeOnline))
	assert.Empty(t, ta.out.String())
}

func TestGetStatus(t *testing.T) {
	ta := newTestApp(t)
	assert.Equal(t, "(offline)", ta.getStatus())

	ta.auth.session = &services.Session{Username: "alice"}
	ta.sync.status.Syncing = true
	ta.setMode(ModeOnline)
	assert.Equal(t, "(alice online syncing)", ta.getStatus())
}

func TestCheckOnline_RefreshesOnReconnect(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)
	ta.auth.session = &services.Session{Username: "alice"}

	ta.auth.pingErr = client.ErrUnavailable
	ta.checkOnline(ctx)
	assert.Equal(t, ModeOffline, ta.mode())
	assert.Equal(t, 0, ta.sync.foregrounds)

	ta.auth.pingErr = nil
	ta.checkOnline(ctx)
	assert.Equal(t, ModeOnline, ta.mode())
	assert.Equal(t, 1, ta.sync.foregrounds)

	// still online: no extra pull
	ta.checkOnline(ctx)
	assert.Equal(t, 1, ta.sync.foregrounds)
}

func TestCheckOnline_NoRefreshWhenLoggedOut(t *testing.T) {
	ta := newTestApp(t)
	ta.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, ta.mode())
	assert.Equal(t, 0, ta.sync.foregrounds)
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	ta := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ta.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestLogin_PullsAfterwards(t *testing.T) {
	origPw := getPassword
	getPassword = func(w io.Writer) ([]byte, error) { return []byte("secret1"), nil }
	t.Cleanup(func() { getPassword = origPw })

	ta := newTestApp(t, "alice")
	ta.sync.pullOK = true

	require.NoError(t, ta.Login(context.Background(), nil))
	assert.True(t, ta.isLoggedIn())
	assert.Equal(t, []string{"initial"}, ta.sync.calls)
	assert.Contains(t, ta.out.String(), "Signed in as alice")
}

func TestLogin_Failure(t *testing.T) {
	origPw := getPassword
	getPassword = func(w io.Writer) ([]byte, error) { return []byte("secret1"), nil }
	t.Cleanup(func() { getPassword = origPw })

	ta := newTestApp(t, "alice")
	ta.auth.loginErr = client.ErrUnauthorized

	err := ta.Login(context.Background(), nil)
	require.True(t, errors.Is(err, client.ErrUnauthorized))
	assert.Empty(t, ta.sync.calls)
}

func TestSyncCommands(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)

	require.NoError(t, ta.Sync(ctx, nil))
	assert.Contains(t, ta.out.String(), "Synced.")

	require.NoError(t, ta.Pull(ctx, nil))
	assert.Contains(t, ta.out.String(), "No remote data.")

	require.NoError(t, ta.Refresh(ctx, nil))
	assert.Equal(t, 1, ta.sync.foregrounds)

	ta.sync.syncErr = client.ErrUnavailable
	require.ErrorIs(t, ta.Sync(ctx, nil), client.ErrUnavailable)

	ta.sync.status = services.SyncStatus{Configured: true, LoggedIn: true, Error: "push: server unavailable", LastSyncedAt: "2024-03-01T10:00:00.000Z"}
	ta.out.Reset()
	require.NoError(t, ta.SyncStatus(ctx, nil))
	assert.Contains(t, ta.out.String(), "Sync: idle")
	assert.Contains(t, ta.out.String(), "Last synced: 2024-03-01T10:00:00.000Z")
	assert.Contains(t, ta.out.String(), "Last error: push: server unavailable")
}
