package grpc

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/loveops/internal/client/client"
	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/dmitrijs2005/loveops/internal/logging"
	"github.com/dmitrijs2005/loveops/internal/server/auth"
	"github.com/dmitrijs2005/loveops/internal/server/models"
	"github.com/dmitrijs2005/loveops/internal/server/services"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

var testSecret = []byte("test-secret")

// fakeUsers issues real JWTs. The first access token handed out by Login
// is already expired so clients have to go through RefreshToken.
type fakeUsers struct {
	mu        sync.Mutex
	users     map[string]string
	refreshes int
	loginErr  error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]string{}}
}

func (f *fakeUsers) Register(_ context.Context, username, password string) (*models.User, error) {
	if len(password) < 6 {
		return nil, common.ErrorInvalidPasswordFormat
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.users[username] = password
	return &models.User{ID: "u-" + username, UserName: username}, nil
}

func (f *fakeUsers) Login(_ context.Context, username, password string) (*models.User, *services.TokenPair, error) {
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	f.mu.Lock()
	pw, ok := f.users[username]
	f.mu.Unlock()
	if !ok || pw != password {
		return nil, nil, common.ErrorUnauthorized
	}
	access, err := auth.GenerateToken("u-"+username, testSecret, -time.Minute)
	if err != nil {
		return nil, nil, err
	}
	return &models.User{ID: "u-" + username, UserName: username}, &services.TokenPair{AccessToken: access, RefreshToken: "refresh-" + username}, nil
}

func (f *fakeUsers) RefreshToken(_ context.Context, refreshToken string) (*services.TokenPair, error) {
	f.mu.Lock()
	f.refreshes++
	f.mu.Unlock()
	const prefix = "refresh-"
	if len(refreshToken) <= len(prefix) || refreshToken[:len(prefix)] != prefix {
		return nil, common.ErrInvalidToken
	}
	access, err := auth.GenerateToken("u-"+refreshToken[len(prefix):], testSecret, time.Hour)
	if err != nil {
		return nil, err
	}
	return &services.TokenPair{AccessToken: access, RefreshToken: refreshToken + "+"}, nil
}

func (f *fakeUsers) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

func (f *fakeUsers) UserIDFromAccessToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, testSecret)
}

type fakeDocs struct {
	mu   sync.Mutex
	docs map[string][]byte
	err  error
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{docs: map[string][]byte{}}
}

func (f *fakeDocs) Push(_ context.Context, userID string, data []byte) (time.Time, error) {
	if f.err != nil {
		return time.Time{}, f.err
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return time.Time{}, common.ErrorValidation
	}
	f.mu.Lock()
	f.docs[userID] = append([]byte(nil), data...)
	f.mu.Unlock()
	return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), nil
}

func (f *fakeDocs) Pull(_ context.Context, userID string) (*models.UserData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.UserData{UserID: userID, Data: d, UpdatedAt: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)}, nil
}

type fakePhotos struct{}

func (fakePhotos) PresignUpload(_ context.Context, userID, ext string) (*services.PhotoUpload, error) {
	if ext != "jpg" && ext != "png" {
		return nil, common.ErrorValidation
	}
	key := userID + "/photo." + ext
	return &services.PhotoUpload{Key: key, UploadURL: "http://s3.local/put/" + key, PublicURL: "http://cdn.local/" + key}, nil
}

type testEnv struct {
	server *GRPCServer
	users  *fakeUsers
	docs   *fakeDocs
	client *client.GRPCClient
	cancel context.CancelFunc
	done   chan error
}

// startTestServer serves s over bufconn and returns a real client for it.
func startTestServer(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{users: newFakeUsers(), docs: newFakeDocs(), done: make(chan error, 1)}
	env.server = NewGRPCServer("bufnet", logging.NewNopLogger(), env.users, env.docs, fakePhotos{})

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	env.cancel = cancel
	go func() { env.done <- env.server.Serve(ctx, lis) }()

	c, err := client.NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)
	env.client = c

	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		<-env.done
	})
	return env
}
