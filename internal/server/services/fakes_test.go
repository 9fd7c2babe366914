package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/dmitrijs2005/loveops/internal/dbx"
	"github.com/dmitrijs2005/loveops/internal/server/config"
	"github.com/dmitrijs2005/loveops/internal/server/models"
	refreshtokensrepo "github.com/dmitrijs2005/loveops/internal/server/repositories/refreshtokens"
	userdatarepo "github.com/dmitrijs2005/loveops/internal/server/repositories/userdata"
	usersrepo "github.com/dmitrijs2005/loveops/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		S3Region:                     "us-east-1",
		S3RootUser:                   "minioadmin",
		S3RootPassword:               "minioadmin",
		S3BaseEndpoint:               "http://127.0.0.1:9000",
		S3Bucket:                     common.PhotoBucket,
		S3PublicBaseURL:              "http://cdn.local/",
	}
}

// fakeUsersRepo keeps users in a map keyed by username.
type fakeUsersRepo struct {
	mu        sync.Mutex
	byName    map[string]*models.User
	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = "id-" + u.UserName
	f.byName[u.UserName] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeRefreshRepo struct {
	mu      sync.Mutex
	tokens  map[string]*models.RefreshToken
	findErr error
	delErr  error
	created []string
	pruned  []string
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	f.created = append(f.created, token)
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	rt, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return false, f.delErr
	}
	_, ok := f.tokens[token]
	delete(f.tokens, token)
	return ok, nil
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context, userID string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruned = append(f.pruned, userID)
	return nil
}

type fakeUserDataRepo struct {
	docs      map[string]*models.UserData
	upsertErr error
	at        time.Time
}

func (f *fakeUserDataRepo) Upsert(ctx context.Context, userID string, data []byte) (time.Time, error) {
	if f.upsertErr != nil {
		return time.Time{}, f.upsertErr
	}
	if f.docs == nil {
		f.docs = map[string]*models.UserData{}
	}
	f.docs[userID] = &models.UserData{UserID: userID, Data: data, UpdatedAt: f.at}
	return f.at, nil
}

func (f *fakeUserDataRepo) Get(ctx context.Context, userID string) (*models.UserData, error) {
	d, ok := f.docs[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return d, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	d *fakeUserDataRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), r: newFakeRefreshRepo(), d: &fakeUserDataRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) UserData(db dbx.DBTX) userdatarepo.Repository           { return m.d }

// fastHashing swaps argon2 for a trivial reversible scheme.
func fastHashing(t *testing.T) {
	t.Helper()
	origHash, origVerify := hashPassword, verifyPassword
	t.Cleanup(func() { hashPassword, verifyPassword = origHash, origVerify })

	hashPassword = func(password string) ([]byte, []byte) {
		return []byte("h:" + password), []byte("salt")
	}
	verifyPassword = func(password string, hash, salt []byte) bool {
		return string(hash) == "h:"+password
	}
}
