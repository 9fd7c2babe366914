package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/dmitrijs2005/loveops/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewUserService(db, newFakeRepoManager(), testConfig())

	_, err := s.Register(context.Background(), "", "secret1")
	require.ErrorIs(t, err, common.ErrorInvalidLoginFormat)

	_, err = s.Register(context.Background(), "al ice", "secret1")
	require.ErrorIs(t, err, common.ErrorInvalidLoginFormat)

	_, err = s.Register(context.Background(), "alice", "12345")
	require.ErrorIs(t, err, common.ErrorInvalidPasswordFormat)
}

func TestRegisterAndLogin_RealHashing(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewUserService(db, rm, testConfig())
	ctx := context.Background()

	u, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "id-alice", u.ID)
	assert.NotEqual(t, []byte("secret1"), u.PasswordHash)
	assert.Len(t, u.PasswordHash, 32)

	got, pair, err := s.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "id-alice", got.ID)

	uid, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "id-alice", uid)
	assert.Len(t, pair.RefreshToken, 64)
	assert.Equal(t, []string{pair.RefreshToken}, rm.r.created)

	_, _, err = s.Login(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRegister_Duplicate(t *testing.T) {
	fastHashing(t)
	db, _ := newSQLMockDB(t)
	s := NewUserService(db, newFakeRepoManager(), testConfig())

	_, err := s.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	_, err = s.Register(context.Background(), "alice", "secret2")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_RepoError(t *testing.T) {
	fastHashing(t)
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.u.createErr = errBoom
	s := NewUserService(db, rm, testConfig())

	_, err := s.Register(context.Background(), "alice", "secret1")
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "error creating user")
}

func TestLogin_UnknownUser(t *testing.T) {
	fastHashing(t)
	db, _ := newSQLMockDB(t)
	s := NewUserService(db, newFakeRepoManager(), testConfig())

	_, _, err := s.Login(context.Background(), "ghost", "secret1")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_RepoError(t *testing.T) {
	fastHashing(t)
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.u.getErr = errBoom
	s := NewUserService(db, rm, testConfig())

	_, _, err := s.Login(context.Background(), "alice", "secret1")
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestRefreshToken_Rotates(t *testing.T) {
	fastHashing(t)
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := NewUserService(db, rm, testConfig())
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	_, first, err := s.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	second, err := s.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEmpty(t, second.AccessToken)
	require.NoError(t, mock.ExpectationsWereMet())

	// the old refresh token is gone
	_, err = s.RefreshToken(ctx, first.RefreshToken)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	assert.Equal(t, []string{"id-alice", "id-alice"}, rm.r.pruned)
}

func TestRefreshToken_Expired(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	require.NoError(t, rm.r.Create(context.Background(), "u1", "old", time.Minute))

	orig := timeNow
	t.Cleanup(func() { timeNow = orig })
	timeNow = func() time.Time { return time.Now().Add(time.Hour) }

	s := NewUserService(db, rm, testConfig())
	_, err := s.RefreshToken(context.Background(), "old")
	require.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestRefreshToken_FindError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.r.findErr = errBoom
	s := NewUserService(db, rm, testConfig())

	_, err := s.RefreshToken(context.Background(), "r")
	require.ErrorIs(t, err, errBoom)
}

func TestRefreshToken_DeleteErrorRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	require.NoError(t, rm.r.Create(context.Background(), "u1", "tok", time.Hour))
	rm.r.delErr = errBoom
	s := NewUserService(db, rm, testConfig())

	_, err := s.RefreshToken(context.Background(), "tok")
	require.ErrorIs(t, err, errBoom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserIDFromAccessToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewUserService(db, newFakeRepoManager(), testConfig())

	tok, err := auth.GenerateToken("u9", []byte("k"), time.Minute)
	require.NoError(t, err)

	uid, err := s.UserIDFromAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u9", uid)

	_, err = s.UserIDFromAccessToken("garbage")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
