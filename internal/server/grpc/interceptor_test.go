package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/dmitrijs2005/loveops/internal/logging"
	"github.com/dmitrijs2005/loveops/internal/rpc"
	"github.com/dmitrijs2005/loveops/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func callWithToken(t *testing.T, method, token string) (string, error) {
	t.Helper()
	s := NewGRPCServer("", logging.NewNopLogger(), newFakeUsers(), nil, nil)

	ctx := context.Background()
	if token != "" {
		ctx = metadata.NewIncomingContext(ctx, metadata.Pairs(common.AccessTokenHeaderName, token))
	}

	var seen string
	handler := func(ctx context.Context, _ any) (any, error) {
		seen, _ = userIDFromContext(ctx)
		return "ok", nil
	}
	_, err := s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, handler)
	return seen, err
}

func TestAccessTokenInterceptor_ValidToken(t *testing.T) {
	token, err := auth.GenerateToken("u1", testSecret, time.Hour)
	require.NoError(t, err)

	for _, m := range []string{rpc.MethodPush, rpc.MethodPull, rpc.MethodPresignPhotoUpload} {
		userID, err := callWithToken(t, m, token)
		require.NoError(t, err, m)
		assert.Equal(t, "u1", userID, m)
	}
}

func TestAccessTokenInterceptor_PublicMethods(t *testing.T) {
	for _, m := range []string{rpc.MethodRegister, rpc.MethodLogin, rpc.MethodRefreshToken} {
		userID, err := callWithToken(t, m, "")
		require.NoError(t, err, m)
		assert.Empty(t, userID, m)
	}
}

func TestAccessTokenInterceptor_Rejects(t *testing.T) {
	expired, err := auth.GenerateToken("u1", testSecret, -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken("u1", []byte("other"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		msg   string
	}{
		{"missing", "", "missing token"},
		{"expired", expired, common.ErrTokenExpired.Error()},
		{"wrong secret", foreign, common.ErrInvalidToken.Error()},
		{"garbage", "not-a-jwt", common.ErrInvalidToken.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := callWithToken(t, rpc.MethodPull, tt.token)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, codes.Unauthenticated, st.Code())
			assert.Equal(t, tt.msg, st.Message())
		})
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := NewGRPCServer("", logging.NewNopLogger(), nil, nil, nil)
	info := &grpc.UnaryServerInfo{FullMethod: rpc.MethodLogin}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	_, err = s.loggingInterceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.Internal, "boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
}
