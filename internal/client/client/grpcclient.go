package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/dmitrijs2005/loveops/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const pingTimeout = 3 * time.Second

const protoSubtype = "proto"

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.SyncServiceClient
	health      healthpb.HealthClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	onRefresh    func(Tokens)
}

// NewGRPCClient prepares a lazy connection to endpointURL. No network I/O
// happens until the first call. Extra dial options are appended, which
// tests use to dial an in-memory listener.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
		rpc.CallOptions(),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewSyncServiceClient(conn)
	c.health = healthpb.NewHealthClient(conn)
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) tokens() Tokens {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Tokens{AccessToken: c.accessToken, RefreshToken: c.refreshToken}
}

func (c *GRPCClient) SetTokens(t Tokens) {
	c.mu.Lock()
	c.accessToken = t.AccessToken
	c.refreshToken = t.RefreshToken
	c.mu.Unlock()
}

// OnTokensRefreshed registers fn to receive tokens obtained by a transparent
// refresh, so they can be persisted.
func (c *GRPCClient) OnTokensRefreshed(fn func(Tokens)) {
	c.mu.Lock()
	c.onRefresh = fn
	c.mu.Unlock()
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if method == rpc.MethodRefreshToken {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	t := c.tokens()
	err := invoker(withAccessToken(ctx, t.AccessToken), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if t.RefreshToken == "" {
		return err
	}

	resp, rerr := c.client.RefreshToken(ctx, &rpc.RefreshTokenRequest{RefreshToken: t.RefreshToken})
	if rerr != nil {
		return rerr
	}

	fresh := Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	c.SetTokens(fresh)
	c.mu.RLock()
	notify := c.onRefresh
	c.mu.RUnlock()
	if notify != nil {
		notify(fresh)
	}

	return invoker(withAccessToken(ctx, fresh.AccessToken), method, req, reply, cc, opts...)
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// Ping asks the standard health service whether the server is serving.
func (c *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	// the health service speaks protobuf, not the SyncService JSON codec
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{}, grpc.CallContentSubtype(protoSubtype))
	if err != nil {
		return c.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) Register(ctx context.Context, username, password string) (string, error) {
	resp, err := c.client.Register(ctx, &rpc.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return "", c.mapError(err)
	}
	return resp.UserID, nil
}

func (c *GRPCClient) Login(ctx context.Context, username, password string) (LoginResult, error) {
	resp, err := c.client.Login(ctx, &rpc.LoginRequest{Username: username, Password: password})
	if err != nil {
		return LoginResult{}, c.mapError(err)
	}

	t := Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	c.SetTokens(t)
	return LoginResult{UserID: resp.UserID, Tokens: t}, nil
}

func (c *GRPCClient) Push(ctx context.Context, doc []byte) (string, error) {
	resp, err := c.client.Push(ctx, &rpc.PushRequest{Data: doc})
	if err != nil {
		return "", c.mapError(err)
	}
	return resp.UpdatedAt, nil
}

func (c *GRPCClient) Pull(ctx context.Context) ([]byte, error) {
	resp, err := c.client.Pull(ctx, &rpc.PullRequest{})
	if err != nil {
		mapped := c.mapError(err)
		if errors.Is(mapped, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, mapped
	}
	return resp.Data, nil
}

func (c *GRPCClient) PresignPhotoUpload(ctx context.Context, ext string) (PhotoUpload, error) {
	resp, err := c.client.PresignPhotoUpload(ctx, &rpc.PresignPhotoUploadRequest{Ext: ext})
	if err != nil {
		return PhotoUpload{}, c.mapError(err)
	}
	return PhotoUpload{Key: resp.Key, UploadURL: resp.UploadURL, PublicURL: resp.PublicURL}, nil
}

func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.AlreadyExists:
		return common.ErrorAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
