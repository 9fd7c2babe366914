package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "loveops.v1.SyncService"

// Full method names, as seen by interceptors.
const (
	MethodRegister           = "/" + ServiceName + "/Register"
	MethodLogin              = "/" + ServiceName + "/Login"
	MethodRefreshToken       = "/" + ServiceName + "/RefreshToken"
	MethodPush               = "/" + ServiceName + "/Push"
	MethodPull               = "/" + ServiceName + "/Pull"
	MethodPresignPhotoUpload = "/" + ServiceName + "/PresignPhotoUpload"
)

type SyncServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	Push(context.Context, *PushRequest) (*PushResponse, error)
	Pull(context.Context, *PullRequest) (*PullResponse, error)
	PresignPhotoUpload(context.Context, *PresignPhotoUploadRequest) (*PresignPhotoUploadResponse, error)
}

// UnimplementedSyncServiceServer answers every method with codes.Unimplemented.
// Embed it to stay compatible when methods are added.
type UnimplementedSyncServiceServer struct{}

func (UnimplementedSyncServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedSyncServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedSyncServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedSyncServiceServer) Push(context.Context, *PushRequest) (*PushResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Push not implemented")
}
func (UnimplementedSyncServiceServer) Pull(context.Context, *PullRequest) (*PullResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Pull not implemented")
}
func (UnimplementedSyncServiceServer) PresignPhotoUpload(context.Context, *PresignPhotoUploadRequest) (*PresignPhotoUploadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PresignPhotoUpload not implemented")
}

func RegisterSyncServiceServer(s grpc.ServiceRegistrar, srv SyncServiceServer) {
	s.RegisterService(&SyncServiceDesc, srv)
}

// unary adapts a typed method to the grpc.MethodDesc handler shape.
func unary[Req any, Resp any](fullMethod string, call func(SyncServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SyncServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SyncServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var SyncServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SyncServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(MethodRegister, SyncServiceServer.Register)},
		{MethodName: "Login", Handler: unary(MethodLogin, SyncServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unary(MethodRefreshToken, SyncServiceServer.RefreshToken)},
		{MethodName: "Push", Handler: unary(MethodPush, SyncServiceServer.Push)},
		{MethodName: "Pull", Handler: unary(MethodPull, SyncServiceServer.Pull)},
		{MethodName: "PresignPhotoUpload", Handler: unary(MethodPresignPhotoUpload, SyncServiceServer.PresignPhotoUpload)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "loveops/v1/sync.proto",
}

type SyncServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	Push(ctx context.Context, in *PushRequest, opts ...grpc.CallOption) (*PushResponse, error)
	Pull(ctx context.Context, in *PullRequest, opts ...grpc.CallOption) (*PullResponse, error)
	PresignPhotoUpload(ctx context.Context, in *PresignPhotoUploadRequest, opts ...grpc.CallOption) (*PresignPhotoUploadResponse, error)
}

type syncServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSyncServiceClient(cc grpc.ClientConnInterface) SyncServiceClient {
	return &syncServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *syncServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *syncServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *syncServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *syncServiceClient) Push(ctx context.Context, in *PushRequest, opts ...grpc.CallOption) (*PushResponse, error) {
	return invoke[PushResponse](ctx, c.cc, MethodPush, in, opts)
}

func (c *syncServiceClient) Pull(ctx context.Context, in *PullRequest, opts ...grpc.CallOption) (*PullResponse, error) {
	return invoke[PullResponse](ctx, c.cc, MethodPull, in, opts)
}

func (c *syncServiceClient) PresignPhotoUpload(ctx context.Context, in *PresignPhotoUploadRequest, opts ...grpc.CallOption) (*PresignPhotoUploadResponse, error) {
	return invoke[PresignPhotoUploadResponse](ctx, c.cc, MethodPresignPhotoUpload, in, opts)
}
