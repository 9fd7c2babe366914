// Package grpc exposes the sync server over gRPC: the SyncService handlers,
// the access token and logging interceptors, and the standard health
// service.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/loveops/internal/logging"
	"github.com/dmitrijs2005/loveops/internal/rpc"
	"github.com/dmitrijs2005/loveops/internal/server/models"
	"github.com/dmitrijs2005/loveops/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Users is the account side of the server.
type Users interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	UserIDFromAccessToken(token string) (string, error)
}

// Documents stores the per-user sync document.
type Documents interface {
	Push(ctx context.Context, userID string, data []byte) (time.Time, error)
	Pull(ctx context.Context, userID string) (*models.UserData, error)
}

// Photos presigns photo uploads.
type Photos interface {
	PresignUpload(ctx context.Context, userID, ext string) (*services.PhotoUpload, error)
}

type GRPCServer struct {
	rpc.UnimplementedSyncServiceServer
	address string
	users   Users
	docs    Documents
	photos  Photos
	logger  logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, users Users, docs Documents, photos Photos) *GRPCServer {
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		users:   users,
		docs:    docs,
		photos:  photos,
	}
}

// newServer builds a grpc.Server with SyncService and the health service
// registered.
func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	rpc.RegisterSyncServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv, hs
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then drains them.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv, hs := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
