package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/dmitrijs2005/loveops/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// toStatus maps service errors onto the codes clients understand.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorInvalidLoginFormat),
		errors.Is(err, common.ErrorInvalidPasswordFormat),
		errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "user already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) currentUser(ctx context.Context) (string, error) {
	id, ok := userIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return id, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {
	u, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "Registered", "username", req.Username, "user_id", u.ID)
	return &rpc.RegisterResponse{UserID: u.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	u, tokens, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.LoginResponse{UserID: u.ID, AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.RefreshTokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) Push(ctx context.Context, req *rpc.PushRequest) (*rpc.PushResponse, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	at, err := s.docs.Push(ctx, userID, req.Data)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PushResponse{UpdatedAt: at.UTC().Format(timestampLayout)}, nil
}

func (s *GRPCServer) Pull(ctx context.Context, _ *rpc.PullRequest) (*rpc.PullResponse, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.docs.Pull(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PullResponse{Data: json.RawMessage(d.Data), UpdatedAt: d.UpdatedAt.UTC().Format(timestampLayout)}, nil
}

func (s *GRPCServer) PresignPhotoUpload(ctx context.Context, req *rpc.PresignPhotoUploadRequest) (*rpc.PresignPhotoUploadResponse, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	up, err := s.photos.PresignUpload(ctx, userID, req.Ext)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PresignPhotoUploadResponse{Key: up.Key, UploadURL: up.UploadURL, PublicURL: up.PublicURL}, nil
}
