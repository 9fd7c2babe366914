package rpc

import "encoding/json"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"userId"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// PushRequest carries the complete backup document of the caller.
type PushRequest struct {
	Data json.RawMessage `json:"data"`
}

type PushResponse struct {
	UpdatedAt string `json:"updatedAt"`
}

type PullRequest struct{}

// PullResponse is only sent when a document exists; otherwise the call
// fails with codes.NotFound.
type PullResponse struct {
	Data      json.RawMessage `json:"data"`
	UpdatedAt string          `json:"updatedAt"`
}

type PresignPhotoUploadRequest struct {
	Ext string `json:"ext"`
}

type PresignPhotoUploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}
