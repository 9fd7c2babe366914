package client

import "context"

// Tokens is an access/refresh token pair issued by the server.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult identifies the authenticated account.
type LoginResult struct {
	UserID string
	Tokens Tokens
}

// PhotoUpload is a presigned upload slot for one photo.
type PhotoUpload struct {
	Key       string
	UploadURL string
	PublicURL string
}

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (LoginResult, error)
	SetTokens(t Tokens)
	OnTokensRefreshed(fn func(Tokens))

	// Push stores the whole document and returns the server's update time.
	Push(ctx context.Context, doc []byte) (string, error)
	// Pull returns the stored document, or (nil, nil) if there is none.
	Pull(ctx context.Context) ([]byte, error)

	PresignPhotoUpload(ctx context.Context, ext string) (PhotoUpload, error)
}
