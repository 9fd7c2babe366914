package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/dmitrijs2005/loveops/internal/server/config"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

var photoExts = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// PhotoUpload is where the client PUTs the photo and the URL it is then
// served from.
type PhotoUpload struct {
	Key       string
	UploadURL string
	PublicURL string
}

// PhotoService presigns uploads into the photo bucket.
type PhotoService struct {
	config *config.Config
}

func NewPhotoService(cfg *config.Config) *PhotoService {
	return &PhotoService{config: cfg}
}

// PhotoKey is the object key for a new photo of userID.
func PhotoKey(userID, ext string) string {
	return fmt.Sprintf("%s/%s.%s", userID, uuid.NewString(), ext)
}

func (s *PhotoService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PublicURL is the address a stored object is served from.
func (s *PhotoService) PublicURL(key string) string {
	return strings.TrimRight(s.config.S3PublicBaseURL, "/") + "/" + s.config.S3Bucket + "/" + key
}

// PresignUpload returns a presigned PUT for a new photo of userID. An
// extension outside jpg, jpeg, png, gif and webp is a validation error.
func (s *PhotoService) PresignUpload(ctx context.Context, userID, ext string) (*PhotoUpload, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if !photoExts[ext] {
		return nil, fmt.Errorf("%w: unsupported photo type %q", common.ErrorValidation, ext)
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := PhotoKey(userID, ext)

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, err
	}

	return &PhotoUpload{Key: key, UploadURL: req.URL, PublicURL: s.PublicURL(key)}, nil
}
