package services

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyPattern = regexp.MustCompile(`^u1/[0-9a-f-]{36}\.png$`)

func TestPhotoKey(t *testing.T) {
	assert.Regexp(t, keyPattern, PhotoKey("u1", "png"))
	assert.NotEqual(t, PhotoKey("u1", "png"), PhotoKey("u1", "png"))
}

func TestPublicURL(t *testing.T) {
	s := NewPhotoService(testConfig())
	assert.Equal(t, "http://cdn.local/love_ops_photos/u1/a.png", s.PublicURL("u1/a.png"))
}

func TestPresignUpload_RealSigner(t *testing.T) {
	s := NewPhotoService(testConfig())

	up, err := s.PresignUpload(context.Background(), "u1", ".PNG")
	require.NoError(t, err)
	assert.Regexp(t, keyPattern, up.Key)
	assert.Equal(t, s.PublicURL(up.Key), up.PublicURL)

	u, err := url.Parse(up.UploadURL)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/"+common.PhotoBucket+"/"+up.Key, u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.True(t, strings.HasPrefix(u.Query().Get("X-Amz-Credential"), "minioadmin/"))
}

func TestPresignUpload_RejectsUnknownExtension(t *testing.T) {
	s := NewPhotoService(testConfig())

	for _, ext := range []string{"", "exe", "svg"} {
		_, err := s.PresignUpload(context.Background(), "u1", ext)
		require.ErrorIs(t, err, common.ErrorValidation)
	}
}

func stubPresign(t *testing.T) {
	t.Helper()
	origLoad, origNew, origPre, origPut := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, presignPutObject = origLoad, origNew, origPre, origPut
	})
}

func TestPresignUpload_AppliesConfig(t *testing.T) {
	stubPresign(t)
	s := NewPhotoService(testConfig())

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }

	var gotBucket, gotKey string
	var po s3.PresignOptions
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket, gotKey = *in.Bucket, *in.Key
		for _, fn := range optFns {
			fn(&po)
		}
		return &v4.PresignedHTTPRequest{URL: "https://signed"}, nil
	}

	up, err := s.PresignUpload(context.Background(), "u1", "png")
	require.NoError(t, err)
	assert.Equal(t, "https://signed", up.UploadURL)
	assert.Equal(t, common.PhotoBucket, gotBucket)
	assert.Equal(t, up.Key, gotKey)
	assert.Equal(t, presignExpiry, po.Expires)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestPresignUpload_Errors(t *testing.T) {
	t.Run("config load", func(t *testing.T) {
		stubPresign(t)
		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errBoom
		}
		_, err := NewPhotoService(testConfig()).PresignUpload(context.Background(), "u1", "jpg")
		require.ErrorIs(t, err, errBoom)
	})

	t.Run("presign", func(t *testing.T) {
		stubPresign(t)
		presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			return nil, errBoom
		}
		_, err := NewPhotoService(testConfig()).PresignUpload(context.Background(), "u1", "jpg")
		require.ErrorIs(t, err, errBoom)
	})
}
