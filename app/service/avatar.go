package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/vibast-solutions/ms-go-contacts/config"
)

// AvatarUploader stores an avatar image and returns its public URL.
// Upload failures propagate to the caller.
type AvatarUploader interface {
	Upload(ctx context.Context, file io.Reader, identifier string) (url string, err error)
}

// S3AvatarUploader writes avatars to an S3-compatible bucket (MinIO works
// through BaseEndpoint).
type S3AvatarUploader struct {
	cfg config.S3Config
}

func NewS3AvatarUploader(cfg config.S3Config) *S3AvatarUploader {
	return &S3AvatarUploader{cfg: cfg}
}

func (u *S3AvatarUploader) Upload(ctx context.Context, file io.Reader, identifier string) (string, error) {
	client, err := u.newClient(ctx)
	if err != nil {
		return "", err
	}

	key := AvatarStorageKey(identifier)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return "", err
	}

	base := u.cfg.PublicURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", u.cfg.Bucket, u.cfg.Region)
	}
	// The version query busts client caches after each overwrite.
	return fmt.Sprintf("%s/%s?version=%s", strings.TrimRight(base, "/"), key, uuid.New()), nil
}

func (u *S3AvatarUploader) newClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(u.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.cfg.AccessKey,
			u.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if u.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(u.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// AvatarStorageKey derives a stable object key from the owner's email so
// each upload overwrites the previous avatar.
func AvatarStorageKey(email string) string {
	sum := md5.Sum([]byte(NormalizeEmail(email)))
	return "avatars/" + hex.EncodeToString(sum[:])
}
