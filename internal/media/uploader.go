package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"

	"github.com/bilgisen/visacms/internal/config"
	"github.com/bilgisen/visacms/internal/utils"
)

// ErrNotImage is returned for uploads whose content is not an image
var ErrNotImage = errors.New("file is not an image")

// Uploader stores image bytes and returns the URL they are served from
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Uploader writes objects to a Cloudflare R2 bucket through the S3 API
type R2Uploader struct {
	client    objectPutter
	bucket    string
	publicURL string
}

// NewR2Uploader builds an uploader from the R2 settings in cfg
func NewR2Uploader(ctx context.Context, cfg *config.Config) (*R2Uploader, error) {
	if !cfg.UploadsEnabled() {
		return nil, errors.New("R2 is not configured")
	}

	endpoint := cfg.R2Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.R2AccessKey,
			cfg.R2SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	publicURL := cfg.R2PublicURL
	if publicURL == "" {
		publicURL = endpoint + "/" + cfg.R2Bucket
	}

	return newR2Uploader(client, cfg.R2Bucket, publicURL), nil
}

func newR2Uploader(client objectPutter, bucket, publicURL string) *R2Uploader {
	return &R2Uploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Upload stores data under a content-addressed key. Identical images map to
// the same object.
func (u *R2Uploader) Upload(ctx context.Context, data []byte) (string, error) {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mime.String())
	}

	key := ObjectKey(data, mime.Extension())

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mime.String()),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}

	return u.publicURL + "/" + key, nil
}

// ObjectKey names the object holding data
func ObjectKey(data []byte, ext string) string {
	return "uploads/" + utils.ShortHash(data, 16) + ext
}
