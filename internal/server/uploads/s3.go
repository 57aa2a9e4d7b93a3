package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/lightbox/internal/server/config"
	"github.com/dmitrijs2005/lightbox/internal/server/models"
)

const keyPrefix = "uploads/"

// objectAPI is the part of *s3.Client the gateway needs.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Gateway stores assets in an S3-compatible bucket (MinIO in development).
type S3Gateway struct {
	client    objectAPI
	bucket    string
	publicURL string
}

func NewS3Gateway(ctx context.Context, cfg *config.Config) (*S3Gateway, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3Gateway(client, cfg.S3Bucket, cfg.S3PublicURL), nil
}

func newS3Gateway(client objectAPI, bucket, publicURL string) *S3Gateway {
	return &S3Gateway{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func (g *S3Gateway) Store(ctx context.Context, r io.Reader, filename string) (string, models.MediaType, error) {
	kind, ext, err := Classify(filename)
	if err != nil {
		return "", "", err
	}

	// The SDK signs the payload, which needs a seekable body.
	body, ok := r.(io.ReadSeeker)
	if !ok {
		buf, err := io.ReadAll(r)
		if err != nil {
			return "", "", fmt.Errorf("read upload: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	key := keyPrefix + storedName(ext)
	in := &s3.PutObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := g.client.PutObject(ctx, in); err != nil {
		return "", "", fmt.Errorf("put object %s: %w", key, err)
	}

	return g.publicURL + "/" + key, kind, nil
}

// Delete removes the object behind url. URLs outside the bucket are ignored.
func (g *S3Gateway) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, g.publicURL+"/")
	if !ok || key == "" {
		return nil
	}

	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
