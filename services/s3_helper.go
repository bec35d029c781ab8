package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/atmos-collective/atmos-site-backend/config"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

const defaultPresignTTL = 15 * time.Minute

// ObjectInfo is what a HEAD request reports about a stored object
type ObjectInfo struct {
	Size        int64
	ContentType string
	ETag        string
}

// ObjectStore is the storage surface the file handlers depend on
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Head(ctx context.Context, key string) (*ObjectInfo, error)
	PresignGet(ctx context.Context, key string) (string, error)
	PresignPut(ctx context.Context, key, contentType string) (string, error)
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type s3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Helper wraps an S3 client for a single bucket
type S3Helper struct {
	client     s3API
	presigner  s3Presigner
	bucket     string
	region     string
	endpoint   string
	pathStyle  bool
	presignTTL time.Duration
}

// NewS3Helper builds a helper from S3_* settings. Static credentials are used
// when S3_ACCESS_KEY_ID is set, otherwise the default AWS credential chain.
// It returns nil, nil when S3_BUCKET is empty.
func NewS3Helper(ctx context.Context, cfg map[string]string) (*S3Helper, error) {
	bucket := config.GetString(cfg, "S3_BUCKET", "")
	if bucket == "" {
		return nil, nil
	}
	region := config.GetString(cfg, "S3_REGION", config.GetString(cfg, "AWS_REGION", "eu-west-2"))
	endpoint := config.GetString(cfg, "S3_ENDPOINT", "")
	pathStyle := config.GetBool(cfg, "S3_FORCE_PATH_STYLE", false)

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if keyID := config.GetString(cfg, "S3_ACCESS_KEY_ID", ""); keyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(keyID, config.GetString(cfg, "S3_SECRET_ACCESS_KEY", ""), ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	})

	return &S3Helper{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     bucket,
		region:     region,
		endpoint:   strings.TrimRight(endpoint, "/"),
		pathStyle:  pathStyle,
		presignTTL: time.Duration(config.GetInt(cfg, "S3_PRESIGN_MINUTES", int(defaultPresignTTL/time.Minute))) * time.Minute,
	}, nil
}

func (h *S3Helper) Bucket() string { return h.bucket }

func (h *S3Helper) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(h.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := h.client.PutObject(ctx, input); err != nil {
		return errs.NewStorageError("put", key, err)
	}
	return nil
}

// Delete removes an object. S3 treats deleting a missing key as success.
func (h *S3Helper) Delete(ctx context.Context, key string) error {
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.NewStorageError("delete", key, err)
	}
	return nil
}

func (h *S3Helper) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	out, err := h.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errs.NewObjectMissingError(key)
		}
		return nil, errs.NewStorageError("head", key, err)
	}

	info := &ObjectInfo{
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ETag:        strings.Trim(aws.ToString(out.ETag), `"`),
	}
	return info, nil
}

func (h *S3Helper) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := h.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(h.presignTTL))
	if err != nil {
		return "", errs.NewStorageError("presign get", key, err)
	}
	return req.URL, nil
}

func (h *S3Helper) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, err := h.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(h.presignTTL))
	if err != nil {
		return "", errs.NewStorageError("presign put", key, err)
	}
	return req.URL, nil
}

// PublicURL is the unsigned URL of key, used when no CDN base is configured.
func (h *S3Helper) PublicURL(key string) string {
	key = strings.TrimLeft(key, "/")
	switch {
	case h.endpoint != "" && h.pathStyle:
		return fmt.Sprintf("%s/%s/%s", h.endpoint, h.bucket, key)
	case h.endpoint != "":
		scheme, host, ok := strings.Cut(h.endpoint, "://")
		if !ok {
			return fmt.Sprintf("https://%s.%s/%s", h.bucket, h.endpoint, key)
		}
		return fmt.Sprintf("%s://%s.%s/%s", scheme, h.bucket, host, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", h.bucket, h.region, key)
	}
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "404":
			return true
		}
	}
	return false
}

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// SanitizeFilename lower-cases name and keeps only characters safe in an
// object key. An empty result becomes "file".
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.ToLower(strings.TrimSpace(name))
	name = unsafeKeyChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" || name == "/" {
		return "file"
	}
	if len(name) > 100 {
		ext := path.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = strings.TrimRight(name[:100-len(ext)], "-.") + ext
	}
	return name
}

// ObjectKey returns uploads/<yyyy>/<mm>/<uuid>-<sanitised name>.
func ObjectKey(now time.Time, filename string) string {
	now = now.UTC()
	return fmt.Sprintf("uploads/%04d/%02d/%s-%s", now.Year(), int(now.Month()), uuid.NewString(), SanitizeFilename(filename))
}
