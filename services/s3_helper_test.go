package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	puts    map[string]string
	deleted []string
	headErr error
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.puts[aws.ToString(in.Key)] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	body, ok := f.puts[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("image/png"),
		ETag:          aws.String(`"abc"`),
	}, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/get/" + aws.ToString(in.Key), Method: "GET"}, nil
}

func (fakePresigner) PresignPutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/put/" + aws.ToString(in.Key), Method: "PUT"}, nil
}

func newTestHelper(client *fakeS3) *S3Helper {
	return &S3Helper{
		client:     client,
		presigner:  fakePresigner{},
		bucket:     "atmos-media",
		region:     "eu-west-2",
		presignTTL: time.Minute,
	}
}

func TestS3HelperPutHeadDelete(t *testing.T) {
	ctx := context.Background()
	client := &fakeS3{puts: map[string]string{}}
	h := newTestHelper(client)

	require.NoError(t, h.Put(ctx, "uploads/a.png", strings.NewReader("png"), 3, "image/png"))
	assert.Equal(t, "png", client.puts["uploads/a.png"])

	info, err := h.Head(ctx, "uploads/a.png")
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size)
	assert.Equal(t, "abc", info.ETag)

	require.NoError(t, h.Delete(ctx, "uploads/a.png"))
	assert.Equal(t, []string{"uploads/a.png"}, client.deleted)
}

func TestS3HelperHeadMissing(t *testing.T) {
	h := newTestHelper(&fakeS3{puts: map[string]string{}})
	_, err := h.Head(context.Background(), "nope")
	assert.True(t, errs.IsObjectMissing(err))

	h = newTestHelper(&fakeS3{puts: map[string]string{}, headErr: &smithy.GenericAPIError{Code: "NotFound"}})
	_, err = h.Head(context.Background(), "nope")
	assert.True(t, errs.IsObjectMissing(err))

	h = newTestHelper(&fakeS3{puts: map[string]string{}, headErr: errors.New("connection reset")})
	_, err = h.Head(context.Background(), "nope")
	assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
}

func TestS3HelperPutError(t *testing.T) {
	h := newTestHelper(&fakeS3{puts: map[string]string{}, putErr: errors.New("denied")})
	err := h.Put(context.Background(), "k", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
	assert.Equal(t, 502, errs.StatusOf(err))
}

func TestS3HelperPresign(t *testing.T) {
	h := newTestHelper(&fakeS3{puts: map[string]string{}})
	get, err := h.PresignGet(context.Background(), "uploads/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/get/uploads/a.png", get)

	put, err := h.PresignPut(context.Background(), "uploads/b.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/put/uploads/b.png", put)
}

func TestPublicURL(t *testing.T) {
	h := newTestHelper(nil)
	assert.Equal(t, "https://atmos-media.s3.eu-west-2.amazonaws.com/uploads/a.png", h.PublicURL("/uploads/a.png"))

	h.endpoint = "http://localhost:9000"
	h.pathStyle = true
	assert.Equal(t, "http://localhost:9000/atmos-media/uploads/a.png", h.PublicURL("uploads/a.png"))

	h.pathStyle = false
	assert.Equal(t, "http://atmos-media.localhost:9000/uploads/a.png", h.PublicURL("uploads/a.png"))
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), "My Poster (final).PNG")
	assert.True(t, strings.HasPrefix(key, "uploads/2024/03/"), key)
	assert.True(t, strings.HasSuffix(key, "-my-poster-final-.png"), key)
	assert.Len(t, strings.TrimPrefix(key, "uploads/2024/03/"), 36+1+len("my-poster-final-.png"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "flyer.jpg", SanitizeFilename("../../etc/Flyer.jpg"))
	assert.Equal(t, "photo.jpg", SanitizeFilename(`C:\Users\dj\photo.jpg`))
	assert.Equal(t, "file", SanitizeFilename("..."))
	assert.Equal(t, "file", SanitizeFilename(""))
	assert.LessOrEqual(t, len(SanitizeFilename(strings.Repeat("a", 300)+".wav")), 100)
	assert.True(t, strings.HasSuffix(SanitizeFilename(strings.Repeat("a", 300)+".wav"), ".wav"))
}
