package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryS3 struct {
	objects map[string][]byte
	types   map[string]string
	headErr error
}

func newMemoryS3() *memoryS3 {
	return &memoryS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[aws.ToString(in.Key)] = data
	m.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *memoryS3) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, m.headErr
}

func TestS3Store_PutGet(t *testing.T) {
	client := newMemoryS3()
	store, err := NewS3Store(client, S3Config{Bucket: "camp-waivers", Prefix: "/waivers/"})
	require.NoError(t, err)

	key := store.Key("7b0c")
	assert.Equal(t, "waivers/7b0c.pdf", key)

	require.NoError(t, store.Put(context.Background(), key, []byte("%PDF-1.7"), "application/pdf"))
	assert.Equal(t, "application/pdf", client.types[key])

	data, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), data)
}

func TestS3Store_GetMissing(t *testing.T) {
	store, err := NewS3Store(newMemoryS3(), S3Config{Bucket: "camp-waivers"})
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nope.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(newMemoryS3(), S3Config{})
	assert.Error(t, err)
}

func TestS3Store_Ping(t *testing.T) {
	client := newMemoryS3()
	store, err := NewS3Store(client, S3Config{Bucket: "camp-waivers"})
	require.NoError(t, err)

	assert.NoError(t, store.Ping(context.Background()))

	client.headErr = errors.New("forbidden")
	assert.Error(t, store.Ping(context.Background()))
}
