package store

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	storage_go "github.com/supabase-community/storage-go"
)

type fakeBucket struct {
	bucket, path string
	data         []byte
	opts         storage_go.FileOptions
	err          error
}

func (f *fakeBucket) UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error) {
	f.bucket, f.path = bucketId, relativePath
	f.data, _ = io.ReadAll(data)
	if len(fileOptions) > 0 {
		f.opts = fileOptions[0]
	}
	return storage_go.FileUploadResponse{}, f.err
}

func TestSupabaseObjects_Put(t *testing.T) {
	fb := &fakeBucket{}
	o := &SupabaseObjects{client: fb, bucket: DefaultBucket}

	err := o.Put(context.Background(), "user-1/1700000000000_rota.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "uploads", fb.bucket)
	assert.Equal(t, "user-1/1700000000000_rota.png", fb.path)
	assert.Equal(t, []byte("png-bytes"), fb.data)
	require.NotNil(t, fb.opts.ContentType)
	assert.Equal(t, "image/png", *fb.opts.ContentType)
}

func TestSupabaseObjects_PutError(t *testing.T) {
	o := &SupabaseObjects{client: &fakeBucket{err: errors.New("bucket not found")}, bucket: "missing"}
	err := o.Put(context.Background(), "p", nil, "image/png")
	assert.ErrorContains(t, err, "bucket not found")
}

type fakeS3 struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = input
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Objects_Put(t *testing.T) {
	fs := &fakeS3{}
	o := &S3Objects{client: fs, bucket: "shift-uploads"}

	require.NoError(t, o.Put(context.Background(), "user-1/1_a.jpg", []byte("jpeg"), "image/jpeg"))
	assert.Equal(t, "shift-uploads", aws.StringValue(fs.input.Bucket))
	assert.Equal(t, "user-1/1_a.jpg", aws.StringValue(fs.input.Key))
	assert.Equal(t, "image/jpeg", aws.StringValue(fs.input.ContentType))

	body, err := io.ReadAll(fs.input.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), body)
}

func TestNewS3Objects_Endpoint(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"aws defaults to https", S3Config{Bucket: "b", Region: "eu-west-2"}, "https://s3.eu-west-2.amazonaws.com"},
		{"custom endpoint keeps its scheme", S3Config{Bucket: "b", Region: "us-east-1", Endpoint: "https://minio.internal:9000"}, "https://minio.internal:9000"},
		{"ssl disabled for local server", S3Config{Bucket: "b", Region: "us-east-1", Endpoint: "localhost:9000", DisableSSL: true}, "http://localhost:9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewS3Objects(tt.cfg)
			require.NoError(t, err)

			svc, ok := o.client.(*s3.S3)
			require.True(t, ok)
			assert.Equal(t, tt.want, svc.Endpoint)
		})
	}
}
