package store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	storage_go "github.com/supabase-community/storage-go"
)

// DefaultBucket is the bucket screenshots are written to.
const DefaultBucket = "uploads"

type bucketUploader interface {
	UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
}

// SupabaseObjects stores images in a Supabase Storage bucket.
type SupabaseObjects struct {
	client bucketUploader
	bucket string
}

func NewSupabaseObjects(client *storage_go.Client, bucket string) *SupabaseObjects {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &SupabaseObjects{client: client, bucket: bucket}
}

func (o *SupabaseObjects) Put(ctx context.Context, path string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	upsert := false
	_, err := o.client.UploadFile(o.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", path, o.bucket, err)
	}
	return nil
}

// S3Config describes an S3 (or S3 compatible) bucket.
type S3Config struct {
	Bucket     string `yaml:"bucket"`
	Region     string `yaml:"region"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	DisableSSL bool   `yaml:"disable_ssl"` // plain HTTP, for local S3 compatible servers only
}

type objectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// S3Objects stores images in S3.
type S3Objects struct {
	client objectPutter
	bucket string
}

func NewS3Objects(cfg S3Config) (*S3Objects, error) {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		DisableSSL:       aws.Bool(cfg.DisableSSL),
		S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	return &S3Objects{client: s3.New(sess), bucket: cfg.Bucket}, nil
}

func (o *S3Objects) Put(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := o.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3 object %s: %w", path, err)
	}
	return nil
}
