package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrArchiveDisabled = errors.New("resume archive is not configured")

type ResumeArchiveInterface interface {
	Enabled() bool
	// Store uploads the file at path and returns its object key.
	Store(ctx context.Context, jobID uuid.UUID, filename, path string) (string, error)
	// Fetch returns the archived bytes and their content type.
	Fetch(ctx context.Context, key string) ([]byte, string, error)
}

// NopResumeArchive is used when no bucket is configured.
type NopResumeArchive struct{}

func (NopResumeArchive) Enabled() bool { return false }

func (NopResumeArchive) Store(context.Context, uuid.UUID, string, string) (string, error) {
	return "", ErrArchiveDisabled
}

func (NopResumeArchive) Fetch(context.Context, string) ([]byte, string, error) {
	return nil, "", ErrArchiveDisabled
}

type S3Options struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

type s3ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3ResumeArchive keeps original uploads in an S3 compatible bucket.
type S3ResumeArchive struct {
	client s3ObjectAPI
	bucket string
}

func NewS3ResumeArchive(ctx context.Context, opts S3Options) (*S3ResumeArchive, error) {
	if opts.Bucket == "" {
		return nil, errors.New("S3_BUCKET not set")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3ResumeArchive{client: client, bucket: opts.Bucket}, nil
}

func (a *S3ResumeArchive) Enabled() bool { return true }

func (a *S3ResumeArchive) Store(ctx context.Context, jobID uuid.UUID, filename, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("resumes/%s/%s%s", jobID, uuid.NewString(), ext)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		// Object metadata must be ASCII.
		Metadata:    map[string]string{"filename": url.PathEscape(filename)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}
	return key, nil
}

func (a *S3ResumeArchive) Fetch(ctx context.Context, key string) ([]byte, string, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, "", fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), aws.ToString(out.ContentType), nil
}
