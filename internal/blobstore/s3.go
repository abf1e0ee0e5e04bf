package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/teamawesome/wikistore/internal/common"
)

// S3Store implements Store on top of any S3-compatible backend (AWS S3,
// MinIO). Every call is bounded by opTimeout so a wedged store surfaces as
// common.ErrorStorage instead of hanging the request.
type S3Store struct {
	client    *s3.Client
	opTimeout time.Duration
}

// S3Options carries the settings needed to build an S3 client.
type S3Options struct {
	AccessKey    string
	SecretKey    string
	Region       string
	BaseEndpoint string
	OpTimeout    time.Duration
}

// NewS3Store builds an S3-backed Store. BaseEndpoint may point at a MinIO
// instance; path-style addressing is used so bucket names do not have to be
// DNS hosts.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	timeout := opts.OpTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &S3Store{client: client, opTimeout: timeout}, nil
}

func (s *S3Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *S3Store) Exists(ctx context.Context, bucket, name string) (bool, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: head %s/%s: %v", common.ErrorStorage, bucket, name, err)
	}
	return true, nil
}

func (s *S3Store) Get(ctx context.Context, bucket, name string) ([]byte, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: get %s/%s: %v", common.ErrorStorage, bucket, name, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s/%s: %v", common.ErrorStorage, bucket, name, err)
	}
	return data, nil
}

func (s *S3Store) Put(ctx context.Context, bucket, name string, data []byte, contentType string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("%w: put %s/%s: %v", common.ErrorStorage, bucket, name, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, bucket, name string) error {
	// S3 DeleteObject succeeds on missing keys, so the existence check has
	// to be explicit to honor the Store contract.
	exists, err := s.Exists(ctx, bucket, name)
	if err != nil {
		return err
	}
	if !exists {
		return common.ErrorNotFound
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", common.ErrorStorage, bucket, name, err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context, bucket string) ([]string, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var names []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %v", common.ErrorStorage, bucket, err)
		}
		for _, obj := range page.Contents {
			names = append(names, aws.ToString(obj.Key))
		}
	}
	return names, nil
}

func (s *S3Store) Copy(ctx context.Context, bucket, srcName, dstName string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		CopySource: aws.String(bucket + "/" + srcName),
		Key:        aws.String(dstName),
	})
	if err != nil {
		if isNotFound(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: copy %s/%s -> %s: %v", common.ErrorStorage, bucket, srcName, dstName, err)
	}
	return nil
}

// isNotFound covers the two shapes the SDK uses for missing keys: GetObject
// returns *types.NoSuchKey, HeadObject returns *types.NotFound.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	return errors.As(err, &notFound)
}
