package blob

import (
	"context"
	"fmt"
	"io"

	appcfg "mailchat/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3 把附件写入 S3 兼容存储（MinIO 等），静态凭据 + 自定义 endpoint。
type S3 struct {
	client *s3.Client
	bucket string
	max    int64
}

func NewS3(ctx context.Context, cfg appcfg.Config, maxBytes int64) (*S3, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3User, cfg.S3Password, "",
		)))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})
	return &S3{client: client, bucket: cfg.S3Bucket, max: maxBytes}, nil
}

func (s *S3) Put(ctx context.Context, family, filename string, size int64, r io.Reader) (string, error) {
	if size > s.max {
		return "", ErrTooLarge
	}
	key := fmt.Sprintf("%s/%s_%s", family, uuid.NewString(), filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          newCapReader(r, s.max),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}
