package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Ranjith01111/aether-system/internal/common/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DataLakeClient 数据湖客户端（S3 对象存储）
// 封装遥测批次对象的 put/get/head 操作
// AWS 凭证由 SDK 默认凭证链解析，不在代码中配置
type DataLakeClient struct {
	client *s3.Client
	bucket string
}

// NewDataLakeClient 创建数据湖客户端
func NewDataLakeClient(ctx context.Context, cfg *config.S3Config) (*DataLakeClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			// 自定义 endpoint（MinIO / localstack），强制 path-style
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &DataLakeClient{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// PutObject 上传对象
func (c *DataLakeClient) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return nil
}

// GetObject 下载对象，返回内容和 ETag
func (c *DataLakeClient) GetObject(ctx context.Context, key string) ([]byte, string, error) {
	resp, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read object %s: %w", key, err)
	}

	return body, normalizeETag(resp.ETag), nil
}

// HeadObject 查询对象 ETag（不下载内容，轮询时做变更检测）
func (c *DataLakeClient) HeadObject(ctx context.Context, key string) (string, error) {
	resp, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to head object %s: %w", key, err)
	}

	return normalizeETag(resp.ETag), nil
}

// normalizeETag 去掉 S3 返回的 ETag 两侧引号
func normalizeETag(etag *string) string {
	if etag == nil {
		return ""
	}
	return strings.Trim(*etag, `"`)
}
