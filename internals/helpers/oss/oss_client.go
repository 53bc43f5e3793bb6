// Package oss: upload workbook ke Aliyun OSS (backup snapshot harian).
package oss

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"attendance_backend/internals/configs"
)

// Uploader menyimpan satu objek; dipakai scheduler snapshot.
type Uploader interface {
	Put(ctx context.Context, key string, body []byte) error
}

type BucketUploader struct {
	bucket *oss.Bucket
	prefix string
}

func normalizeEndpoint(ep string) string {
	ep = strings.TrimSpace(ep)
	if ep == "" {
		return ep
	}
	if strings.HasPrefix(ep, "http://") || strings.HasPrefix(ep, "https://") {
		return ep
	}
	return "https://" + ep
}

// NewBucketUploader: nil, nil kalau ALI_OSS_* tidak lengkap (backup dimatikan).
func NewBucketUploader(cfg configs.SnapshotConfig) (*BucketUploader, error) {
	if !cfg.OSSEnabled() {
		return nil, nil
	}
	cli, err := oss.New(normalizeEndpoint(cfg.Endpoint), cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss init: %w", err)
	}
	b, err := cli.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("oss bucket %q: %w", cfg.Bucket, err)
	}
	return &BucketUploader{bucket: b, prefix: cfg.Prefix}, nil
}

// ObjectKey: prefix + key tanpa slash ganda.
func ObjectKey(prefix, key string) string {
	return strings.TrimPrefix(path.Join(prefix, key), "/")
}

func (u *BucketUploader) Put(ctx context.Context, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	objectKey := ObjectKey(u.prefix, key)
	if err := u.bucket.PutObject(objectKey, bytes.NewReader(body),
		oss.ContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"),
	); err != nil {
		return fmt.Errorf("oss put %s: %w", objectKey, err)
	}
	return nil
}
