package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrObjectNotFound is returned by Get when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// maxObjectSize bounds Get so a stray large object cannot exhaust memory.
const maxObjectSize = 32 << 20

// Bucket reads and writes whole objects in one MinIO bucket.
type Bucket struct {
	client *minio.Client
	name   string
}

// OpenBucket connects to MinIO and creates the bucket when it is missing.
func OpenBucket(ctx context.Context, cfg *MinIOConfig) (*Bucket, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	b := &Bucket{client: mc, name: cfg.Bucket}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := mc.BucketExists(ctx, b.name)
	if err != nil {
		return nil, fmt.Errorf("minio bucket %s: %w", b.name, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, b.name, minio.MakeBucketOptions{}); err != nil {
			// lost a race with another instance creating it
			if ok, xerr := mc.BucketExists(ctx, b.name); xerr != nil || !ok {
				return nil, fmt.Errorf("minio make bucket %s: %w", b.name, err)
			}
		}
	}
	return b, nil
}

// Name returns the bucket name.
func (b *Bucket) Name() string { return b.name }

// Put replaces the object at key. A PUT is atomic for readers: they see
// either the previous or the new content.
func (b *Bucket) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := b.client.PutObject(ctx, b.name, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio put %s/%s: %w", b.name, key, err)
	}
	return nil
}

// Get returns the full content of the object at key, or ErrObjectNotFound.
func (b *Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.name, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio get %s/%s: %w", b.name, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, maxObjectSize+1))
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("minio get %s/%s: %w", b.name, key, err)
	}
	if len(data) > maxObjectSize {
		return nil, fmt.Errorf("minio get %s/%s: object larger than %d bytes", b.name, key, maxObjectSize)
	}
	return data, nil
}
