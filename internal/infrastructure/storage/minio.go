package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Prefix    string
}

// MinIOStore keeps backups in an S3-compatible bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
	prefix string
	logger *logrus.Logger
}

func NewMinIOStore(cfg MinIOConfig, logger *logrus.Logger) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinIOStore{client: client, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/"), logger: logger}, nil
}

func (m *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed creating bucket %s: %w", m.bucket, err)
	}
	return nil
}

func (m *MinIOStore) key(name string) string {
	return path.Join(m.prefix, path.Base(name))
}

func (m *MinIOStore) List(ctx context.Context) ([]entity.BackupFile, error) {
	out := make([]entity.BackupFile, 0)
	opts := minio.ListObjectsOptions{Prefix: m.prefix + "/", Recursive: true}
	for obj := range m.client.ListObjects(ctx, m.bucket, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := path.Base(obj.Key)
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		out = append(out, entity.BackupFile{Name: name, Size: obj.Size, ModifiedAt: obj.LastModified})
	}
	return out, nil
}

func (m *MinIOStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, apperror.NotFound("backup %s not found", name)
		}
		return nil, err
	}
	return obj, nil
}

// Save streams r with an unknown size, which minio uploads in parts.
func (m *MinIOStore) Save(ctx context.Context, name string, r io.Reader) (entity.BackupFile, error) {
	key := m.key(name)
	info, err := m.client.PutObject(ctx, m.bucket, key, r, -1, minio.PutObjectOptions{ContentType: "application/sql"})
	if err != nil {
		m.logger.WithError(err).WithFields(logrus.Fields{"object": key, "bucket": m.bucket}).Error("minio backup upload failed")
		return entity.BackupFile{}, err
	}
	m.logger.WithFields(logrus.Fields{"object": key, "size": info.Size}).Info("minio backup uploaded")
	return entity.BackupFile{Name: path.Base(key), Size: info.Size, ModifiedAt: info.LastModified}, nil
}

var _ repository.BackupStore = (*MinIOStore)(nil)
