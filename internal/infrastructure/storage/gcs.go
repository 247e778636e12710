package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

// GCSObjects writes objects into one bucket.
type GCSObjects struct {
	client *storage.Client
	bucket string
}

func NewGCSObjects(client *storage.Client, bucket string) *GCSObjects {
	return &GCSObjects{client: client, bucket: bucket}
}

// Upload stores r at objectPath and returns its public URL.
func (g *GCSObjects) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if err := g.write(ctx, objectPath, contentType, r); err != nil {
		return "", err
	}
	return PublicURL(g.bucket, objectPath), nil
}

func (g *GCSObjects) write(ctx context.Context, objectPath, contentType string, r io.Reader) error {
	wc := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

// GCSStore keeps backups under a prefix of a GCS bucket.
type GCSStore struct {
	objects *GCSObjects
	prefix  string
	logger  *logrus.Logger
}

func NewGCSStore(objects *GCSObjects, prefix string, logger *logrus.Logger) *GCSStore {
	return &GCSStore{objects: objects, prefix: strings.Trim(prefix, "/"), logger: logger}
}

func (s *GCSStore) key(name string) string {
	return path.Join(s.prefix, path.Base(name))
}

func (s *GCSStore) List(ctx context.Context) ([]entity.BackupFile, error) {
	q := &storage.Query{Prefix: s.prefix + "/"}
	it := s.objects.client.Bucket(s.objects.bucket).Objects(ctx, q)
	out := make([]entity.BackupFile, 0)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		name := path.Base(attrs.Name)
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		out = append(out, entity.BackupFile{Name: name, Size: attrs.Size, ModifiedAt: attrs.Updated})
	}
	return out, nil
}

func (s *GCSStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := s.objects.client.Bucket(s.objects.bucket).Object(s.key(name)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, apperror.NotFound("backup %s not found", name)
	}
	return rc, err
}

func (s *GCSStore) Save(ctx context.Context, name string, r io.Reader) (entity.BackupFile, error) {
	key := s.key(name)
	if err := s.objects.write(ctx, key, "application/sql", r); err != nil {
		s.logger.WithError(err).WithField("object", key).Error("gcs backup upload failed")
		return entity.BackupFile{}, err
	}
	attrs, err := s.objects.client.Bucket(s.objects.bucket).Object(key).Attrs(ctx)
	if err != nil {
		return entity.BackupFile{}, err
	}
	return entity.BackupFile{Name: path.Base(key), Size: attrs.Size, ModifiedAt: attrs.Updated}, nil
}

var _ repository.BackupStore = (*GCSStore)(nil)
