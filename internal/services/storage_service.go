package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorageService wraps the Firebase Storage bucket used for resumes, profile
// photos and featured slides. Download URLs use the token scheme the mobile
// clients already understand.
type StorageService struct {
	gcs    *storage.Client
	bucket string
}

func NewStorageService(ctx context.Context, bucket string) (*StorageService, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return &StorageService{gcs: client, bucket: bucket}, nil
}

func (s *StorageService) Close() error {
	return s.gcs.Close()
}

// Upload writes an object and returns its tokened download URL.
func (s *StorageService) Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	token := uuid.New().String()

	w := s.gcs.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("storage upload %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("storage upload %s: %w", path, err)
	}

	return firebaseDownloadURL(s.bucket, path, token), nil
}

// Delete removes an object. Missing objects are not an error.
func (s *StorageService) Delete(ctx context.Context, path string) error {
	err := s.gcs.Bucket(s.bucket).Object(path).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	return err
}

// VerifyObject confirms a client-side upload finalized, retrying a few times
// because Firebase Storage may need a moment before the object is accessible.
func (s *StorageService) VerifyObject(ctx context.Context, path string) error {
	obj := s.gcs.Bucket(s.bucket).Object(path)

	const maxRetries = 3
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if _, err = obj.Attrs(ctx); err == nil {
			return nil
		}
		if err == storage.ErrObjectNotExist && attempt < maxRetries-1 {
			backoff := time.Duration(attempt+1) * 500 * time.Millisecond
			zap.L().Info("storage: object not found yet, retrying",
				zap.String("path", path),
				zap.Duration("backoff", backoff),
				zap.Int("attempt", attempt+1))
			time.Sleep(backoff)
			continue
		}
		break
	}
	return fmt.Errorf("object attrs %s: %w", path, err)
}

func firebaseDownloadURL(bucket, objectName, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket,
		url.PathEscape(objectName),
		url.QueryEscape(token),
	)
}

// UserDocPath builds the user-docs/{uid}/{purpose} object path convention.
func UserDocPath(uid, purpose string) string {
	return fmt.Sprintf("user-docs/%s/%s", uid, purpose)
}

// SlidePath builds the featured-slides/{timestamp}_{filename} object path.
func SlidePath(filename string, now time.Time) string {
	return fmt.Sprintf("featured-slides/%d_%s", now.UnixMilli(), filename)
}
