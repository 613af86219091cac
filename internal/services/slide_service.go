package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
)

var ErrSlideNotFound = errors.New("slide not found")

// SlideService manages the featured carousel. Slide images live in storage
// under featured-slides/; the Firestore document carries the download URL and
// the storage path so deletion can clean both.
type SlideService struct {
	client  *firestore.Client
	storage *StorageService
}

func NewSlideService(client *firestore.Client, storage *StorageService) *SlideService {
	return &SlideService{client: client, storage: storage}
}

func (s *SlideService) ref(id string) *firestore.DocumentRef {
	return s.client.Collection(colFeaturedSlides).Doc(id)
}

// GetSlides lists the carousel newest first. With shuffle the page order is
// randomized instead, for clients that rotate the display.
func (s *SlideService) GetSlides(ctx context.Context, shuffle bool) ([]models.Slide, error) {
	iter := s.client.Collection(colFeaturedSlides).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()
	var slides []models.Slide
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				break
			}
			return nil, fmt.Errorf("list slides: %w", err)
		}
		var sl models.Slide
		if err := doc.DataTo(&sl); err != nil {
			return nil, fmt.Errorf("decode slide %s: %w", doc.Ref.ID, err)
		}
		sl.ID = doc.Ref.ID
		slides = append(slides, sl)
	}
	if shuffle {
		rand.Shuffle(len(slides), func(i, j int) {
			slides[i], slides[j] = slides[j], slides[i]
		})
	}
	return slides, nil
}

// AddSlide uploads the image and records it in the carousel. The upload is
// verified before the document is written so a slide never points at a
// missing object.
func (s *SlideService) AddSlide(ctx context.Context, filename, contentType string, body io.Reader) (*models.Slide, error) {
	now := time.Now().UTC()
	path := SlidePath(filename, now)

	url, err := s.storage.Upload(ctx, path, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("upload slide: %w", err)
	}
	if err := s.storage.VerifyObject(ctx, path); err != nil {
		return nil, fmt.Errorf("verify slide upload: %w", err)
	}

	slide := &models.Slide{
		ID:          uuid.New().String(),
		URL:         url,
		StoragePath: path,
		CreatedAt:   now,
	}
	if _, err := s.ref(slide.ID).Set(ctx, slide); err != nil {
		return nil, fmt.Errorf("record slide: %w", err)
	}
	return slide, nil
}

// DeleteSlide removes the document and its backing object.
func (s *SlideService) DeleteSlide(ctx context.Context, id string) error {
	snap, err := s.ref(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return ErrSlideNotFound
		}
		return fmt.Errorf("get slide %s: %w", id, err)
	}
	var sl models.Slide
	if err := snap.DataTo(&sl); err != nil {
		return fmt.Errorf("decode slide %s: %w", id, err)
	}

	if _, err := s.ref(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete slide %s: %w", id, err)
	}
	if sl.StoragePath != "" {
		if err := s.storage.Delete(ctx, sl.StoragePath); err != nil {
			return fmt.Errorf("delete slide object %s: %w", sl.StoragePath, err)
		}
	}
	return nil
}
