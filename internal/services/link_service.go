package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
)

// Link documents live at fixed numeric IDs; writes outside the range are a
// caller error rather than a new link.
const (
	linkIDMin = 1
	linkIDMax = 8
)

var ErrLinkIDOutOfRange = errors.New("link id must be between 1 and 8")

type LinkService struct {
	client *firestore.Client
}

func NewLinkService(client *firestore.Client) *LinkService {
	return &LinkService{client: client}
}

func (s *LinkService) ref(id int) *firestore.DocumentRef {
	return s.client.Collection(colLinks).Doc(strconv.Itoa(id))
}

func (s *LinkService) GetLink(ctx context.Context, id int) (*models.Link, error) {
	if id < linkIDMin || id > linkIDMax {
		return nil, ErrLinkIDOutOfRange
	}
	snap, err := s.ref(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			// Unwritten slots read back as empty links.
			return &models.Link{ID: id}, nil
		}
		return nil, fmt.Errorf("get link %d: %w", id, err)
	}
	var l models.Link
	if err := snap.DataTo(&l); err != nil {
		return nil, fmt.Errorf("decode link %d: %w", id, err)
	}
	l.ID = id
	return &l, nil
}

func (s *LinkService) GetLinks(ctx context.Context) ([]models.Link, error) {
	links := make([]models.Link, 0, linkIDMax)
	for id := linkIDMin; id <= linkIDMax; id++ {
		l, err := s.GetLink(ctx, id)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, nil
}

func (s *LinkService) SetLink(ctx context.Context, l *models.Link) error {
	if l.ID < linkIDMin || l.ID > linkIDMax {
		return ErrLinkIDOutOfRange
	}
	if _, err := s.ref(l.ID).Set(ctx, l); err != nil {
		return fmt.Errorf("set link %d: %w", l.ID, err)
	}
	return nil
}
