package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
)

// MOTMService manages the member-of-the-month singleton and the running list
// of past recipients.
type MOTMService struct {
	client *firestore.Client
}

func NewMOTMService(client *firestore.Client) *MOTMService {
	return &MOTMService{client: client}
}

func (s *MOTMService) memberRef() *firestore.DocumentRef {
	return s.client.Collection(colMemberOfTheMonth).Doc(docMOTMMember)
}

func (s *MOTMService) pastRef() *firestore.DocumentRef {
	return s.client.Collection(colMemberOfTheMonth).Doc(docMOTMPastMembers)
}

func (s *MOTMService) GetMemberOfTheMonth(ctx context.Context) (*models.MemberOfTheMonth, error) {
	snap, err := s.memberRef().Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member of the month: %w", err)
	}
	var m models.MemberOfTheMonth
	if err := snap.DataTo(&m); err != nil {
		return nil, fmt.Errorf("decode member of the month: %w", err)
	}
	return &m, nil
}

// SetMemberOfTheMonth replaces the current recipient and appends them to the
// past-recipients list. ArrayUnion keeps repeat selections from duplicating
// the history entry.
func (s *MOTMService) SetMemberOfTheMonth(ctx context.Context, m *models.MemberOfTheMonth) error {
	if m == nil || m.UID == "" {
		return ErrUIDRequired
	}
	if _, err := s.memberRef().Set(ctx, m); err != nil {
		return fmt.Errorf("set member of the month: %w", err)
	}
	_, err := s.pastRef().Set(ctx, map[string]interface{}{
		"members": firestore.ArrayUnion(m.UID),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("record past member of the month: %w", err)
	}
	return nil
}

// GetPastMembers returns the UIDs of every past recipient, oldest first.
func (s *MOTMService) GetPastMembers(ctx context.Context) ([]string, error) {
	snap, err := s.pastRef().Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get past members: %w", err)
	}
	v, err := snap.DataAt("members")
	if err != nil {
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, nil
	}
	members := make([]string, 0, len(raw))
	for _, item := range raw {
		if uid, ok := item.(string); ok {
			members = append(members, uid)
		}
	}
	return members, nil
}
