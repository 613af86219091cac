package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/realtime"
)

// OfficeService tracks which officers are signed in to the office and the
// aggregate in-office count shown on the home screen. Status changes are
// broadcast to connected clients.
type OfficeService struct {
	client *firestore.Client
	hub    *realtime.Hub
}

func NewOfficeService(client *firestore.Client, hub *realtime.Hub) *OfficeService {
	return &OfficeService{client: client, hub: hub}
}

func (s *OfficeService) statusRef(uid string) *firestore.DocumentRef {
	return s.client.Collection(colOfficeHours).Doc(docOfficerStatus).
		Collection(subcolOfficers).Doc(uid)
}

func (s *OfficeService) countRef() *firestore.DocumentRef {
	return s.client.Collection(colOfficeHours).Doc(docOfficeCount)
}

// SetOfficerStatus flips one officer's in-office flag and adjusts the count in
// the same transaction. The count never drops below zero even when a stale
// sign-out races a reset.
func (s *OfficeService) SetOfficerStatus(ctx context.Context, uid string, signedIn bool) (*models.OfficerStatus, error) {
	status := &models.OfficerStatus{
		UID:       uid,
		SignedIn:  signedIn,
		UpdatedAt: time.Now().UTC(),
	}

	var newCount int64
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		prev := false
		statusSnap, err := tx.Get(s.statusRef(uid))
		if err != nil && !isNotFound(err) {
			return err
		}
		if err == nil && statusSnap.Exists() {
			var cur models.OfficerStatus
			if err := statusSnap.DataTo(&cur); err != nil {
				return err
			}
			prev = cur.SignedIn
		}

		count := int64(0)
		countSnap, err := tx.Get(s.countRef())
		if err != nil && !isNotFound(err) {
			return err
		}
		if err == nil && countSnap.Exists() {
			if v, err := countSnap.DataAt("count"); err == nil {
				if n, ok := v.(int64); ok {
					count = n
				}
			}
		}

		if signedIn && !prev {
			count++
		}
		if !signedIn && prev {
			count--
		}
		if count < 0 {
			count = 0
		}
		newCount = count

		if err := tx.Set(s.statusRef(uid), status); err != nil {
			return err
		}
		return tx.Set(s.countRef(), map[string]interface{}{"count": count})
	})
	if err != nil {
		return nil, fmt.Errorf("set officer status %s: %w", uid, err)
	}

	if s.hub != nil {
		s.hub.Broadcast("officer-status", map[string]interface{}{
			"officer": status,
			"count":   newCount,
		})
	}
	return status, nil
}

// GetOfficeCount reads the aggregate in-office count.
func (s *OfficeService) GetOfficeCount(ctx context.Context) (int64, error) {
	snap, err := s.countRef().Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get office count: %w", err)
	}
	v, err := snap.DataAt("count")
	if err != nil {
		return 0, nil
	}
	n, _ := v.(int64)
	if n < 0 {
		n = 0
	}
	return n, nil
}

// GetOfficerStatuses lists every officer's current status.
func (s *OfficeService) GetOfficerStatuses(ctx context.Context) ([]models.OfficerStatus, error) {
	iter := s.client.Collection(colOfficeHours).Doc(docOfficerStatus).
		Collection(subcolOfficers).Documents(ctx)
	defer iter.Stop()
	var statuses []models.OfficerStatus
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				return statuses, nil
			}
			return nil, fmt.Errorf("list officer statuses: %w", err)
		}
		var st models.OfficerStatus
		if err := doc.DataTo(&st); err != nil {
			return nil, fmt.Errorf("decode officer status %s: %w", doc.Ref.ID, err)
		}
		st.UID = doc.Ref.ID
		statuses = append(statuses, st)
	}
}

// ResetOfficeState signs every officer out and zeroes the count. Used at the
// end of the day when stale sign-ins would otherwise linger.
func (s *OfficeService) ResetOfficeState(ctx context.Context) error {
	statuses, err := s.GetOfficerStatuses(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, st := range statuses {
		if !st.SignedIn {
			continue
		}
		st.SignedIn = false
		st.UpdatedAt = now
		if _, err := s.statusRef(st.UID).Set(ctx, &st); err != nil {
			return fmt.Errorf("reset officer %s: %w", st.UID, err)
		}
	}
	if _, err := s.countRef().Set(ctx, map[string]interface{}{"count": int64(0)}); err != nil {
		return fmt.Errorf("reset office count: %w", err)
	}

	if s.hub != nil {
		s.hub.Broadcast("office-reset", map[string]interface{}{"at": now})
	}
	return nil
}
