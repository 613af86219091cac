package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/metrics"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
)

var (
	ErrEmptyDocName         = errors.New("committee firebaseDocName must not be empty")
	ErrInvalidCommitteeHead = errors.New("committee head does not reference an existing user")
	ErrCommitteeNotFound    = errors.New("committee not found")
	ErrCommitteeClosed      = errors.New("committee is closed; membership requires an approved request")
	ErrNoPendingRequest     = errors.New("no pending request for this member")
)

type CommitteeService struct {
	client    *firestore.Client
	functions *FunctionsClient
}

func NewCommitteeService(client *firestore.Client, functions *FunctionsClient) *CommitteeService {
	return &CommitteeService{client: client, functions: functions}
}

func (s *CommitteeService) ref(name string) *firestore.DocumentRef {
	return s.client.Collection(colCommittees).Doc(name)
}

func (s *CommitteeService) requestRef(committee, uid string) *firestore.DocumentRef {
	return s.client.Collection(colCommitteeRequests).Doc(committee).Collection(subcolRequests).Doc(uid)
}

func (s *CommitteeService) GetCommittee(ctx context.Context, name string) (*models.Committee, error) {
	snap, err := s.ref(name).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCommitteeNotFound
		}
		return nil, fmt.Errorf("get committee %s: %w", name, err)
	}
	var c models.Committee
	if err := snap.DataTo(&c); err != nil {
		return nil, fmt.Errorf("decode committee %s: %w", name, err)
	}
	c.FirebaseDocName = name
	return &c, nil
}

func (s *CommitteeService) GetCommittees(ctx context.Context) ([]models.Committee, error) {
	var committees []models.Committee
	iter := s.client.Collection(colCommittees).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				return committees, nil
			}
			return nil, fmt.Errorf("list committees: %w", err)
		}
		var c models.Committee
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("decode committee %s: %w", doc.Ref.ID, err)
		}
		c.FirebaseDocName = doc.Ref.ID
		committees = append(committees, c)
	}
}

// SetCommittee creates or updates a committee. The head, when set, must
// resolve to an existing user document; both preconditions are checked before
// any write so a rejected call leaves no partial state.
func (s *CommitteeService) SetCommittee(ctx context.Context, c *models.Committee) error {
	if c == nil || c.FirebaseDocName == "" {
		return ErrEmptyDocName
	}
	if c.Head != "" {
		snap, err := s.client.Collection(colUsers).Doc(c.Head).Get(ctx)
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("resolve committee head %s: %w", c.Head, err)
		}
		if err != nil || !snap.Exists() {
			return fmt.Errorf("%w: %s", ErrInvalidCommitteeHead, c.Head)
		}
	}

	fields := map[string]interface{}{
		"firebaseDocName": c.FirebaseDocName,
		"name":            c.Name,
		"color":           c.Color,
		"logo":            c.Logo,
		"head":            c.Head,
		"representatives": c.Representatives,
		"leads":           c.Leads,
		"applicationLink": c.ApplicationLink,
		"description":     c.Description,
		"isOpen":          c.IsOpen,
	}
	if _, err := s.ref(c.FirebaseDocName).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("set committee %s: %w", c.FirebaseDocName, err)
	}
	return nil
}

// stripFromMembers removes the committee from every user currently listing it.
// This is a fan-out of independent writes, not a transaction: the first failing
// write aborts the loop with prior writes already applied.
func (s *CommitteeService) stripFromMembers(ctx context.Context, name string) error {
	iter := s.client.Collection(colUsers).Where("committees", "array-contains", name).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				return nil
			}
			return fmt.Errorf("list members of %s: %w", name, err)
		}
		_, err = doc.Ref.Update(ctx, []firestore.Update{
			{Path: "committees", Value: firestore.ArrayRemove(name)},
		})
		if err != nil {
			return fmt.Errorf("remove %s from user %s: %w", name, doc.Ref.ID, err)
		}
	}
}

// ResetCommittee clears membership fields back to defaults and strips the
// committee from every member's committee list.
func (s *CommitteeService) ResetCommittee(ctx context.Context, name string) error {
	if _, err := s.GetCommittee(ctx, name); err != nil {
		return err
	}

	_, err := s.ref(name).Set(ctx, map[string]interface{}{
		"head":            "",
		"representatives": []string{},
		"leads":           []string{},
		"applicationLink": "",
		"memberCount":     0,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("reset committee %s: %w", name, err)
	}

	return s.stripFromMembers(ctx, name)
}

// DeleteCommittee removes the committee document, its pending requests and
// every member's reference to it.
func (s *CommitteeService) DeleteCommittee(ctx context.Context, name string) error {
	if err := s.stripFromMembers(ctx, name); err != nil {
		return err
	}
	reqs := s.client.Collection(colCommitteeRequests).Doc(name).Collection(subcolRequests)
	if err := deleteAll(ctx, s.client, reqs.Query); err != nil {
		return fmt.Errorf("clear requests for %s: %w", name, err)
	}
	if _, err := s.ref(name).Delete(ctx); err != nil {
		return fmt.Errorf("delete committee %s: %w", name, err)
	}
	return nil
}

// GetCommitteeMembers lists users whose committee list contains the committee.
func (s *CommitteeService) GetCommitteeMembers(ctx context.Context, name string) ([]models.PublicUserInfo, error) {
	var members []models.PublicUserInfo
	iter := s.client.Collection(colUsers).Where("committees", "array-contains", name).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				return members, nil
			}
			return nil, fmt.Errorf("list members of %s: %w", name, err)
		}
		var pub models.PublicUserInfo
		if err := doc.DataTo(&pub); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", doc.Ref.ID, err)
		}
		pub.UID = doc.Ref.ID
		members = append(members, pub)
	}
}

// JoinCommittee adds a member directly to an open committee. Closed committees
// require the request/approval flow.
func (s *CommitteeService) JoinCommittee(ctx context.Context, name, uid string) error {
	c, err := s.GetCommittee(ctx, name)
	if err != nil {
		return err
	}
	if !c.IsOpen {
		return ErrCommitteeClosed
	}

	_, err = s.client.Collection(colUsers).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "committees", Value: firestore.ArrayUnion(name)},
	})
	if err != nil {
		return fmt.Errorf("join committee %s: %w", name, err)
	}
	s.updateMemberCount(ctx, name, 1)
	return nil
}

// LeaveCommittee drops the member from the committee list.
func (s *CommitteeService) LeaveCommittee(ctx context.Context, name, uid string) error {
	_, err := s.client.Collection(colUsers).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "committees", Value: firestore.ArrayRemove(name)},
	})
	if err != nil {
		return fmt.Errorf("leave committee %s: %w", name, err)
	}
	s.updateMemberCount(ctx, name, -1)
	return nil
}

// SubmitRequest records a join request for a closed committee.
func (s *CommitteeService) SubmitRequest(ctx context.Context, name, uid string) error {
	if _, err := s.GetCommittee(ctx, name); err != nil {
		return err
	}
	req := models.CommitteeRequest{UID: uid, RequestedAt: time.Now().UTC()}
	if _, err := s.requestRef(name, uid).Set(ctx, req); err != nil {
		return fmt.Errorf("submit request %s/%s: %w", name, uid, err)
	}
	metrics.CommitteeRequests.Inc()
	s.notifyRequest(ctx, name, uid)
	return nil
}

// CancelRequest withdraws a pending request. Denial uses the same delete.
func (s *CommitteeService) CancelRequest(ctx context.Context, name, uid string) error {
	if _, err := s.requestRef(name, uid).Delete(ctx); err != nil {
		return fmt.Errorf("cancel request %s/%s: %w", name, uid, err)
	}
	return nil
}

// CheckRequestStatus reports whether a pending request document exists.
func (s *CommitteeService) CheckRequestStatus(ctx context.Context, name, uid string) (bool, error) {
	snap, err := s.requestRef(name, uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check request %s/%s: %w", name, uid, err)
	}
	return snap.Exists(), nil
}

// ApproveRequest atomically adds the committee to the member's list and clears
// the request document. Approval must never leave the member updated with the
// request still pending, or vice versa, so this is the one multi-document
// transaction in the codebase.
func (s *CommitteeService) ApproveRequest(ctx context.Context, name, uid string) error {
	reqRef := s.requestRef(name, uid)
	userRef := s.client.Collection(colUsers).Doc(uid)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		reqSnap, err := tx.Get(reqRef)
		if err != nil {
			if isNotFound(err) {
				return ErrNoPendingRequest
			}
			return err
		}
		if !reqSnap.Exists() {
			return ErrNoPendingRequest
		}

		userSnap, err := tx.Get(userRef)
		if err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}
		if !userSnap.Exists() {
			return ErrUserNotFound
		}

		if err := tx.Update(userRef, []firestore.Update{
			{Path: "committees", Value: firestore.ArrayUnion(name)},
		}); err != nil {
			return err
		}
		return tx.Delete(reqRef)
	})
	if err != nil {
		if errors.Is(err, ErrNoPendingRequest) || errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("approve request %s/%s: %w", name, uid, err)
	}

	s.updateMemberCount(ctx, name, 1)
	return nil
}

// updateMemberCount delegates to the updateCommitteeMembersCount remote
// procedure, fire-and-forget.
func (s *CommitteeService) updateMemberCount(ctx context.Context, name string, delta int) {
	if s.functions == nil {
		return
	}
	if err := s.functions.Call(ctx, ProcUpdateCommitteeMembersCount, map[string]interface{}{
		"committee": name,
		"delta":     delta,
	}); err != nil {
		zap.L().Warn("committee: member count update failed",
			zap.String("committee", name), zap.Error(err))
	}
}

func (s *CommitteeService) notifyRequest(ctx context.Context, name, uid string) {
	if s.functions == nil {
		return
	}
	if err := s.functions.Call(ctx, ProcSendNotificationCommitteeRequest, map[string]interface{}{
		"committee": name,
		"uid":       uid,
	}); err != nil {
		zap.L().Warn("committee: request notification failed",
			zap.String("committee", name), zap.Error(err))
	}
}
