package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/util"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUIDRequired  = errors.New("uid is required")
)

// LeaderboardFilter selects which points column orders the leaderboard.
type LeaderboardFilter string

const (
	LeaderboardAllTime LeaderboardFilter = "allTime"
	LeaderboardMonthly LeaderboardFilter = "monthly"
)

type UserService struct {
	client *firestore.Client
}

func NewUserService(client *firestore.Client) *UserService {
	return &UserService{client: client}
}

func (s *UserService) publicRef(uid string) *firestore.DocumentRef {
	return s.client.Collection(colUsers).Doc(uid)
}

func (s *UserService) privateRef(uid string) *firestore.DocumentRef {
	return s.publicRef(uid).Collection(colPrivate).Doc(docPrivateInfo)
}

// InitializeUser creates the user record on first sign-in with defaults, or
// returns the existing record untouched. Idempotent.
func (s *UserService) InitializeUser(ctx context.Context, uid, email, displayName, photoURL string) (*models.User, error) {
	if uid == "" {
		return nil, ErrUIDRequired
	}

	snap, err := s.publicRef(uid).Get(ctx)
	if err == nil && snap.Exists() {
		return s.GetUser(ctx, uid)
	}
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("get user %s: %w", uid, err)
	}

	pub := models.PublicUserInfo{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
		Committees:  []string{},
	}
	priv := models.PrivateUserInfo{
		Settings:       models.UserSettings{UseSystemDefault: true},
		ExpoPushTokens: []string{},
	}

	if _, err := s.publicRef(uid).Set(ctx, pub); err != nil {
		return nil, fmt.Errorf("create user %s: %w", uid, err)
	}
	if _, err := s.privateRef(uid).Set(ctx, priv); err != nil {
		return nil, fmt.Errorf("create private info %s: %w", uid, err)
	}

	return &models.User{PublicInfo: pub, PrivateInfo: &priv}, nil
}

// GetUser loads both halves of a user record. A missing private document is
// tolerated (legacy accounts) and comes back nil.
func (s *UserService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	pub, err := s.GetPublicUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	user := &models.User{PublicInfo: *pub}
	privSnap, err := s.privateRef(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return user, nil
		}
		return nil, fmt.Errorf("get private info %s: %w", uid, err)
	}
	var priv models.PrivateUserInfo
	if err := privSnap.DataTo(&priv); err != nil {
		return nil, fmt.Errorf("decode private info %s: %w", uid, err)
	}
	user.PrivateInfo = &priv
	return user, nil
}

func (s *UserService) GetPublicUser(ctx context.Context, uid string) (*models.PublicUserInfo, error) {
	snap, err := s.publicRef(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", uid, err)
	}
	var pub models.PublicUserInfo
	if err := snap.DataTo(&pub); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", uid, err)
	}
	pub.UID = uid
	return &pub, nil
}

// SetPublicUser merges the given fields into publicInfo. The uid field is
// immutable and silently dropped from updates.
func (s *UserService) SetPublicUser(ctx context.Context, uid string, fields map[string]interface{}) error {
	if uid == "" {
		return ErrUIDRequired
	}
	delete(fields, "uid")
	if len(fields) == 0 {
		return nil
	}
	if _, err := s.publicRef(uid).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("set user %s: %w", uid, err)
	}
	return nil
}

func (s *UserService) GetPrivateUser(ctx context.Context, uid string) (*models.PrivateUserInfo, error) {
	snap, err := s.privateRef(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get private info %s: %w", uid, err)
	}
	var priv models.PrivateUserInfo
	if err := snap.DataTo(&priv); err != nil {
		return nil, fmt.Errorf("decode private info %s: %w", uid, err)
	}
	return &priv, nil
}

func (s *UserService) SetPrivateUser(ctx context.Context, uid string, fields map[string]interface{}) error {
	if uid == "" {
		return ErrUIDRequired
	}
	if _, err := s.privateRef(uid).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("set private info %s: %w", uid, err)
	}
	return nil
}

// SaveExpoPushToken appends a push token to the user's private record without
// duplicating an already-registered token.
func (s *UserService) SaveExpoPushToken(ctx context.Context, uid, token string) error {
	if uid == "" {
		return ErrUIDRequired
	}
	_, err := s.privateRef(uid).Set(ctx, map[string]interface{}{
		"expoPushTokens": firestore.ArrayUnion(token),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("save push token %s: %w", uid, err)
	}
	return nil
}

// CompleteAccountSetup flips the one-time onboarding flag.
func (s *UserService) CompleteAccountSetup(ctx context.Context, uid string) error {
	return s.SetPrivateUser(ctx, uid, map[string]interface{}{
		"completedAccountSetup": true,
	})
}

// AddPoints applies an event's point award to both leaderboard columns.
func (s *UserService) AddPoints(ctx context.Context, uid string, points float64) error {
	_, err := s.publicRef(uid).Update(ctx, []firestore.Update{
		{Path: "points", Value: firestore.Increment(points)},
		{Path: "pointsThisMonth", Value: firestore.Increment(points)},
	})
	if err != nil {
		return fmt.Errorf("add points %s: %w", uid, err)
	}
	return nil
}

// ResetMonthlyPoints zeroes every member's pointsThisMonth column at the
// util.MonthStart boundary. A marker document records the last reset, so
// repeated triggers within the same month are no-ops. The functions worker
// exposes this for the monthly scheduler; all-time points are untouched.
func (s *UserService) ResetMonthlyPoints(ctx context.Context, now time.Time) (int, error) {
	bucket := util.MonthStart(now)

	metaRef := s.client.Collection(colMeta).Doc(docMonthlyReset)
	snap, err := metaRef.Get(ctx)
	if err != nil && !isNotFound(err) {
		return 0, fmt.Errorf("read monthly reset marker: %w", err)
	}
	if err == nil {
		if v, derr := snap.DataAt("resetAt"); derr == nil {
			if last, ok := v.(time.Time); ok && !last.Before(bucket) {
				return 0, nil
			}
		}
	}

	iter := s.client.Collection(colUsers).Where("pointsThisMonth", ">", 0).Documents(ctx)
	defer iter.Stop()
	reset := 0
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				break
			}
			return reset, fmt.Errorf("scan monthly points: %w", err)
		}
		if _, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "pointsThisMonth", Value: 0},
		}); err != nil {
			return reset, fmt.Errorf("reset monthly points %s: %w", doc.Ref.ID, err)
		}
		reset++
	}

	if _, err := metaRef.Set(ctx, map[string]interface{}{"resetAt": bucket}); err != nil {
		return reset, fmt.Errorf("record monthly reset: %w", err)
	}
	return reset, nil
}

// GetSortedUsers pages through the leaderboard ordered by the chosen points
// column, descending. cursor is the last-seen uid from the previous page;
// endOfData is true exactly when fewer than limit users remain.
func (s *UserService) GetSortedUsers(ctx context.Context, filter LeaderboardFilter, limit int, cursor string) (users []models.PublicUserInfo, nextCursor string, endOfData bool, err error) {
	if limit <= 0 {
		limit = 20
	}
	field := "points"
	if filter == LeaderboardMonthly {
		field = "pointsThisMonth"
	}

	q := s.client.Collection(colUsers).OrderBy(field, firestore.Desc).Limit(limit)
	if cursor != "" {
		snap, err := s.publicRef(cursor).Get(ctx)
		if err != nil {
			if isNotFound(err) {
				return nil, "", false, ErrUserNotFound
			}
			return nil, "", false, fmt.Errorf("resolve leaderboard cursor: %w", err)
		}
		q = q.StartAfter(snap)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				break
			}
			return nil, "", false, fmt.Errorf("leaderboard query: %w", err)
		}
		var pub models.PublicUserInfo
		if err := doc.DataTo(&pub); err != nil {
			return nil, "", false, fmt.Errorf("decode user %s: %w", doc.Ref.ID, err)
		}
		pub.UID = doc.Ref.ID
		users = append(users, pub)
	}

	endOfData = len(users) < limit
	if len(users) > 0 {
		nextCursor = users[len(users)-1].UID
	}
	return users, nextCursor, endOfData, nil
}

// FetchUsersWithPublicResumes lists members with verified public resumes,
// optionally narrowed by major and/or class year (logical AND).
func (s *UserService) FetchUsersWithPublicResumes(ctx context.Context, major, classYear string) ([]models.PublicUserInfo, error) {
	q := s.client.Collection(colUsers).Where("resumeVerified", "==", true)
	if major != "" {
		q = q.Where("major", "==", major)
	}
	if classYear != "" {
		q = q.Where("classYear", "==", classYear)
	}

	var users []models.PublicUserInfo
	iter := q.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				return users, nil
			}
			return nil, fmt.Errorf("resume bank query: %w", err)
		}
		var pub models.PublicUserInfo
		if err := doc.DataTo(&pub); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", doc.Ref.ID, err)
		}
		pub.UID = doc.Ref.ID
		users = append(users, pub)
	}
}

// SubmitResumeVerification records a member's request to join the public
// resume bank and stores the submitted URL on their profile.
func (s *UserService) SubmitResumeVerification(ctx context.Context, uid, resumeURL string) error {
	if uid == "" {
		return ErrUIDRequired
	}
	req := models.ResumeVerificationRequest{
		UID:         uid,
		ResumeURL:   resumeURL,
		SubmittedAt: time.Now().UTC(),
	}
	if _, err := s.client.Collection(colResumeVerification).Doc(uid).Set(ctx, req); err != nil {
		return fmt.Errorf("submit resume verification %s: %w", uid, err)
	}
	return s.SetPublicUser(ctx, uid, map[string]interface{}{
		"resumePublicURL": resumeURL,
		"resumeVerified":  false,
	})
}

// ListResumeVerifications returns the pending queue for officers.
func (s *UserService) ListResumeVerifications(ctx context.Context) ([]models.ResumeVerificationRequest, error) {
	var reqs []models.ResumeVerificationRequest
	iter := s.client.Collection(colResumeVerification).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				return reqs, nil
			}
			return nil, fmt.Errorf("resume verification queue: %w", err)
		}
		var req models.ResumeVerificationRequest
		if err := doc.DataTo(&req); err != nil {
			return nil, fmt.Errorf("decode verification %s: %w", doc.Ref.ID, err)
		}
		req.UID = doc.Ref.ID
		reqs = append(reqs, req)
	}
}

// ApproveResume marks the member's resume verified and clears the queue entry.
func (s *UserService) ApproveResume(ctx context.Context, uid string) error {
	if err := s.SetPublicUser(ctx, uid, map[string]interface{}{"resumeVerified": true}); err != nil {
		return err
	}
	if _, err := s.client.Collection(colResumeVerification).Doc(uid).Delete(ctx); err != nil {
		return fmt.Errorf("clear resume verification %s: %w", uid, err)
	}
	return nil
}

// DenyResume clears the queue entry and withdraws the public URL.
func (s *UserService) DenyResume(ctx context.Context, uid string) error {
	if err := s.SetPublicUser(ctx, uid, map[string]interface{}{
		"resumeVerified":  false,
		"resumePublicURL": firestore.Delete,
	}); err != nil {
		return err
	}
	if _, err := s.client.Collection(colResumeVerification).Doc(uid).Delete(ctx); err != nil {
		return fmt.Errorf("clear resume verification %s: %w", uid, err)
	}
	return nil
}
