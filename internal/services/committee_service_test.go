package services

import (
	"context"
	"errors"
	"testing"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/testutil"
)

func TestSetCommitteeRejectsEmptyDocName(t *testing.T) {
	svc := NewCommitteeService(nil, nil)
	err := svc.SetCommittee(context.Background(), &models.Committee{Name: "Tech Affairs"})
	if !errors.Is(err, ErrEmptyDocName) {
		t.Fatalf("err = %v, want ErrEmptyDocName", err)
	}
	if err := svc.SetCommittee(context.Background(), nil); !errors.Is(err, ErrEmptyDocName) {
		t.Fatalf("nil committee err = %v, want ErrEmptyDocName", err)
	}
}

func TestSetCommitteeRejectsUnknownHead(t *testing.T) {
	client := testutil.Firestore(t)
	svc := NewCommitteeService(client, nil)

	err := svc.SetCommittee(context.Background(), &models.Committee{
		FirebaseDocName: "tech-affairs",
		Name:            "Tech Affairs",
		Head:            "no-such-user",
	})
	if !errors.Is(err, ErrInvalidCommitteeHead) {
		t.Fatalf("err = %v, want ErrInvalidCommitteeHead", err)
	}
}

func TestJoinClosedCommitteeRejected(t *testing.T) {
	client := testutil.Firestore(t)
	users := NewUserService(client)
	svc := NewCommitteeService(client, nil)
	ctx := context.Background()

	if _, err := users.InitializeUser(ctx, "closed-member", "m@tamu.edu", "Member", ""); err != nil {
		t.Fatalf("init user: %v", err)
	}
	if err := svc.SetCommittee(ctx, &models.Committee{
		FirebaseDocName: "closed-committee",
		Name:            "Closed Committee",
		IsOpen:          false,
	}); err != nil {
		t.Fatalf("set committee: %v", err)
	}

	if err := svc.JoinCommittee(ctx, "closed-committee", "closed-member"); !errors.Is(err, ErrCommitteeClosed) {
		t.Fatalf("join err = %v, want ErrCommitteeClosed", err)
	}
}

func TestApproveRequestIsAtomic(t *testing.T) {
	client := testutil.Firestore(t)
	users := NewUserService(client)
	svc := NewCommitteeService(client, nil)
	ctx := context.Background()

	committee := "approve-committee"
	uid := "approve-member"
	if _, err := users.InitializeUser(ctx, uid, "a@tamu.edu", "Applicant", ""); err != nil {
		t.Fatalf("init user: %v", err)
	}
	if err := svc.SetCommittee(ctx, &models.Committee{FirebaseDocName: committee, Name: "Approvals"}); err != nil {
		t.Fatalf("set committee: %v", err)
	}
	if err := svc.SubmitRequest(ctx, committee, uid); err != nil {
		t.Fatalf("submit: %v", err)
	}
	pending, err := svc.CheckRequestStatus(ctx, committee, uid)
	if err != nil || !pending {
		t.Fatalf("pending = %v err = %v, want true/nil", pending, err)
	}

	if err := svc.ApproveRequest(ctx, committee, uid); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pub, err := users.GetPublicUser(ctx, uid)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	found := false
	for _, c := range pub.Committees {
		if c == committee {
			found = true
		}
	}
	if !found {
		t.Fatal("approved member not in committee list")
	}

	pending, err = svc.CheckRequestStatus(ctx, committee, uid)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if pending {
		t.Fatal("request still pending after approval")
	}

	// A second approval has nothing to approve.
	if err := svc.ApproveRequest(ctx, committee, uid); !errors.Is(err, ErrNoPendingRequest) {
		t.Fatalf("re-approve err = %v, want ErrNoPendingRequest", err)
	}
}

func TestResetCommitteeStripsMembers(t *testing.T) {
	client := testutil.Firestore(t)
	users := NewUserService(client)
	svc := NewCommitteeService(client, nil)
	ctx := context.Background()

	committee := "reset-committee"
	if err := svc.SetCommittee(ctx, &models.Committee{
		FirebaseDocName: committee,
		Name:            "Resettable",
		IsOpen:          true,
	}); err != nil {
		t.Fatalf("set committee: %v", err)
	}

	uids := []string{"reset-member-1", "reset-member-2"}
	for _, uid := range uids {
		if _, err := users.InitializeUser(ctx, uid, uid+"@tamu.edu", uid, ""); err != nil {
			t.Fatalf("init %s: %v", uid, err)
		}
		if err := svc.JoinCommittee(ctx, committee, uid); err != nil {
			t.Fatalf("join %s: %v", uid, err)
		}
	}

	members, err := svc.GetCommitteeMembers(ctx, committee)
	if err != nil || len(members) != 2 {
		t.Fatalf("members = %d err = %v, want 2/nil", len(members), err)
	}

	if err := svc.ResetCommittee(ctx, committee); err != nil {
		t.Fatalf("reset: %v", err)
	}

	members, err = svc.GetCommitteeMembers(ctx, committee)
	if err != nil {
		t.Fatalf("members after reset: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("members after reset = %d, want 0", len(members))
	}
	c, err := svc.GetCommittee(ctx, committee)
	if err != nil {
		t.Fatalf("get committee: %v", err)
	}
	if c.Head != "" || c.MemberCount != 0 || len(c.Leads) != 0 {
		t.Fatalf("committee not reset to defaults: %+v", c)
	}
}
