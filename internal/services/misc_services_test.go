package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/testutil"
)

func TestLinkIDRange(t *testing.T) {
	svc := NewLinkService(nil)
	ctx := context.Background()

	for _, id := range []int{0, 9, -1} {
		if _, err := svc.GetLink(ctx, id); !errors.Is(err, ErrLinkIDOutOfRange) {
			t.Fatalf("GetLink(%d) err = %v, want ErrLinkIDOutOfRange", id, err)
		}
		if err := svc.SetLink(ctx, &models.Link{ID: id, URL: "https://example.com"}); !errors.Is(err, ErrLinkIDOutOfRange) {
			t.Fatalf("SetLink(%d) err = %v, want ErrLinkIDOutOfRange", id, err)
		}
	}
}

func TestLinksRoundTrip(t *testing.T) {
	client := testutil.Firestore(t)
	svc := NewLinkService(client)
	ctx := context.Background()

	link := &models.Link{ID: 3, Name: "Instagram", URL: "https://instagram.com/tamushpe"}
	if err := svc.SetLink(ctx, link); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := svc.GetLink(ctx, 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.URL != link.URL || got.Name != link.Name {
		t.Fatalf("got %+v, want %+v", got, link)
	}

	// Every slot reads back, written or not.
	links, err := svc.GetLinks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(links) != 8 {
		t.Fatalf("len = %d, want 8", len(links))
	}
	for i, l := range links {
		if l.ID != i+1 {
			t.Fatalf("slot %d has id %d", i, l.ID)
		}
	}
}

func TestGetSlidesOrderAndShuffle(t *testing.T) {
	client := testutil.Firestore(t)
	testutil.ClearCollection(t, client, "featured-slides")
	svc := NewSlideService(client, nil)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"slide-a", "slide-b", "slide-c"} {
		slide := models.Slide{
			ID:        id,
			URL:       "https://example.com/" + id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if _, err := client.Collection("featured-slides").Doc(id).Set(ctx, slide); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	ordered, err := svc.GetSlides(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ordered) != 3 {
		t.Fatalf("len = %d, want 3", len(ordered))
	}
	// Newest first.
	if ordered[0].ID != "slide-c" || ordered[1].ID != "slide-b" || ordered[2].ID != "slide-a" {
		t.Fatalf("order = %s, %s, %s", ordered[0].ID, ordered[1].ID, ordered[2].ID)
	}

	// Shuffling changes order, never membership.
	shuffled, err := svc.GetSlides(ctx, true)
	if err != nil {
		t.Fatalf("shuffled list: %v", err)
	}
	if len(shuffled) != 3 {
		t.Fatalf("shuffled len = %d, want 3", len(shuffled))
	}
	seen := map[string]bool{}
	for _, s := range shuffled {
		seen[s.ID] = true
	}
	for _, id := range []string{"slide-a", "slide-b", "slide-c"} {
		if !seen[id] {
			t.Fatalf("shuffled listing dropped %s", id)
		}
	}
}

func TestOfficerStatusCountNeverNegative(t *testing.T) {
	client := testutil.Firestore(t)
	svc := NewOfficeService(client, nil)
	ctx := context.Background()

	uid := "office-officer-1"

	// Signing out while never signed in must not drive the count negative.
	if _, err := svc.SetOfficerStatus(ctx, uid, false); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	count, err := svc.GetOfficeCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count < 0 {
		t.Fatalf("count = %d, want >= 0", count)
	}

	if _, err := svc.SetOfficerStatus(ctx, uid, true); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	// Repeated sign-in is not double counted.
	if _, err := svc.SetOfficerStatus(ctx, uid, true); err != nil {
		t.Fatalf("re-sign in: %v", err)
	}
	after, err := svc.GetOfficeCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if after != count+1 {
		t.Fatalf("count = %d, want %d", after, count+1)
	}

	if err := svc.ResetOfficeState(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	final, err := svc.GetOfficeCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if final != 0 {
		t.Fatalf("count after reset = %d, want 0", final)
	}
}

func TestMemberOfTheMonthHistory(t *testing.T) {
	client := testutil.Firestore(t)
	svc := NewMOTMService(client)
	ctx := context.Background()

	if err := svc.SetMemberOfTheMonth(ctx, &models.MemberOfTheMonth{UID: "", Name: "Nobody"}); !errors.Is(err, ErrUIDRequired) {
		t.Fatalf("empty uid err = %v, want ErrUIDRequired", err)
	}

	if err := svc.SetMemberOfTheMonth(ctx, &models.MemberOfTheMonth{UID: "motm-1", Name: "First"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Selecting the same member twice must not duplicate the history entry.
	if err := svc.SetMemberOfTheMonth(ctx, &models.MemberOfTheMonth{UID: "motm-1", Name: "First"}); err != nil {
		t.Fatalf("re-set: %v", err)
	}
	if err := svc.SetMemberOfTheMonth(ctx, &models.MemberOfTheMonth{UID: "motm-2", Name: "Second"}); err != nil {
		t.Fatalf("set second: %v", err)
	}

	current, err := svc.GetMemberOfTheMonth(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if current == nil || current.UID != "motm-2" {
		t.Fatalf("current = %+v, want motm-2", current)
	}

	past, err := svc.GetPastMembers(ctx)
	if err != nil {
		t.Fatalf("past: %v", err)
	}
	seen := map[string]int{}
	for _, uid := range past {
		seen[uid]++
	}
	if seen["motm-1"] != 1 || seen["motm-2"] != 1 {
		t.Fatalf("past = %v, want one entry each for motm-1 and motm-2", past)
	}
}
