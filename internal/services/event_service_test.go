package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/testutil"
)

func TestCreateEventRejectsInvalid(t *testing.T) {
	svc := NewEventService(nil, nil)
	ctx := context.Background()
	now := time.Now().UTC()

	tests := []struct {
		name  string
		event models.Event
		want  error
	}{
		{
			name:  "missing name",
			event: models.Event{StartTime: now, EndTime: now.Add(time.Hour)},
			want:  models.ErrEventNameRequired,
		},
		{
			name: "negative buffer",
			event: models.Event{
				Name: "GBM", StartTime: now, EndTime: now.Add(time.Hour),
				EndTimeBuffer: -600000,
			},
			want: models.ErrNegativeBuffer,
		},
		{
			name: "end before start",
			event: models.Event{
				Name: "GBM", StartTime: now, EndTime: now.Add(-time.Hour),
			},
			want: models.ErrEventTimesInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEvent(ctx, &tt.event)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSignInWindowEnforced(t *testing.T) {
	client := testutil.Firestore(t)
	users := NewUserService(client)
	svc := NewEventService(client, users)
	ctx := context.Background()

	uid := "window-member"
	if _, err := users.InitializeUser(ctx, uid, "w@tamu.edu", "Window", ""); err != nil {
		t.Fatalf("init: %v", err)
	}

	// Event far in the future, no buffer reaching back to now.
	id, err := svc.CreateEvent(ctx, &models.Event{
		Name:      "Future GBM",
		EventType: models.EventTypeGeneralMeeting,
		StartTime: time.Now().UTC().Add(48 * time.Hour),
		EndTime:   time.Now().UTC().Add(50 * time.Hour),
		Points:    2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SignIn(ctx, id, uid, nil); !errors.Is(err, ErrOutsideSignWindow) {
		t.Fatalf("sign-in err = %v, want ErrOutsideSignWindow", err)
	}
}

func TestSignInCreditsPointsAndMirrorsLog(t *testing.T) {
	client := testutil.Firestore(t)
	users := NewUserService(client)
	svc := NewEventService(client, users)
	ctx := context.Background()

	uid := "signin-member"
	if _, err := users.InitializeUser(ctx, uid, "s@tamu.edu", "Signer", ""); err != nil {
		t.Fatalf("init: %v", err)
	}

	now := time.Now().UTC()
	id, err := svc.CreateEvent(ctx, &models.Event{
		Name:            "Live GBM",
		EventType:       models.EventTypeGeneralMeeting,
		StartTime:       now.Add(-30 * time.Minute),
		EndTime:         now.Add(30 * time.Minute),
		StartTimeBuffer: 600000,
		EndTimeBuffer:   600000,
		Points:          3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	log, err := svc.SignIn(ctx, id, uid, nil)
	if err != nil {
		t.Fatalf("sign-in: %v", err)
	}
	if log.SignInTime == nil || log.Points != 3 {
		t.Fatalf("log = %+v, want sign-in time and 3 points", log)
	}

	// Second sign-in must be rejected.
	if _, err := svc.SignIn(ctx, id, uid, nil); !errors.Is(err, ErrAlreadySignedIn) {
		t.Fatalf("re-sign-in err = %v, want ErrAlreadySignedIn", err)
	}

	pub, err := users.GetPublicUser(ctx, uid)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if pub.Points != 3 {
		t.Fatalf("points = %v, want 3", pub.Points)
	}

	logs, _, _, err := svc.GetUserEventLogs(ctx, uid, 10, "")
	if err != nil {
		t.Fatalf("user logs: %v", err)
	}
	if len(logs) != 1 || logs[0].EventID != id {
		t.Fatalf("mirrored logs = %+v, want one entry for %s", logs, id)
	}

	nums, err := svc.GetAttendanceNumbers(ctx, id)
	if err != nil {
		t.Fatalf("attendance: %v", err)
	}
	if nums.SignedIn != 1 || nums.SignedOut != 0 {
		t.Fatalf("attendance = %+v, want 1/0", nums)
	}

	out, err := svc.SignOut(ctx, id, uid, nil)
	if err != nil {
		t.Fatalf("sign-out: %v", err)
	}
	if out.SignOutTime == nil {
		t.Fatal("sign-out did not stamp the log")
	}
	nums, err = svc.GetAttendanceNumbers(ctx, id)
	if err != nil {
		t.Fatalf("attendance: %v", err)
	}
	if nums.SignedOut != 1 {
		t.Fatalf("attendance after sign-out = %+v, want signedOut 1", nums)
	}
}

func TestSignOutWithoutSignIn(t *testing.T) {
	client := testutil.Firestore(t)
	users := NewUserService(client)
	svc := NewEventService(client, users)
	ctx := context.Background()

	now := time.Now().UTC()
	id, err := svc.CreateEvent(ctx, &models.Event{
		Name:      "Walk-by Event",
		EventType: models.EventTypeSocialEvent,
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SignOut(ctx, id, "never-signed-in", nil); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("sign-out err = %v, want ErrNotSignedIn", err)
	}
}

func TestGeofenceEnforced(t *testing.T) {
	client := testutil.Firestore(t)
	users := NewUserService(client)
	svc := NewEventService(client, users)
	ctx := context.Background()

	uid := "geo-member"
	if _, err := users.InitializeUser(ctx, uid, "g@tamu.edu", "Geo", ""); err != nil {
		t.Fatalf("init: %v", err)
	}

	// Zachry Engineering Education Complex, 50m radius.
	now := time.Now().UTC()
	id, err := svc.CreateEvent(ctx, &models.Event{
		Name:             "Geofenced Meeting",
		EventType:        models.EventTypeCommitteeMeeting,
		StartTime:        now.Add(-10 * time.Minute),
		EndTime:          now.Add(time.Hour),
		Geofencing:       true,
		Location:         &models.GeoPoint{Latitude: 30.6212, Longitude: -96.3404},
		GeofencingRadius: 50,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Kyle Field is well outside 50m of Zachry.
	farAway := &models.GeoPoint{Latitude: 30.6100, Longitude: -96.3404}
	if _, err := svc.SignIn(ctx, id, uid, farAway); !errors.Is(err, ErrOutsideGeofence) {
		t.Fatalf("far sign-in err = %v, want ErrOutsideGeofence", err)
	}
	if _, err := svc.SignIn(ctx, id, uid, nil); !errors.Is(err, ErrOutsideGeofence) {
		t.Fatalf("no-location sign-in err = %v, want ErrOutsideGeofence", err)
	}

	nearby := &models.GeoPoint{Latitude: 30.62121, Longitude: -96.34042}
	if _, err := svc.SignIn(ctx, id, uid, nearby); err != nil {
		t.Fatalf("nearby sign-in: %v", err)
	}
}

func TestPastEventsPagination(t *testing.T) {
	client := testutil.Firestore(t)
	svc := NewEventService(client, NewUserService(client))
	ctx := context.Background()

	testutil.ClearCollection(t, client, "events")
	base := time.Now().UTC().Add(-100 * time.Hour)
	for i := 0; i < 5; i++ {
		start := base.Add(time.Duration(i) * 2 * time.Hour)
		_, err := svc.CreateEvent(ctx, &models.Event{
			Name:      fmt.Sprintf("Past Event %d", i),
			EventType: models.EventTypeWorkshop,
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page1, cursor, endOfData, err := svc.GetPastEvents(ctx, 3, "")
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(page1) != 3 || endOfData || cursor == "" {
		t.Fatalf("page 1 len=%d endOfData=%v cursor=%q", len(page1), endOfData, cursor)
	}
	for i := 1; i < len(page1); i++ {
		if page1[i].EndTime.After(page1[i-1].EndTime) {
			t.Fatalf("page 1 not ordered most recent first at %d", i)
		}
	}

	page2, _, endOfData, err := svc.GetPastEvents(ctx, 10, cursor)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if !endOfData {
		t.Fatal("page 2 should report end of data")
	}
	for _, ev := range page2 {
		if ev.EndTime.After(page1[len(page1)-1].EndTime) {
			t.Fatalf("page 2 event %s overlaps page 1", ev.Name)
		}
	}
}

func TestPastEventsOverlapOrdering(t *testing.T) {
	client := testutil.Firestore(t)
	svc := NewEventService(client, NewUserService(client))
	ctx := context.Background()

	testutil.ClearCollection(t, client, "events")
	now := time.Now().UTC()

	// A long event that ends latest but started first.
	if _, err := svc.CreateEvent(ctx, &models.Event{
		Name:      "Long Social",
		EventType: models.EventTypeSocialEvent,
		StartTime: now.Add(-10 * time.Hour),
		EndTime:   now.Add(-time.Hour),
	}); err != nil {
		t.Fatalf("create long: %v", err)
	}
	if _, err := svc.CreateEvent(ctx, &models.Event{
		Name:      "Quick Workshop",
		EventType: models.EventTypeWorkshop,
		StartTime: now.Add(-3 * time.Hour),
		EndTime:   now.Add(-2 * time.Hour),
	}); err != nil {
		t.Fatalf("create quick: %v", err)
	}

	events, _, _, err := svc.GetPastEvents(ctx, 10, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	// Within a page the most recently started event comes first, even when
	// another event ended later.
	if events[0].Name != "Quick Workshop" || events[1].Name != "Long Social" {
		t.Fatalf("order = %s, %s; want Quick Workshop first", events[0].Name, events[1].Name)
	}
}

func TestGetUserEventsShaping(t *testing.T) {
	client := testutil.Firestore(t)
	svc := NewEventService(client, NewUserService(client))
	ctx := context.Background()

	testutil.ClearCollection(t, client, "events")
	now := time.Now().UTC()
	mk := func(name, committee string, et models.EventType, hidden bool) {
		t.Helper()
		_, err := svc.CreateEvent(ctx, &models.Event{
			Name:      name,
			EventType: et,
			Committee: committee,
			StartTime: now.Add(time.Hour),
			EndTime:   now.Add(2 * time.Hour),
			Hidden:    hidden,
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	mk("My Committee Meeting", "shaping-committee", models.EventTypeCommitteeMeeting, false)
	mk("Interesting Workshop", "", models.EventTypeWorkshop, false)
	mk("Hidden Meeting", "shaping-committee", models.EventTypeCommitteeMeeting, true)
	mk("Unrelated Social", "", models.EventTypeSocialEvent, false)

	events, err := svc.GetUserEvents(ctx, []string{"shaping-committee"}, []string{string(models.EventTypeWorkshop)})
	if err != nil {
		t.Fatalf("user events: %v", err)
	}

	got := map[string]bool{}
	for _, ev := range events {
		got[ev.Name] = true
	}
	if !got["My Committee Meeting"] || !got["Interesting Workshop"] {
		t.Fatalf("expected committee and interest matches, got %v", got)
	}
	if got["Hidden Meeting"] {
		t.Fatal("hidden event leaked into the shaped list")
	}
	if got["Unrelated Social"] {
		t.Fatal("unmatched event leaked into the shaped list")
	}
}
