package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/metrics"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/util"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrOutsideSignWindow = errors.New("outside the event sign-in window")
	ErrOutsideGeofence   = errors.New("location is outside the event geofence")
	ErrAlreadySignedIn   = errors.New("already signed in to this event")
	ErrNotSignedIn       = errors.New("not signed in to this event")
)

// myEventsCap bounds the shaped "my events" response.
const myEventsCap = 24

type EventService struct {
	client *firestore.Client
	users  *UserService
}

func NewEventService(client *firestore.Client, users *UserService) *EventService {
	return &EventService{client: client, users: users}
}

func (s *EventService) ref(id string) *firestore.DocumentRef {
	return s.client.Collection(colEvents).Doc(id)
}

func (s *EventService) logRef(eventID, uid string) *firestore.DocumentRef {
	return s.ref(eventID).Collection(subcolEventLogs).Doc(uid)
}

func (s *EventService) userLogRef(uid, eventID string) *firestore.DocumentRef {
	return s.client.Collection(colUsers).Doc(uid).Collection(colUserEventLogs).Doc(eventID)
}

// CreateEvent validates and stores a new event, returning its generated ID.
func (s *EventService) CreateEvent(ctx context.Context, ev *models.Event) (string, error) {
	if err := ev.Validate(); err != nil {
		return "", err
	}
	id := uuid.New().String()
	ev.ID = id
	if _, err := s.ref(id).Set(ctx, ev); err != nil {
		return "", fmt.Errorf("create event: %w", err)
	}
	return id, nil
}

// UpdateEvent replaces an existing event with ev wholesale. Callers send the
// full event; the existence check keeps updates from creating documents.
func (s *EventService) UpdateEvent(ctx context.Context, id string, ev *models.Event) error {
	if _, err := s.GetEvent(ctx, id); err != nil {
		return err
	}
	ev.ID = id
	if err := ev.Validate(); err != nil {
		return err
	}
	if _, err := s.ref(id).Set(ctx, ev); err != nil {
		return fmt.Errorf("update event %s: %w", id, err)
	}
	return nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	snap, err := s.ref(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	var ev models.Event
	if err := snap.DataTo(&ev); err != nil {
		return nil, fmt.Errorf("decode event %s: %w", id, err)
	}
	ev.ID = id
	return &ev, nil
}

func (s *EventService) collectEvents(iter *firestore.DocumentIterator) ([]models.Event, error) {
	defer iter.Stop()
	var events []models.Event
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				return events, nil
			}
			return nil, fmt.Errorf("list events: %w", err)
		}
		var ev models.Event
		if err := doc.DataTo(&ev); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", doc.Ref.ID, err)
		}
		ev.ID = doc.Ref.ID
		events = append(events, ev)
	}
}

// GetUpcomingEvents returns events that have not yet ended, soonest first.
func (s *EventService) GetUpcomingEvents(ctx context.Context) ([]models.Event, error) {
	q := s.client.Collection(colEvents).
		Where("endTime", ">=", time.Now().UTC()).
		OrderBy("endTime", firestore.Asc)
	events, err := s.collectEvents(q.Documents(ctx))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}

// GetPastEvents pages through ended events, most recent first. The cursor is
// the last event ID of the previous page; endOfData reports a short page.
func (s *EventService) GetPastEvents(ctx context.Context, limit int, cursor string) ([]models.Event, string, bool, error) {
	if limit <= 0 {
		limit = 20
	}
	q := s.client.Collection(colEvents).
		Where("endTime", "<", time.Now().UTC()).
		OrderBy("endTime", firestore.Desc).
		Limit(limit)

	if cursor != "" {
		snap, err := s.ref(cursor).Get(ctx)
		if err != nil {
			if isNotFound(err) {
				return nil, "", false, ErrEventNotFound
			}
			return nil, "", false, fmt.Errorf("resolve event cursor: %w", err)
		}
		q = q.StartAfter(snap)
	}

	events, err := s.collectEvents(q.Documents(ctx))
	if err != nil {
		return nil, "", false, err
	}

	// The cursor follows the query's endTime order, so fix it before the
	// in-page sort below reorders overlapping events.
	endOfData := len(events) < limit
	nextCursor := ""
	if len(events) > 0 && !endOfData {
		nextCursor = events[len(events)-1].ID
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.After(events[j].StartTime)
	})
	return events, nextCursor, endOfData, nil
}

// GetUserEvents shapes the upcoming list for one member: events belonging to
// a committee they are in or matching an interest, hidden events excluded,
// capped. Filtering happens in memory because both predicates are ORs over
// lists, which the query planner cannot combine.
func (s *EventService) GetUserEvents(ctx context.Context, committees []string, interests []string) ([]models.Event, error) {
	upcoming, err := s.GetUpcomingEvents(ctx)
	if err != nil {
		return nil, err
	}

	inCommittee := make(map[string]bool, len(committees))
	for _, c := range committees {
		inCommittee[c] = true
	}
	interested := make(map[string]bool, len(interests))
	for _, i := range interests {
		interested[i] = true
	}

	var matched []models.Event
	for _, ev := range upcoming {
		if ev.Hidden {
			continue
		}
		if inCommittee[ev.Committee] || interested[string(ev.EventType)] {
			matched = append(matched, ev)
			if len(matched) == myEventsCap {
				break
			}
		}
	}
	return matched, nil
}

// DeleteEvent removes the event, its attendance logs and every member's
// mirrored log entry.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	logs := s.ref(id).Collection(subcolEventLogs)
	iter := logs.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				break
			}
			return fmt.Errorf("list logs for event %s: %w", id, err)
		}
		if _, err := s.userLogRef(doc.Ref.ID, id).Delete(ctx); err != nil {
			return fmt.Errorf("delete mirrored log %s/%s: %w", doc.Ref.ID, id, err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("delete log %s/%s: %w", id, doc.Ref.ID, err)
		}
	}
	if _, err := s.ref(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}

func (s *EventService) checkGeofence(ev *models.Event, loc *models.GeoPoint) error {
	if !ev.Geofencing || ev.Location == nil || ev.GeofencingRadius <= 0 {
		return nil
	}
	if loc == nil {
		return ErrOutsideGeofence
	}
	d := util.HaversineMeters(ev.Location.Latitude, ev.Location.Longitude, loc.Latitude, loc.Longitude)
	if d > ev.GeofencingRadius {
		return ErrOutsideGeofence
	}
	return nil
}

// SignIn records attendance for a member. The current time must fall inside
// the buffered sign-in window and, when the event is geofenced, the reported
// location must lie within the radius. The log is written to both the event's
// subcollection and the member's mirror, then points are credited.
func (s *EventService) SignIn(ctx context.Context, eventID, uid string, loc *models.GeoPoint) (*models.EventLog, error) {
	ev, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	open, close := ev.SignInWindow()
	if now.Before(open) || now.After(close) {
		return nil, ErrOutsideSignWindow
	}
	if err := s.checkGeofence(ev, loc); err != nil {
		return nil, err
	}

	snap, err := s.logRef(eventID, uid).Get(ctx)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("check log %s/%s: %w", eventID, uid, err)
	}
	if err == nil && snap.Exists() {
		return nil, ErrAlreadySignedIn
	}

	log := &models.EventLog{
		UID:        uid,
		EventID:    eventID,
		SignInTime: &now,
		Points:     ev.Points,
		Verified:   true,
	}
	if _, err := s.logRef(eventID, uid).Set(ctx, log); err != nil {
		return nil, fmt.Errorf("write log %s/%s: %w", eventID, uid, err)
	}
	if _, err := s.userLogRef(uid, eventID).Set(ctx, log); err != nil {
		return nil, fmt.Errorf("mirror log %s/%s: %w", uid, eventID, err)
	}

	if ev.Points > 0 {
		if err := s.users.AddPoints(ctx, uid, ev.Points); err != nil {
			return nil, fmt.Errorf("credit points for %s: %w", uid, err)
		}
	}
	metrics.EventSignIns.Inc()
	return log, nil
}

// SignOut stamps the sign-out time on an existing log and credits the event's
// sign-out points when configured.
func (s *EventService) SignOut(ctx context.Context, eventID, uid string, loc *models.GeoPoint) (*models.EventLog, error) {
	ev, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// Sign-out opens at the event start, not at the buffered sign-in open.
	now := time.Now().UTC()
	_, close := ev.SignInWindow()
	if now.Before(ev.StartTime) || now.After(close) {
		return nil, ErrOutsideSignWindow
	}
	if err := s.checkGeofence(ev, loc); err != nil {
		return nil, err
	}

	snap, err := s.logRef(eventID, uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotSignedIn
		}
		return nil, fmt.Errorf("check log %s/%s: %w", eventID, uid, err)
	}
	var log models.EventLog
	if err := snap.DataTo(&log); err != nil {
		return nil, fmt.Errorf("decode log %s/%s: %w", eventID, uid, err)
	}

	log.SignOutTime = &now
	if ev.SignOutPoints > 0 {
		log.Points += ev.SignOutPoints
	}
	if _, err := s.logRef(eventID, uid).Set(ctx, &log); err != nil {
		return nil, fmt.Errorf("write log %s/%s: %w", eventID, uid, err)
	}
	if _, err := s.userLogRef(uid, eventID).Set(ctx, &log); err != nil {
		return nil, fmt.Errorf("mirror log %s/%s: %w", uid, eventID, err)
	}

	if ev.SignOutPoints > 0 {
		if err := s.users.AddPoints(ctx, uid, ev.SignOutPoints); err != nil {
			return nil, fmt.Errorf("credit sign-out points for %s: %w", uid, err)
		}
	}
	return &log, nil
}

// GetAttendanceNumbers counts how many attendees signed in and out.
func (s *EventService) GetAttendanceNumbers(ctx context.Context, eventID string) (*models.AttendanceNumbers, error) {
	iter := s.ref(eventID).Collection(subcolEventLogs).Documents(ctx)
	defer iter.Stop()
	nums := &models.AttendanceNumbers{}
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				return nums, nil
			}
			return nil, fmt.Errorf("list logs for event %s: %w", eventID, err)
		}
		var log models.EventLog
		if err := doc.DataTo(&log); err != nil {
			return nil, fmt.Errorf("decode log %s/%s: %w", eventID, doc.Ref.ID, err)
		}
		if log.SignInTime != nil {
			nums.SignedIn++
		}
		if log.SignOutTime != nil {
			nums.SignedOut++
		}
	}
}

// GetEventLogs lists every attendance log for an event.
func (s *EventService) GetEventLogs(ctx context.Context, eventID string) ([]models.EventLog, error) {
	iter := s.ref(eventID).Collection(subcolEventLogs).Documents(ctx)
	defer iter.Stop()
	var logs []models.EventLog
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				return logs, nil
			}
			return nil, fmt.Errorf("list logs for event %s: %w", eventID, err)
		}
		var log models.EventLog
		if err := doc.DataTo(&log); err != nil {
			return nil, fmt.Errorf("decode log %s/%s: %w", eventID, doc.Ref.ID, err)
		}
		logs = append(logs, log)
	}
}

// GetUserEventLogs pages through one member's mirrored attendance history,
// most recent sign-in first.
func (s *EventService) GetUserEventLogs(ctx context.Context, uid string, limit int, cursor string) ([]models.EventLog, string, bool, error) {
	if limit <= 0 {
		limit = 20
	}
	col := s.client.Collection(colUsers).Doc(uid).Collection(colUserEventLogs)
	q := col.OrderBy("signInTime", firestore.Desc).Limit(limit)

	if cursor != "" {
		snap, err := col.Doc(cursor).Get(ctx)
		if err != nil {
			if isNotFound(err) {
				return nil, "", false, ErrEventNotFound
			}
			return nil, "", false, fmt.Errorf("resolve log cursor: %w", err)
		}
		q = q.StartAfter(snap)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()
	var logs []models.EventLog
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				break
			}
			return nil, "", false, fmt.Errorf("list logs for user %s: %w", uid, err)
		}
		var log models.EventLog
		if err := doc.DataTo(&log); err != nil {
			return nil, "", false, fmt.Errorf("decode log %s/%s: %w", uid, doc.Ref.ID, err)
		}
		if log.EventID == "" {
			log.EventID = doc.Ref.ID
		}
		logs = append(logs, log)
	}

	endOfData := len(logs) < limit
	nextCursor := ""
	if len(logs) > 0 && !endOfData {
		nextCursor = logs[len(logs)-1].EventID
	}
	return logs, nextCursor, endOfData, nil
}
