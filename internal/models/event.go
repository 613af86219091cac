package models

import (
	"errors"
	"fmt"
	"time"
)

// EventType categorizes chapter events for filtering and point assignment.
type EventType string

const (
	EventTypeGeneralMeeting   EventType = "General Meeting"
	EventTypeCommitteeMeeting EventType = "Committee Meeting"
	EventTypeStudyHours       EventType = "Study Hours"
	EventTypeWorkshop         EventType = "Workshop"
	EventTypeVolunteerEvent   EventType = "Volunteer Event"
	EventTypeSocialEvent      EventType = "Social Event"
	EventTypeIntramuralEvent  EventType = "Intramural Event"
	EventTypeCustomEvent      EventType = "Custom Event"
)

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" firestore:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude"`
}

// Event is an events/{id} document. Buffers are milliseconds added around the
// start/end times when computing the sign-in window, matching the wire format
// the mobile clients already store.
type Event struct {
	ID          string    `json:"id" firestore:"-"`
	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	EventType   EventType `json:"eventType" firestore:"eventType"`
	Committee   string    `json:"committee,omitempty" firestore:"committee,omitempty"`

	StartTime       time.Time `json:"startTime" firestore:"startTime"`
	EndTime         time.Time `json:"endTime" firestore:"endTime"`
	StartTimeBuffer int64     `json:"startTimeBuffer" firestore:"startTimeBuffer"`
	EndTimeBuffer   int64     `json:"endTimeBuffer" firestore:"endTimeBuffer"`

	Location         *GeoPoint `json:"location,omitempty" firestore:"location,omitempty"`
	Geofencing       bool      `json:"geofencing" firestore:"geofencing"`
	GeofencingRadius float64   `json:"geofencingRadius,omitempty" firestore:"geofencingRadius,omitempty"`

	Points        float64 `json:"points" firestore:"points"`
	SignOutPoints float64 `json:"signOutPoints,omitempty" firestore:"signOutPoints,omitempty"`
	Hidden        bool    `json:"hiddenEvent" firestore:"hiddenEvent"`
	CreatedBy     string  `json:"createdBy,omitempty" firestore:"createdBy,omitempty"`
}

var (
	ErrEventNameRequired  = errors.New("event name is required")
	ErrEventTimesInvalid  = errors.New("event end time must not precede start time")
	ErrNegativeBuffer     = errors.New("sign-in/out buffers must not be negative")
	ErrNegativePoints     = errors.New("event points must not be negative")
	ErrGeofenceNeedsSetup = errors.New("geofenced events require a location and a positive radius")
)

// Validate rejects numeric ranges the backend must never store. The historical
// client wrote negative buffers unchecked; the write path now refuses them.
func (e *Event) Validate() error {
	if e.Name == "" {
		return ErrEventNameRequired
	}
	if e.EndTime.Before(e.StartTime) {
		return ErrEventTimesInvalid
	}
	if e.StartTimeBuffer < 0 || e.EndTimeBuffer < 0 {
		return fmt.Errorf("%w: startTimeBuffer=%d endTimeBuffer=%d", ErrNegativeBuffer, e.StartTimeBuffer, e.EndTimeBuffer)
	}
	if e.Points < 0 || e.SignOutPoints < 0 {
		return ErrNegativePoints
	}
	if e.Geofencing && (e.Location == nil || e.GeofencingRadius <= 0) {
		return ErrGeofenceNeedsSetup
	}
	return nil
}

// SignInWindow returns the interval during which sign-ins are accepted.
func (e *Event) SignInWindow() (open, close time.Time) {
	open = e.StartTime.Add(-time.Duration(e.StartTimeBuffer) * time.Millisecond)
	close = e.EndTime.Add(time.Duration(e.EndTimeBuffer) * time.Millisecond)
	return open, close
}

// EventLog records one member's attendance at one event. The same document is
// written under events/{id}/logs/{uid} and mirrored to
// users/{uid}/event-logs/{id} for user-scoped queries.
type EventLog struct {
	UID         string     `json:"uid" firestore:"uid"`
	EventID     string     `json:"eventId" firestore:"eventId"`
	SignInTime  *time.Time `json:"signInTime,omitempty" firestore:"signInTime,omitempty"`
	SignOutTime *time.Time `json:"signOutTime,omitempty" firestore:"signOutTime,omitempty"`
	Points      float64    `json:"points" firestore:"points"`
	Verified    bool       `json:"verified" firestore:"verified"`
}

// AttendanceNumbers partitions an event's logs by completeness.
type AttendanceNumbers struct {
	SignedIn  int `json:"signedIn"`
	SignedOut int `json:"signedOut"`
}
