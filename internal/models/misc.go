package models

import "time"

// Link is one of the reserved links/{1..8} documents for social and membership
// URLs shown in the app.
type Link struct {
	ID       int    `json:"id" firestore:"id"`
	Name     string `json:"name" firestore:"name"`
	URL      string `json:"url" firestore:"url"`
	ImageURL string `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
}

// Slide is a featured-slides carousel entry.
type Slide struct {
	ID          string    `json:"id" firestore:"-"`
	URL         string    `json:"url" firestore:"url"`
	StoragePath string    `json:"storagePath" firestore:"storagePath"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
}

// OfficerStatus is an office-hours/officer-status/officers/{uid} document.
type OfficerStatus struct {
	UID       string    `json:"uid" firestore:"uid"`
	SignedIn  bool      `json:"signedIn" firestore:"signedIn"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// MemberOfTheMonth is the member-of-the-month/member singleton.
type MemberOfTheMonth struct {
	UID  string `json:"uid" firestore:"uid"`
	Name string `json:"name" firestore:"name"`
}

// ResumeVerificationRequest is a resumeVerification/{uid} document created when
// a member submits their resume to the public bank.
type ResumeVerificationRequest struct {
	UID         string    `json:"uid" firestore:"uid"`
	ResumeURL   string    `json:"resumePublicURL" firestore:"resumePublicURL"`
	SubmittedAt time.Time `json:"submittedAt" firestore:"submittedAt"`
}
