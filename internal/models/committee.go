package models

import "time"

// Committee is a committees/{firebaseDocName} document.
type Committee struct {
	FirebaseDocName string   `json:"firebaseDocName" firestore:"firebaseDocName"`
	Name            string   `json:"name" firestore:"name"`
	Color           string   `json:"color,omitempty" firestore:"color,omitempty"`
	Logo            string   `json:"logo,omitempty" firestore:"logo,omitempty"`
	Head            string   `json:"head,omitempty" firestore:"head,omitempty"`
	Representatives []string `json:"representatives" firestore:"representatives"`
	Leads           []string `json:"leads" firestore:"leads"`
	ApplicationLink string   `json:"applicationLink,omitempty" firestore:"applicationLink,omitempty"`
	Description     string   `json:"description,omitempty" firestore:"description,omitempty"`
	MemberCount     int      `json:"memberCount" firestore:"memberCount"`
	IsOpen          bool     `json:"isOpen" firestore:"isOpen"`
}

// CommitteeRequest is a committeeVerification/{committee}/requests/{uid}
// document. It exists only while the request is pending; approval, denial and
// cancellation all delete it.
type CommitteeRequest struct {
	UID         string    `json:"uid" firestore:"uid"`
	RequestedAt time.Time `json:"requestedAt" firestore:"requestedAt"`
}
