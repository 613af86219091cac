package models

import (
	"time"
)

// Role names a capability flag on a user's public record. Flags are independent
// booleans in Firestore, not an enum; a user may hold several at once.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleOfficer        Role = "officer"
	RoleDeveloper      Role = "developer"
	RoleLead           Role = "lead"
	RoleRepresentative Role = "representative"
	RoleCoach          Role = "coach"
)

// DefaultPrivilegedRoles is the role set checked when a caller does not name one.
var DefaultPrivilegedRoles = []Role{
	RoleAdmin,
	RoleOfficer,
	RoleDeveloper,
	RoleLead,
	RoleRepresentative,
}

// Roles mirrors the publicInfo.roles map stored on each user document.
type Roles struct {
	Admin          bool   `json:"admin" firestore:"admin"`
	Officer        bool   `json:"officer" firestore:"officer"`
	Developer      bool   `json:"developer" firestore:"developer"`
	Lead           bool   `json:"lead" firestore:"lead"`
	Representative bool   `json:"representative" firestore:"representative"`
	Coach          bool   `json:"coach" firestore:"coach"`
	CustomTitle    string `json:"customTitle,omitempty" firestore:"customTitle,omitempty"`
}

// Has reports whether the named flag is set. Unknown role names are false.
func (r Roles) Has(role Role) bool {
	switch role {
	case RoleAdmin:
		return r.Admin
	case RoleOfficer:
		return r.Officer
	case RoleDeveloper:
		return r.Developer
	case RoleLead:
		return r.Lead
	case RoleRepresentative:
		return r.Representative
	case RoleCoach:
		return r.Coach
	}
	return false
}

// PublicUserInfo is the users/{uid} document visible to other members.
// UID is immutable and doubles as the document key.
type PublicUserInfo struct {
	UID         string `json:"uid" firestore:"uid"`
	Name        string `json:"name" firestore:"name"`
	DisplayName string `json:"displayName" firestore:"displayName"`
	Email       string `json:"email,omitempty" firestore:"email,omitempty"`
	Major       string `json:"major,omitempty" firestore:"major,omitempty"`
	ClassYear   string `json:"classYear,omitempty" firestore:"classYear,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`

	Roles      Roles    `json:"roles" firestore:"roles"`
	Committees []string `json:"committees" firestore:"committees"`
	Interests  []string `json:"interests,omitempty" firestore:"interests,omitempty"`

	Points          float64 `json:"points" firestore:"points"`
	PointsThisMonth float64 `json:"pointsThisMonth" firestore:"pointsThisMonth"`

	// ResumeURL is written by profile settings; ResumePublicURL by the resume
	// bank submit flow. The split is historical; both fields are kept as-is.
	ResumeURL       string `json:"resumeURL,omitempty" firestore:"resumeURL,omitempty"`
	ResumePublicURL string `json:"resumePublicURL,omitempty" firestore:"resumePublicURL,omitempty"`
	ResumeVerified  bool   `json:"resumeVerified" firestore:"resumeVerified"`

	ChapterExpiration  *time.Time `json:"chapterExpiration,omitempty" firestore:"chapterExpiration,omitempty"`
	NationalExpiration *time.Time `json:"nationalExpiration,omitempty" firestore:"nationalExpiration,omitempty"`
}

// UserSettings holds display preferences kept under private/privateInfo.
type UserSettings struct {
	DarkMode         bool `json:"darkMode" firestore:"darkMode"`
	UseSystemDefault bool `json:"useSystemDefault" firestore:"useSystemDefault"`
}

// PrivateUserInfo is the users/{uid}/private/privateInfo document, readable only
// by the user themselves.
type PrivateUserInfo struct {
	CompletedAccountSetup bool         `json:"completedAccountSetup" firestore:"completedAccountSetup"`
	Settings              UserSettings `json:"settings" firestore:"settings"`
	ExpoPushTokens        []string     `json:"expoPushTokens" firestore:"expoPushTokens"`
}

// User pairs both halves of a member record.
type User struct {
	PublicInfo  PublicUserInfo   `json:"publicInfo"`
	PrivateInfo *PrivateUserInfo `json:"private,omitempty"`
}

// HasPrivileges reports whether any of the requested role flags is set on the
// user. With no roles given it checks DefaultPrivilegedRoles. Nil users hold no
// privileges.
func HasPrivileges(u *User, roles ...Role) bool {
	if u == nil {
		return false
	}
	if len(roles) == 0 {
		roles = DefaultPrivilegedRoles
	}
	for _, role := range roles {
		if u.PublicInfo.Roles.Has(role) {
			return true
		}
	}
	return false
}
