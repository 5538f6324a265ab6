// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member roles. A team always retains at least one admin; removal or
// demotion paths that would violate that are rejected by the team store.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// IsValidRole reports whether role is one of admin/member/viewer.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember || role == RoleViewer
}

// Team visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Membership links a user to a team. Memberships have no identity of
// their own: they live inside the team document and a user appears at
// most once per team.
type Membership struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}

// TeamSettings controls invitation and join behavior for one team.
type TeamSettings struct {
	AllowMemberInvites bool   `bson:"allow_member_invites" json:"allow_member_invites"`
	DefaultRole        string `bson:"default_role" json:"default_role"` // "member" | "viewer"
	Visibility         string `bson:"visibility" json:"visibility"`     // "public" | "private"
}

// DefaultTeamSettings matches what a freshly created team gets.
func DefaultTeamSettings() TeamSettings {
	return TeamSettings{
		AllowMemberInvites: false,
		DefaultRole:        RoleMember,
		Visibility:         VisibilityPrivate,
	}
}

// Team is the tenancy unit owning members, messages, activities, and
// projects. JoinCode is a unique 6-character uppercase alphanumeric
// string assigned at creation.
type Team struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`
	Members     []Membership       `bson:"members" json:"members"`
	Settings    TeamSettings       `bson:"settings" json:"settings"`
	JoinCode    string             `bson:"join_code,omitempty" json:"join_code,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
