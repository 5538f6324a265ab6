// Package teampolicy answers team-scoped authorization questions from the
// team document's embedded roster. It is pure: callers load the team and
// pass it in, so one read answers every check a handler needs.
package teampolicy

import (
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role returns the user's role on the team and whether they are a member.
func Role(t models.Team, userID primitive.ObjectID) (string, bool) {
	for _, m := range t.Members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// IsMember reports whether the user appears on the team's roster.
func IsMember(t models.Team, userID primitive.ObjectID) bool {
	_, ok := Role(t, userID)
	return ok
}

// IsAdmin reports whether the user is an admin of the team.
func IsAdmin(t models.Team, userID primitive.ObjectID) bool {
	role, ok := Role(t, userID)
	return ok && role == models.RoleAdmin
}

// CanInvite reports whether the user may invite others: admins always,
// plain members only when the team allows member invites. Viewers never.
func CanInvite(t models.Team, userID primitive.ObjectID) bool {
	role, ok := Role(t, userID)
	if !ok {
		return false
	}
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleMember:
		return t.Settings.AllowMemberInvites
	default:
		return false
	}
}

// CanEdit reports whether the user may create or modify team content
// (projects, tasks). Viewers are read-only.
func CanEdit(t models.Team, userID primitive.ObjectID) bool {
	role, ok := Role(t, userID)
	return ok && role != models.RoleViewer
}

// CanView reports whether the user may read team content. Public teams
// are readable by any signed-in user; private teams require membership.
func CanView(t models.Team, userID primitive.ObjectID) bool {
	if t.Settings.Visibility == models.VisibilityPublic {
		return true
	}
	return IsMember(t, userID)
}
