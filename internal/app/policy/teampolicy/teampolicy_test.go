// internal/app/policy/teampolicy/teampolicy_test.go
package teampolicy_test

import (
	"testing"

	"github.com/dalemusser/collabhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	adminID    = primitive.NewObjectID()
	memberID   = primitive.NewObjectID()
	viewerID   = primitive.NewObjectID()
	outsiderID = primitive.NewObjectID()
)

func rosterTeam(settings models.TeamSettings) models.Team {
	return models.Team{
		ID: primitive.NewObjectID(),
		Members: []models.Membership{
			{UserID: adminID, Role: models.RoleAdmin},
			{UserID: memberID, Role: models.RoleMember},
			{UserID: viewerID, Role: models.RoleViewer},
		},
		Settings: settings,
	}
}

func TestRoleAndMembership(t *testing.T) {
	team := rosterTeam(models.DefaultTeamSettings())

	role, ok := teampolicy.Role(team, memberID)
	if !ok || role != models.RoleMember {
		t.Errorf("Role(member) = %q, %v", role, ok)
	}
	if _, ok := teampolicy.Role(team, outsiderID); ok {
		t.Error("Role(outsider) should report not a member")
	}
	if !teampolicy.IsMember(team, viewerID) {
		t.Error("viewer is on the roster")
	}
	if teampolicy.IsAdmin(team, memberID) {
		t.Error("member is not an admin")
	}
	if !teampolicy.IsAdmin(team, adminID) {
		t.Error("admin should be an admin")
	}
}

func TestCanInvite(t *testing.T) {
	tests := []struct {
		name               string
		userID             primitive.ObjectID
		allowMemberInvites bool
		want               bool
	}{
		{"admin always", adminID, false, true},
		{"member when allowed", memberID, true, true},
		{"member when not allowed", memberID, false, false},
		{"viewer even when allowed", viewerID, true, false},
		{"outsider", outsiderID, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := models.DefaultTeamSettings()
			settings.AllowMemberInvites = tt.allowMemberInvites
			team := rosterTeam(settings)
			if got := teampolicy.CanInvite(team, tt.userID); got != tt.want {
				t.Errorf("CanInvite = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanEdit(t *testing.T) {
	team := rosterTeam(models.DefaultTeamSettings())

	if !teampolicy.CanEdit(team, adminID) || !teampolicy.CanEdit(team, memberID) {
		t.Error("admins and members can edit")
	}
	if teampolicy.CanEdit(team, viewerID) {
		t.Error("viewers are read-only")
	}
	if teampolicy.CanEdit(team, outsiderID) {
		t.Error("outsiders cannot edit")
	}
}

func TestCanView(t *testing.T) {
	private := rosterTeam(models.DefaultTeamSettings())
	if !teampolicy.CanView(private, viewerID) {
		t.Error("roster members can view a private team")
	}
	if teampolicy.CanView(private, outsiderID) {
		t.Error("outsiders cannot view a private team")
	}

	settings := models.DefaultTeamSettings()
	settings.Visibility = models.VisibilityPublic
	public := rosterTeam(settings)
	if !teampolicy.CanView(public, outsiderID) {
		t.Error("any signed-in user can view a public team")
	}
}
