// internal/app/features/teams/types.go
package teams

import (
	"time"

	"github.com/dalemusser/collabhub/internal/domain/models"
)

type createTeamRequest struct {
	Name        string               `json:"name" validate:"required,min=2,max=100"`
	Description string               `json:"description" validate:"omitempty,max=500"`
	Settings    *teamSettingsRequest `json:"settings"`
}

type updateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type teamSettingsRequest struct {
	AllowMemberInvites *bool   `json:"allow_member_invites"`
	DefaultRole        *string `json:"default_role" validate:"omitempty,oneof=member viewer"`
	Visibility         *string `json:"visibility" validate:"omitempty,oneof=public private"`
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin member viewer"`
}

type joinByCodeRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member viewer"`
}

// memberView is a roster entry with the member's identity populated.
type memberView struct {
	User     *models.UserRef `json:"user"`
	Role     string          `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
}

// teamResponse is the team document with member identities populated.
// The outer Members field shadows the embedded roster in JSON.
type teamResponse struct {
	models.Team
	Members []memberView    `json:"members"`
	Creator *models.UserRef `json:"creator,omitempty"`
}

// memberEventPayload is broadcast on membership changes. Activity is the
// feed record the change produced; it is absent when the feed write
// failed, since the change itself still stands.
type memberEventPayload struct {
	TeamID   string           `json:"teamId"`
	User     *models.UserRef  `json:"user,omitempty"`
	UserID   string           `json:"userId,omitempty"`
	Role     string           `json:"role,omitempty"`
	Activity *models.Activity `json:"activity,omitempty"`
}
