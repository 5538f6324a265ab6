// internal/app/realtime/events.go
package realtime

import "encoding/json"

// Client-to-server event names.
const (
	EvJoinTeamRoom  = "join_team_room"
	EvLeaveTeamRoom = "leave_team_room"
	EvTypingStart   = "typing_start"
	EvTypingStop    = "typing_stop"
)

// Server-to-room event names.
const (
	EvNewMessage        = "new_message"
	EvMessageUpdated    = "message_updated"
	EvMessageDeleted    = "message_deleted"
	EvMemberJoined      = "member_joined"
	EvMemberLeft        = "member_left"
	EvMemberRoleUpdated = "member_role_updated"
	EvTeamUpdated       = "team_updated"
	EvNewActivity       = "new_activity"
	EvUserTyping        = "user_typing"
	EvUserStopTyping    = "user_stop_typing"
)

// inbound is the envelope clients send.
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// roomRef is the data payload of room and typing events from clients.
type roomRef struct {
	TeamID string `json:"teamId"`
}

// outbound is the envelope the server sends to room members.
type outbound struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// TypingPayload is broadcast to a room (minus the sender) while a member
// is composing.
type TypingPayload struct {
	TeamID   string `json:"teamId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

func encode(event string, data interface{}) ([]byte, error) {
	return json.Marshal(outbound{Event: event, Data: data})
}
