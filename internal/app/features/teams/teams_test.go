// internal/app/features/teams/teams_test.go
package teams_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/collabhub/internal/app/features/teams"
	"github.com/dalemusser/collabhub/internal/app/realtime"
	activitystore "github.com/dalemusser/collabhub/internal/app/store/activities"
	projectstore "github.com/dalemusser/collabhub/internal/app/store/projects"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/collabhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// roomRecorder captures room broadcasts so tests can assert on the
// events a handler pushed without running a websocket hub.
type roomRecorder struct {
	mu     sync.Mutex
	events []roomEvent
}

type roomEvent struct {
	teamID string
	event  string
	data   interface{}
}

func (rr *roomRecorder) Broadcast(teamID, event string, data interface{}) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.events = append(rr.events, roomEvent{teamID: teamID, event: event, data: data})
}

func (rr *roomRecorder) byEvent(event string) []roomEvent {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	var out []roomEvent
	for _, ev := range rr.events {
		if ev.event == event {
			out = append(out, ev)
		}
	}
	return out
}

// decodeEventData round-trips a captured payload through JSON so tests
// see the same shape a connected client would.
func decodeEventData(t *testing.T, ev roomEvent, into interface{}) {
	t.Helper()
	b, err := json.Marshal(ev.data)
	if err != nil {
		t.Fatalf("marshal broadcast payload: %v", err)
	}
	if err := json.Unmarshal(b, into); err != nil {
		t.Fatalf("unmarshal broadcast payload: %v", err)
	}
}

func newTestHandler(t *testing.T, db *mongo.Database) (*teams.Handler, *roomRecorder) {
	t.Helper()
	rooms := &roomRecorder{}
	h := teams.NewHandler(
		db,
		teamstore.New(db),
		userstore.New(db),
		activitystore.New(db),
		projectstore.New(db),
		activitylog.New(activitystore.New(db), zap.NewNop()),
		rooms,
		zap.NewNop(),
	)
	return h, rooms
}

// teamBody is the response shape of a populated team.
type teamBody struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JoinCode string `json:"join_code"`
	Members  []struct {
		User *models.UserRef `json:"user"`
		Role string          `json:"role"`
	} `json:"members"`
	Creator  *models.UserRef     `json:"creator"`
	Settings models.TeamSettings `json:"settings"`
}

func countActivities(t *testing.T, db *mongo.Database, teamID primitive.ObjectID, action string) int64 {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	n, err := db.Collection("activities").CountDocuments(ctx, bson.M{"team_id": teamID, "action": action})
	if err != nil {
		t.Fatalf("count activities: %v", err)
	}
	return n
}

func loadTeamDoc(t *testing.T, db *mongo.Database, id primitive.ObjectID) models.Team {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	var team models.Team
	if err := db.Collection("teams").FindOne(ctx, bson.M{"_id": id}).Decode(&team); err != nil {
		t.Fatalf("load team doc: %v", err)
	}
	return team
}

// Creating a team and inviting a second member by email is the backbone
// of team setup, so this walks the whole flow.
func TestCreateAndInviteFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h, rooms := newTestHandler(t, db)

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")

	// Create.
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Platform","description":"infra work"}`))
	r = testutil.SignedInRequest(r, ada)
	rec := httptest.NewRecorder()
	h.HandleCreateTeam(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d want 201, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Success bool     `json:"success"`
		Data    teamBody `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode create body: %v", err)
	}
	body := created.Data
	if body.Name != "Platform" {
		t.Errorf("name: got %q", body.Name)
	}
	if len(body.JoinCode) != 6 {
		t.Errorf("join code: got %q want 6 characters", body.JoinCode)
	}
	if len(body.Members) != 1 || body.Members[0].Role != models.RoleAdmin {
		t.Fatalf("creator must be the sole admin, got %+v", body.Members)
	}
	if body.Members[0].User == nil || body.Members[0].User.Name != "Ada" {
		t.Errorf("member identity not populated: %+v", body.Members[0].User)
	}
	if body.Creator == nil || body.Creator.Name != "Ada" {
		t.Errorf("creator not populated: %+v", body.Creator)
	}

	teamID, err := primitive.ObjectIDFromHex(body.ID)
	if err != nil {
		t.Fatalf("team id in response: %v", err)
	}
	if got := countActivities(t, db, teamID, activitylog.ActionTeamCreated); got != 1 {
		t.Errorf("team_created activities: got %d want 1", got)
	}

	// Invite Grace by email.
	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"grace@example.com"}`))
	r = testutil.SignedInRequest(r, ada)
	r = testutil.WithChiURLParam(r, "id", body.ID)
	rec = httptest.NewRecorder()
	h.HandleInvite(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("invite status: got %d want 200, body %s", rec.Code, rec.Body.String())
	}

	team := loadTeamDoc(t, db, teamID)
	if len(team.Members) != 2 {
		t.Fatalf("members after invite: got %d want 2", len(team.Members))
	}
	var graceRole string
	for _, m := range team.Members {
		if m.UserID == grace.ID {
			graceRole = m.Role
		}
	}
	if graceRole != models.RoleMember {
		t.Errorf("invitee role: got %q want the team default %q", graceRole, models.RoleMember)
	}

	// The join is attributed to the invitee, tagged with the invite path
	// and carrying who was added at what role.
	var act models.Activity
	err = db.Collection("activities").
		FindOne(ctx, bson.M{"team_id": teamID, "action": activitylog.ActionMemberJoined}).
		Decode(&act)
	if err != nil {
		t.Fatalf("load member_joined activity: %v", err)
	}
	if act.UserID != grace.ID {
		t.Errorf("activity user: got %s want %s", act.UserID.Hex(), grace.ID.Hex())
	}
	if method, _ := act.Metadata["method"].(string); method != "invite" {
		t.Errorf("activity method: got %q want invite", method)
	}
	if invited, _ := act.Metadata["invited_user"].(primitive.ObjectID); invited != grace.ID {
		t.Errorf("activity invited_user: got %v want %s", act.Metadata["invited_user"], grace.ID.Hex())
	}
	if role, _ := act.Metadata["role"].(string); role != models.RoleMember {
		t.Errorf("activity role: got %q want %q", role, models.RoleMember)
	}

	// The room hears about the new member and gets the fresh roster.
	joined := rooms.byEvent(realtime.EvMemberJoined)
	if len(joined) != 1 {
		t.Fatalf("member_joined broadcasts: got %d want 1", len(joined))
	}
	var joinedPayload struct {
		TeamID   string           `json:"teamId"`
		User     *models.UserRef  `json:"user"`
		Role     string           `json:"role"`
		Activity *models.Activity `json:"activity"`
	}
	decodeEventData(t, joined[0], &joinedPayload)
	if joinedPayload.User == nil || joinedPayload.User.Name != "Grace" {
		t.Errorf("member_joined user: got %+v", joinedPayload.User)
	}
	if joinedPayload.Activity == nil || joinedPayload.Activity.Action != activitylog.ActionMemberJoined {
		t.Errorf("member_joined must carry its activity record, got %+v", joinedPayload.Activity)
	}

	updates := rooms.byEvent(realtime.EvTeamUpdated)
	if len(updates) != 1 {
		t.Fatalf("team_updated broadcasts after invite: got %d want 1", len(updates))
	}
	var snapshot struct {
		ID      string `json:"id"`
		Members []struct {
			Role string `json:"role"`
		} `json:"members"`
	}
	decodeEventData(t, updates[0], &snapshot)
	if snapshot.ID != teamID.Hex() || len(snapshot.Members) != 2 {
		t.Errorf("team_updated snapshot: id %q with %d members, want %q with 2",
			snapshot.ID, len(snapshot.Members), teamID.Hex())
	}
}

func TestInvite_Permissions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h, rooms := newTestHandler(t, db)

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")
	fixtures.CreateUser(ctx, "Edsger", "edsger@example.com")
	now := time.Now().UTC()
	team := fixtures.CreateTeam(ctx, "Core", ada.ID, []models.Membership{
		{UserID: ada.ID, Role: models.RoleAdmin, JoinedAt: now},
		{UserID: grace.ID, Role: models.RoleMember, JoinedAt: now},
	})

	// Member invites are off by default.
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"edsger@example.com"}`))
	r = testutil.SignedInRequest(r, grace)
	r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleInvite(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member invite: got %d want 403", rec.Code)
	}

	// Unknown email is a not-found, not a silent success.
	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"nobody@example.com"}`))
	r = testutil.SignedInRequest(r, ada)
	r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleInvite(rec, r)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown email: got %d want 404", rec.Code)
	}

	// Re-inviting an existing member conflicts.
	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"grace@example.com"}`))
	r = testutil.SignedInRequest(r, ada)
	r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleInvite(rec, r)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate invite: got %d want 409", rec.Code)
	}

	// None of the failed invites may reach the room.
	if len(rooms.events) != 0 {
		t.Errorf("failed invites must not broadcast, got %d events", len(rooms.events))
	}
}

func TestJoinByCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h, rooms := newTestHandler(t, db)

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")
	team := fixtures.CreateTeam(ctx, "Core", ada.ID, []models.Membership{
		{UserID: ada.ID, Role: models.RoleAdmin, JoinedAt: time.Now().UTC()},
	})

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"code":"`+team.JoinCode+`"}`))
	r = testutil.SignedInRequest(r, grace)
	rec := httptest.NewRecorder()
	h.HandleJoinByCode(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("join status: got %d want 200, body %s", rec.Code, rec.Body.String())
	}
	doc := loadTeamDoc(t, db, team.ID)
	if len(doc.Members) != 2 {
		t.Fatalf("members after join: got %d want 2", len(doc.Members))
	}

	var act models.Activity
	err := db.Collection("activities").
		FindOne(ctx, bson.M{"team_id": team.ID, "action": activitylog.ActionMemberJoined}).
		Decode(&act)
	if err != nil {
		t.Fatalf("load member_joined activity: %v", err)
	}
	if method, _ := act.Metadata["method"].(string); method != "code" {
		t.Errorf("activity method: got %q want code", method)
	}

	// A code that matches no team.
	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"code":"ZZZZZ9"}`))
	r = testutil.SignedInRequest(r, grace)
	rec = httptest.NewRecorder()
	h.HandleJoinByCode(rec, r)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown code: got %d want 404", rec.Code)
	}

	// A malformed code never reaches the store.
	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"code":"nope"}`))
	r = testutil.SignedInRequest(r, grace)
	rec = httptest.NewRecorder()
	h.HandleJoinByCode(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed code: got %d want 400", rec.Code)
	}

	// Only the successful join broadcast anything: the member event plus
	// the refreshed team snapshot.
	if n := len(rooms.byEvent(realtime.EvMemberJoined)); n != 1 {
		t.Errorf("member_joined broadcasts: got %d want 1", n)
	}
	if n := len(rooms.byEvent(realtime.EvTeamUpdated)); n != 1 {
		t.Errorf("team_updated broadcasts: got %d want 1", n)
	}
}

func TestChangeRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h, rooms := newTestHandler(t, db)

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")
	now := time.Now().UTC()
	team := fixtures.CreateTeam(ctx, "Core", ada.ID, []models.Membership{
		{UserID: ada.ID, Role: models.RoleAdmin, JoinedAt: now},
		{UserID: grace.ID, Role: models.RoleMember, JoinedAt: now},
	})

	roleReq := func(caller models.User, target primitive.ObjectID, role string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("PUT", "/", strings.NewReader(`{"role":"`+role+`"}`))
		r = testutil.SignedInRequest(r, caller)
		r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
		r = testutil.WithChiURLParam(r, "userID", target.Hex())
		rec := httptest.NewRecorder()
		h.HandleChangeRole(rec, r)
		return rec
	}

	// A non-admin cannot change roles.
	if rec := roleReq(grace, ada.ID, models.RoleMember); rec.Code != http.StatusForbidden {
		t.Errorf("non-admin: got %d want 403", rec.Code)
	}

	// Promote Grace.
	rec := roleReq(ada, grace.ID, models.RoleAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("promote: got %d want 200, body %s", rec.Code, rec.Body.String())
	}
	doc := loadTeamDoc(t, db, team.ID)
	for _, m := range doc.Members {
		if m.UserID == grace.ID && m.Role != models.RoleAdmin {
			t.Errorf("grace role after promote: got %q", m.Role)
		}
	}
	if got := countActivities(t, db, team.ID, activitylog.ActionRoleChanged); got != 1 {
		t.Errorf("role_changed activities: got %d want 1", got)
	}

	// The room hears the role change with its activity record, plus the
	// refreshed team snapshot.
	changed := rooms.byEvent(realtime.EvMemberRoleUpdated)
	if len(changed) != 1 {
		t.Fatalf("member_role_updated broadcasts: got %d want 1", len(changed))
	}
	var rolePayload struct {
		UserID   string           `json:"userId"`
		Role     string           `json:"role"`
		Activity *models.Activity `json:"activity"`
	}
	decodeEventData(t, changed[0], &rolePayload)
	if rolePayload.UserID != grace.ID.Hex() || rolePayload.Role != models.RoleAdmin {
		t.Errorf("role payload: got %+v", rolePayload)
	}
	if rolePayload.Activity == nil || rolePayload.Activity.Action != activitylog.ActionRoleChanged {
		t.Errorf("member_role_updated must carry its activity record, got %+v", rolePayload.Activity)
	}
	if n := len(rooms.byEvent(realtime.EvTeamUpdated)); n != 1 {
		t.Errorf("team_updated broadcasts after promote: got %d want 1", n)
	}

	// Re-applying the same role is a quiet no-op.
	if rec := roleReq(ada, grace.ID, models.RoleAdmin); rec.Code != http.StatusOK {
		t.Errorf("no-op: got %d want 200", rec.Code)
	}
	if got := countActivities(t, db, team.ID, activitylog.ActionRoleChanged); got != 1 {
		t.Errorf("no-op must not add activity, got %d", got)
	}
	if n := len(rooms.byEvent(realtime.EvTeamUpdated)); n != 1 {
		t.Errorf("no-op must not broadcast, got %d team_updated events", n)
	}

	// Demote Grace back, then try to demote the only remaining admin.
	if rec := roleReq(ada, grace.ID, models.RoleMember); rec.Code != http.StatusOK {
		t.Fatalf("demote: got %d want 200", rec.Code)
	}
	if rec := roleReq(ada, ada.ID, models.RoleMember); rec.Code != http.StatusConflict {
		t.Errorf("demote last admin: got %d want 409", rec.Code)
	}
}

func TestRemoveMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h, rooms := newTestHandler(t, db)

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")
	edsger := fixtures.CreateUser(ctx, "Edsger", "edsger@example.com")
	now := time.Now().UTC()
	team := fixtures.CreateTeam(ctx, "Core", ada.ID, []models.Membership{
		{UserID: ada.ID, Role: models.RoleAdmin, JoinedAt: now},
		{UserID: grace.ID, Role: models.RoleMember, JoinedAt: now},
		{UserID: edsger.ID, Role: models.RoleMember, JoinedAt: now},
	})

	removeReq := func(caller models.User, target primitive.ObjectID) *httptest.ResponseRecorder {
		r := httptest.NewRequest("DELETE", "/", nil)
		r = testutil.SignedInRequest(r, caller)
		r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
		r = testutil.WithChiURLParam(r, "userID", target.Hex())
		rec := httptest.NewRecorder()
		h.HandleRemoveMember(rec, r)
		return rec
	}

	// A member cannot remove someone else.
	if rec := removeReq(grace, edsger.ID); rec.Code != http.StatusForbidden {
		t.Errorf("member removing other: got %d want 403", rec.Code)
	}

	// Self-leave is always allowed.
	if rec := removeReq(grace, grace.ID); rec.Code != http.StatusOK {
		t.Fatalf("self-leave: got %d want 200, body %s", rec.Code, rec.Body.String())
	}
	var left models.Activity
	err := db.Collection("activities").
		FindOne(ctx, bson.M{"team_id": team.ID, "user_id": grace.ID, "action": activitylog.ActionMemberLeft}).
		Decode(&left)
	if err != nil {
		t.Fatalf("load member_left activity: %v", err)
	}
	if left.Description != "left the team" {
		t.Errorf("self-leave description: got %q", left.Description)
	}

	// The departure reaches the room with its activity record and a
	// refreshed team snapshot.
	gone := rooms.byEvent(realtime.EvMemberLeft)
	if len(gone) != 1 {
		t.Fatalf("member_left broadcasts: got %d want 1", len(gone))
	}
	var leftPayload struct {
		UserID   string           `json:"userId"`
		Activity *models.Activity `json:"activity"`
	}
	decodeEventData(t, gone[0], &leftPayload)
	if leftPayload.UserID != grace.ID.Hex() {
		t.Errorf("member_left user: got %q want %q", leftPayload.UserID, grace.ID.Hex())
	}
	if leftPayload.Activity == nil || leftPayload.Activity.Action != activitylog.ActionMemberLeft {
		t.Errorf("member_left must carry its activity record, got %+v", leftPayload.Activity)
	}
	if n := len(rooms.byEvent(realtime.EvTeamUpdated)); n != 1 {
		t.Errorf("team_updated broadcasts after leave: got %d want 1", n)
	}

	// Admin removes Edsger.
	if rec := removeReq(ada, edsger.ID); rec.Code != http.StatusOK {
		t.Fatalf("admin removal: got %d want 200", rec.Code)
	}
	err = db.Collection("activities").
		FindOne(ctx, bson.M{"team_id": team.ID, "user_id": edsger.ID, "action": activitylog.ActionMemberLeft}).
		Decode(&left)
	if err != nil {
		t.Fatalf("load member_left activity: %v", err)
	}
	if left.Description != "was removed from the team" {
		t.Errorf("removal description: got %q", left.Description)
	}

	// The only admin cannot leave.
	if rec := removeReq(ada, ada.ID); rec.Code != http.StatusConflict {
		t.Errorf("last admin leaving: got %d want 409", rec.Code)
	}

	doc := loadTeamDoc(t, db, team.ID)
	if len(doc.Members) != 1 || doc.Members[0].UserID != ada.ID {
		t.Errorf("roster after removals: got %+v", doc.Members)
	}
}

// Settings changes broadcast team_updated but leave the activity feed
// untouched.
func TestUpdateSettings_NoActivityEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h, rooms := newTestHandler(t, db)

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	grace := fixtures.CreateUser(ctx, "Grace", "grace@example.com")
	now := time.Now().UTC()
	team := fixtures.CreateTeam(ctx, "Core", ada.ID, []models.Membership{
		{UserID: ada.ID, Role: models.RoleAdmin, JoinedAt: now},
		{UserID: grace.ID, Role: models.RoleMember, JoinedAt: now},
	})

	// Non-admin is refused.
	r := httptest.NewRequest("PUT", "/", strings.NewReader(`{"allow_member_invites":true}`))
	r = testutil.SignedInRequest(r, grace)
	r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleUpdateSettings(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin: got %d want 403", rec.Code)
	}

	// Admin flips one flag; absent fields keep their values.
	r = httptest.NewRequest("PUT", "/", strings.NewReader(`{"allow_member_invites":true}`))
	r = testutil.SignedInRequest(r, ada)
	r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleUpdateSettings(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got %d want 200, body %s", rec.Code, rec.Body.String())
	}

	doc := loadTeamDoc(t, db, team.ID)
	if !doc.Settings.AllowMemberInvites {
		t.Error("allow_member_invites was not updated")
	}
	if doc.Settings.DefaultRole != models.RoleMember || doc.Settings.Visibility != models.VisibilityPrivate {
		t.Errorf("untouched settings changed: %+v", doc.Settings)
	}

	count, err := db.Collection("activities").CountDocuments(ctx, bson.M{"team_id": team.ID})
	if err != nil {
		t.Fatalf("count activities: %v", err)
	}
	if count != 0 {
		t.Errorf("settings updates must not appear in the activity feed, got %d entries", count)
	}

	// The room still gets the updated snapshot.
	updates := rooms.byEvent(realtime.EvTeamUpdated)
	if len(updates) != 1 {
		t.Fatalf("team_updated broadcasts: got %d want 1", len(updates))
	}
	var snapshot struct {
		Settings models.TeamSettings `json:"settings"`
	}
	decodeEventData(t, updates[0], &snapshot)
	if !snapshot.Settings.AllowMemberInvites {
		t.Error("team_updated snapshot missing the new settings")
	}
}
