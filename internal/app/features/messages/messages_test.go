// internal/app/features/messages/messages_test.go
package messages_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/collabhub/internal/app/features/messages"
	"github.com/dalemusser/collabhub/internal/app/realtime"
	activitystore "github.com/dalemusser/collabhub/internal/app/store/activities"
	messagestore "github.com/dalemusser/collabhub/internal/app/store/messages"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/collabhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *messages.Handler {
	t.Helper()
	hub := realtime.NewHub(zap.NewNop())
	hubCtx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(hubCtx)

	return messages.NewHandler(
		teamstore.New(db),
		messagestore.New(db),
		userstore.New(db),
		activitylog.New(activitystore.New(db), zap.NewNop()),
		hub,
		zap.NewNop(),
	)
}

type messagePage struct {
	Success    bool                `json:"success"`
	Data       []models.Message    `json:"data"`
	Error      string              `json:"error"`
	Pagination *respond.Pagination `json:"pagination"`
}

func TestServeMessages_NonMemberForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h := newTestHandler(t, db)

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	mallory := fixtures.CreateUser(ctx, "Mallory", "mallory@example.com")
	team := fixtures.CreateTeam(ctx, "Core", ada.ID, []models.Membership{
		{UserID: ada.ID, Role: models.RoleAdmin, JoinedAt: time.Now().UTC()},
	})
	fixtures.CreateMessage(ctx, team.ID, ada.ID, "private", time.Now().UTC())

	r := httptest.NewRequest("GET", "/", nil)
	r = testutil.SignedInRequest(r, mallory)
	r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeMessages(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d want 403", rec.Code)
	}
	var env respond.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Success {
		t.Error("success must be false for a forbidden request")
	}
	if env.Data != nil {
		t.Errorf("no data may leak to non-members, got %v", env.Data)
	}
	if env.Error == "" {
		t.Error("expected an error message")
	}
}

func TestServeMessages_ChronologicalPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h := newTestHandler(t, db)

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	team := fixtures.CreateTeam(ctx, "Core", ada.ID, []models.Membership{
		{UserID: ada.ID, Role: models.RoleAdmin, JoinedAt: time.Now().UTC()},
	})
	base := time.Now().UTC().Add(-time.Hour)
	for i := 1; i <= 5; i++ {
		fixtures.CreateMessage(ctx, team.ID, ada.ID, "msg-"+string(rune('0'+i)), base.Add(time.Duration(i)*time.Minute))
	}

	r := httptest.NewRequest("GET", "/?page=1&limit=2", nil)
	r = testutil.SignedInRequest(r, ada)
	r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeMessages(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200, body %s", rec.Code, rec.Body.String())
	}
	var page messagePage
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if page.Pagination == nil {
		t.Fatal("expected pagination metadata")
	}
	if page.Pagination.Current != 1 || page.Pagination.Pages != 3 || page.Pagination.Total != 5 {
		t.Errorf("pagination: got %+v want {1 3 5}", *page.Pagination)
	}

	// Page one holds the two newest messages, in chronological order.
	if len(page.Data) != 2 {
		t.Fatalf("page size: got %d want 2", len(page.Data))
	}
	if page.Data[0].Content != "msg-4" || page.Data[1].Content != "msg-5" {
		t.Errorf("page order: got [%s %s] want [msg-4 msg-5]",
			page.Data[0].Content, page.Data[1].Content)
	}
	for _, m := range page.Data {
		if m.User == nil || m.User.Name != "Ada" {
			t.Errorf("author not populated: %+v", m.User)
		}
	}
}

func TestServeMessages_EmptyTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h := newTestHandler(t, db)

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	team := fixtures.CreateTeam(ctx, "Quiet", ada.ID, []models.Membership{
		{UserID: ada.ID, Role: models.RoleAdmin, JoinedAt: time.Now().UTC()},
	})

	r := httptest.NewRequest("GET", "/", nil)
	r = testutil.SignedInRequest(r, ada)
	r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeMessages(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	var page messagePage
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if page.Data == nil || len(page.Data) != 0 {
		t.Errorf("expected an empty array, got %v", page.Data)
	}
	if page.Pagination.Pages != 0 || page.Pagination.Total != 0 {
		t.Errorf("pagination: got %+v want zero pages and total", *page.Pagination)
	}
}

func TestHandleSendMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h := newTestHandler(t, db)

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	team := fixtures.CreateTeam(ctx, "Core", ada.ID, []models.Membership{
		{UserID: ada.ID, Role: models.RoleAdmin, JoinedAt: time.Now().UTC()},
	})

	body := strings.NewReader(`{"content":"hello room"}`)
	r := httptest.NewRequest("POST", "/", body)
	r = testutil.SignedInRequest(r, ada)
	r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleSendMessage(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d want 201, body %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Success bool           `json:"success"`
		Data    models.Message `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Data.Content != "hello room" || env.Data.Type != models.MessageText {
		t.Errorf("message: got %+v", env.Data)
	}
	if env.Data.User == nil || env.Data.User.Name != "Ada" {
		t.Errorf("author not populated: %+v", env.Data.User)
	}

	// The send is persisted and the activity recorded.
	count, err := db.Collection("messages").CountDocuments(ctx, bson.M{"team_id": team.ID})
	if err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if count != 1 {
		t.Errorf("stored messages: got %d want 1", count)
	}
	actCount, err := db.Collection("activities").CountDocuments(ctx, bson.M{
		"team_id": team.ID,
		"action":  activitylog.ActionMessageSent,
	})
	if err != nil {
		t.Fatalf("count activities: %v", err)
	}
	if actCount != 1 {
		t.Errorf("message_sent activities: got %d want 1", actCount)
	}
}

func TestHandleSendMessage_EmptyContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h := newTestHandler(t, db)

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	team := fixtures.CreateTeam(ctx, "Core", ada.ID, []models.Membership{
		{UserID: ada.ID, Role: models.RoleAdmin, JoinedAt: time.Now().UTC()},
	})

	for _, body := range []string{`{"content":""}`, `{"content":"   "}`, `{"content":"<script>x</script>"}`} {
		r := httptest.NewRequest("POST", "/", strings.NewReader(body))
		r = testutil.SignedInRequest(r, ada)
		r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleSendMessage(rec, r)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: got %d want 400", body, rec.Code)
		}
	}

	count, err := db.Collection("messages").CountDocuments(ctx, bson.M{"team_id": team.ID})
	if err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if count != 0 {
		t.Errorf("rejected sends must not be stored, got %d", count)
	}
}

func TestHandleSendMessage_NonMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h := newTestHandler(t, db)

	ada := fixtures.CreateUser(ctx, "Ada", "ada@example.com")
	mallory := fixtures.CreateUser(ctx, "Mallory", "mallory@example.com")
	team := fixtures.CreateTeam(ctx, "Core", ada.ID, []models.Membership{
		{UserID: ada.ID, Role: models.RoleAdmin, JoinedAt: time.Now().UTC()},
	})

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"content":"let me in"}`))
	r = testutil.SignedInRequest(r, mallory)
	r = testutil.WithChiURLParam(r, "id", team.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleSendMessage(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d want 403", rec.Code)
	}
}
