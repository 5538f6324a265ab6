package messagestore_test

import (
	"fmt"
	"testing"
	"time"

	messagestore "github.com/dalemusser/collabhub/internal/app/store/messages"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/collabhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_ListByTeam_ChronologicalPages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teamID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		fixtures.CreateMessage(ctx, teamID, userID, fmt.Sprintf("msg-%d", i+1), base.Add(time.Duration(i)*time.Minute))
	}

	// Page 1 limit 2: the two NEWEST messages, in chronological order.
	page, total, err := store.ListByTeam(ctx, teamID, 0, 2)
	if err != nil {
		t.Fatalf("ListByTeam failed: %v", err)
	}
	if total != 5 {
		t.Errorf("total: got %d want 5", total)
	}
	if len(page) != 2 {
		t.Fatalf("page size: got %d want 2", len(page))
	}
	if page[0].Content != "msg-4" || page[1].Content != "msg-5" {
		t.Errorf("page 1: got [%s %s], want [msg-4 msg-5]", page[0].Content, page[1].Content)
	}
	if !page[0].CreatedAt.Before(page[1].CreatedAt) {
		t.Error("page is not in chronological order")
	}

	// Page 3 holds the single oldest message.
	page, _, err = store.ListByTeam(ctx, teamID, 4, 2)
	if err != nil {
		t.Fatalf("ListByTeam page 3 failed: %v", err)
	}
	if len(page) != 1 || page[0].Content != "msg-1" {
		t.Errorf("page 3: got %v, want [msg-1]", contents(page))
	}

	// Messages from other teams never leak in.
	other := primitive.NewObjectID()
	fixtures.CreateMessage(ctx, other, userID, "other-team", base)
	_, total, err = store.ListByTeam(ctx, teamID, 0, 10)
	if err != nil {
		t.Fatalf("ListByTeam failed: %v", err)
	}
	if total != 5 {
		t.Errorf("total after foreign insert: got %d want 5", total)
	}
}

func TestStore_Insert_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	msg, err := store.Insert(ctx, models.Message{
		TeamID:  primitive.NewObjectID(),
		UserID:  primitive.NewObjectID(),
		Content: "hello",
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if msg.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if msg.Type != models.MessageText {
		t.Errorf("default type: got %q want %q", msg.Type, models.MessageText)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func contents(page []models.Message) []string {
	out := make([]string, len(page))
	for i, m := range page {
		out[i] = m.Content
	}
	return out
}
