// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures inserts test documents directly into collections, bypassing
// the stores, so store behavior under test is not used to set itself up.
type Fixtures struct {
	t  *testing.T
	db *mongo.Database
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	return &Fixtures{t: t, db: db}
}

// CreateUser writes a user document and returns it.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		EmailCI:   text.Fold(email),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("insert user fixture: %v", err)
	}
	return u
}

// CreateTeam writes a team document with the given memberships.
func (f *Fixtures) CreateTeam(ctx context.Context, name string, creator primitive.ObjectID, members []models.Membership) models.Team {
	f.t.Helper()
	now := time.Now().UTC()
	team := models.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedBy: creator,
		Members:   members,
		Settings:  models.DefaultTeamSettings(),
		JoinCode:  f.randomJoinCode(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("teams").InsertOne(ctx, team); err != nil {
		f.t.Fatalf("insert team fixture: %v", err)
	}
	return team
}

// CreateMessage writes a message document for a team.
func (f *Fixtures) CreateMessage(ctx context.Context, teamID, userID primitive.ObjectID, content string, createdAt time.Time) models.Message {
	f.t.Helper()
	m := models.Message{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		UserID:    userID,
		Content:   content,
		Type:      models.MessageText,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if _, err := f.db.Collection("messages").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("insert message fixture: %v", err)
	}
	return m
}

// CreateActivity writes an activity document for a team.
func (f *Fixtures) CreateActivity(ctx context.Context, teamID, userID primitive.ObjectID, action string, createdAt time.Time) models.Activity {
	f.t.Helper()
	a := models.Activity{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		UserID:    userID,
		Action:    action,
		CreatedAt: createdAt,
	}
	if _, err := f.db.Collection("activities").InsertOne(ctx, &a); err != nil {
		f.t.Fatalf("insert activity fixture: %v", err)
	}
	return a
}

func (f *Fixtures) randomJoinCode() string {
	// ObjectID hex is unique enough for fixtures; uppercase the tail so
	// the code has the expected shape.
	raw := primitive.NewObjectID().Hex()
	code := []byte(raw[len(raw)-6:])
	for i, c := range code {
		if c >= 'a' && c <= 'z' {
			code[i] = c - 'a' + 'A'
		}
	}
	return string(code)
}

// SignedInRequest returns r with a test user identity in its context,
// the same way the bearer middleware would inject it.
func SignedInRequest(r *http.Request, u models.User) *http.Request {
	return auth.WithTestUser(r, &auth.User{ID: u.ID.Hex(), Name: u.Name, Email: u.Email})
}

// WithChiURLParam attaches a chi route parameter to the request context
// so handlers can be tested without a full router. Calls stack, so a
// request can carry several parameters.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}
