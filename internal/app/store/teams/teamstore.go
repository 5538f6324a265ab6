// internal/app/store/teams/teamstore.go
package teamstore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/collabhub/internal/app/system/joincode"
	"github.com/dalemusser/collabhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection

	// locks serializes RemoveMember/ChangeRole per team so the
	// read-check-write for the last-admin guard cannot interleave.
	// AddMember does not need it; its filter is atomic on the server.
	mu    sync.Mutex
	locks map[primitive.ObjectID]*sync.Mutex
}

var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrAlreadyMember  = errors.New("user is already a member of this team")
	ErrMemberNotFound = errors.New("user is not a member of this team")
	ErrLastAdmin      = errors.New("cannot remove or demote the only admin")
	ErrInvalidRole    = errors.New("invalid role")
)

// joinCodeRetries bounds collision retries on the unique join_code index.
const joinCodeRetries = 5

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("teams"),
		locks: make(map[primitive.ObjectID]*sync.Mutex),
	}
}

func (s *Store) teamLock(id primitive.ObjectID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Team{}, ErrTeamNotFound
		}
		return models.Team{}, err
	}
	return t, nil
}

func (s *Store) GetByJoinCode(ctx context.Context, code string) (models.Team, error) {
	var t models.Team
	err := s.c.FindOne(ctx, bson.M{"join_code": strings.ToUpper(strings.TrimSpace(code))}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Team{}, ErrTeamNotFound
		}
		return models.Team{}, err
	}
	return t, nil
}

// Create inserts a team with the creator as sole admin and a fresh join
// code. A join-code collision on the unique index retries with a new code.
func (s *Store) Create(ctx context.Context, t models.Team) (models.Team, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	if t.Settings == (models.TeamSettings{}) {
		t.Settings = models.DefaultTeamSettings()
	}
	t.Members = []models.Membership{{
		UserID:   t.CreatedBy,
		Role:     models.RoleAdmin,
		JoinedAt: now,
	}}
	t.CreatedAt = now
	t.UpdatedAt = now

	var err error
	for attempt := 0; attempt < joinCodeRetries; attempt++ {
		t.JoinCode, err = joincode.New()
		if err != nil {
			return models.Team{}, err
		}
		_, err = s.c.InsertOne(ctx, t)
		if err == nil {
			return t, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Team{}, err
		}
	}
	return models.Team{}, err
}

// ListByMember returns every team the user belongs to, newest first.
func (s *Store) ListByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Team, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"members.user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var teams []models.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// ListPublic returns the page of publicly visible teams plus the total count.
func (s *Store) ListPublic(ctx context.Context, skip, limit int64) ([]models.Team, int64, error) {
	filter := bson.M{"settings.visibility": models.VisibilityPublic}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.c.Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetSkip(skip).
			SetLimit(limit),
	)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var teams []models.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

// AddMember appends a membership if and only if the user is not already on
// the roster. The $ne filter makes the check-and-append a single atomic
// server-side operation, so concurrent joins add at most one entry.
func (s *Store) AddMember(ctx context.Context, teamID, userID primitive.ObjectID, role string) error {
	if !models.IsValidRole(role) {
		return ErrInvalidRole
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": teamID, "members.user_id": bson.M{"$ne": userID}},
		bson.M{
			"$push": bson.M{"members": models.Membership{
				UserID:   userID,
				Role:     role,
				JoinedAt: time.Now().UTC(),
			}},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the team does not exist or the user is already a member;
		// one more read tells them apart.
		if _, err := s.GetByID(ctx, teamID); err != nil {
			return err
		}
		return ErrAlreadyMember
	}
	return nil
}

// RemoveMember deletes a membership. Removing the only admin is refused;
// the per-team lock keeps the admin count stable between the read and the
// write.
func (s *Store) RemoveMember(ctx context.Context, teamID, userID primitive.ObjectID) error {
	l := s.teamLock(teamID)
	l.Lock()
	defer l.Unlock()

	t, err := s.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	var target *models.Membership
	admins := 0
	for i := range t.Members {
		if t.Members[i].Role == models.RoleAdmin {
			admins++
		}
		if t.Members[i].UserID == userID {
			target = &t.Members[i]
		}
	}
	if target == nil {
		return ErrMemberNotFound
	}
	if target.Role == models.RoleAdmin && admins == 1 {
		return ErrLastAdmin
	}

	_, err = s.c.UpdateByID(ctx, teamID, bson.M{
		"$pull": bson.M{"members": bson.M{"user_id": userID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// ChangeRole updates a member's role and returns the previous one.
// Demoting the only admin is refused under the same lock as RemoveMember.
func (s *Store) ChangeRole(ctx context.Context, teamID, userID primitive.ObjectID, role string) (string, error) {
	if !models.IsValidRole(role) {
		return "", ErrInvalidRole
	}

	l := s.teamLock(teamID)
	l.Lock()
	defer l.Unlock()

	t, err := s.GetByID(ctx, teamID)
	if err != nil {
		return "", err
	}
	var target *models.Membership
	admins := 0
	for i := range t.Members {
		if t.Members[i].Role == models.RoleAdmin {
			admins++
		}
		if t.Members[i].UserID == userID {
			target = &t.Members[i]
		}
	}
	if target == nil {
		return "", ErrMemberNotFound
	}
	oldRole := target.Role
	if oldRole == role {
		return oldRole, nil
	}
	if oldRole == models.RoleAdmin && role != models.RoleAdmin && admins == 1 {
		return "", ErrLastAdmin
	}

	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": teamID, "members.user_id": userID},
		bson.M{"$set": bson.M{
			"members.$.role": role,
			"updated_at":     time.Now().UTC(),
		}},
	)
	if err != nil {
		return "", err
	}
	return oldRole, nil
}

// UpdateInfo changes the team's name and/or description.
func (s *Store) UpdateInfo(ctx context.Context, teamID primitive.ObjectID, name, description *string) (models.Team, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if name != nil && strings.TrimSpace(*name) != "" {
		set["name"] = strings.TrimSpace(*name)
		set["name_ci"] = text.Fold(*name)
	}
	if description != nil {
		set["description"] = *description
	}
	var t models.Team
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": teamID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Team{}, ErrTeamNotFound
		}
		return models.Team{}, err
	}
	return t, nil
}

// UpdateSettings replaces the settings sub-document and returns the
// updated team.
func (s *Store) UpdateSettings(ctx context.Context, teamID primitive.ObjectID, settings models.TeamSettings) (models.Team, error) {
	if !models.IsValidRole(settings.DefaultRole) {
		return models.Team{}, ErrInvalidRole
	}
	var t models.Team
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": teamID},
		bson.M{"$set": bson.M{
			"settings":   settings,
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Team{}, ErrTeamNotFound
		}
		return models.Team{}, err
	}
	return t, nil
}

// Delete removes a team by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
