// Package teamanalytics computes the per-team analytics rollup: overview
// counts, a per-member activity ranking, and a 7-day daily trend. All of
// it is read-only and recomputed on demand; nothing is cached.
package teamanalytics

import (
	"context"
	"math"
	"time"

	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Overview is the headline counters block.
type Overview struct {
	TotalMembers     int     `json:"totalMembers"`
	TotalAdmins      int     `json:"totalAdmins"`
	RecentActivities int64   `json:"recentActivities"`
	TotalMessages    int64   `json:"totalMessages"`
	TotalProjects    int64   `json:"totalProjects"`
	TotalTasks       int64   `json:"totalTasks"`
	CompletedTasks   int64   `json:"completedTasks"`
	CompletionRate   float64 `json:"completionRate"`
}

// MemberActivity ranks one member by activity volume.
type MemberActivity struct {
	User          *models.UserRef `json:"user"`
	ActivityCount int64           `json:"activityCount"`
	LastActivity  time.Time       `json:"lastActivity"`
}

// TrendPoint is one calendar day's activity count.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Result is the full analytics payload for a team.
type Result struct {
	Overview       Overview         `json:"overview"`
	MemberActivity []MemberActivity `json:"memberActivity"`
	ActivityTrend  []TrendPoint     `json:"activityTrend"`
}

const trendDays = 7

// Compute builds the analytics rollup for a team. Member and admin counts
// come from the embedded roster; the rest is counted or aggregated from
// the activity, message, project, and task collections.
func Compute(ctx context.Context, db *mongo.Database, team models.Team) (Result, error) {
	var res Result

	res.Overview.TotalMembers = len(team.Members)
	for _, m := range team.Members {
		if m.Role == models.RoleAdmin {
			res.Overview.TotalAdmins++
		}
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -trendDays)

	var err error
	res.Overview.RecentActivities, err = db.Collection("activities").CountDocuments(ctx, bson.M{
		"team_id":    team.ID,
		"created_at": bson.M{"$gte": weekAgo},
	})
	if err != nil {
		return Result{}, err
	}

	res.Overview.TotalMessages, err = db.Collection("messages").CountDocuments(ctx, bson.M{"team_id": team.ID})
	if err != nil {
		return Result{}, err
	}

	projectIDs, err := projectIDs(ctx, db, team.ID)
	if err != nil {
		return Result{}, err
	}
	res.Overview.TotalProjects = int64(len(projectIDs))

	if len(projectIDs) > 0 {
		taskFilter := bson.M{"project_id": bson.M{"$in": projectIDs}}
		res.Overview.TotalTasks, err = db.Collection("tasks").CountDocuments(ctx, taskFilter)
		if err != nil {
			return Result{}, err
		}
		taskFilter["status"] = models.TaskCompleted
		res.Overview.CompletedTasks, err = db.Collection("tasks").CountDocuments(ctx, taskFilter)
		if err != nil {
			return Result{}, err
		}
	}
	res.Overview.CompletionRate = CompletionRate(res.Overview.CompletedTasks, res.Overview.TotalTasks)

	res.MemberActivity, err = memberActivity(ctx, db, team.ID)
	if err != nil {
		return Result{}, err
	}

	res.ActivityTrend, err = activityTrend(ctx, db, team.ID)
	if err != nil {
		return Result{}, err
	}

	return res, nil
}

// CompletionRate returns completed/total as a percentage rounded to one
// decimal place, and 0 when there are no tasks.
func CompletionRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(completed) / float64(total) * 100
	return math.Round(rate*10) / 10
}

func projectIDs(ctx context.Context, db *mongo.Database, teamID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := db.Collection("projects").Find(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

// memberActivity groups the team's activities by user, joins user
// identity, and sorts by volume descending.
func memberActivity(ctx context.Context, db *mongo.Database, teamID primitive.ObjectID) ([]MemberActivity, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"team_id": teamID}},
		{"$group": bson.M{
			"_id":           "$user_id",
			"count":         bson.M{"$sum": 1},
			"last_activity": bson.M{"$max": "$created_at"},
		}},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "user",
		}},
		{"$unwind": bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}},
		{"$sort": bson.M{"count": -1}},
	}

	cur, err := db.Collection("activities").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ranked := []MemberActivity{}
	for cur.Next(ctx) {
		var row struct {
			ID           primitive.ObjectID `bson:"_id"`
			Count        int64              `bson:"count"`
			LastActivity time.Time          `bson:"last_activity"`
			User         *models.User       `bson:"user"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		entry := MemberActivity{ActivityCount: row.Count, LastActivity: row.LastActivity}
		if row.User != nil {
			ref := row.User.Ref()
			entry.User = &ref
		}
		ranked = append(ranked, entry)
	}
	return ranked, cur.Err()
}

// activityTrend buckets the last 7 calendar days (UTC) and returns them
// oldest to newest, zero-filled for quiet days.
func activityTrend(ctx context.Context, db *mongo.Database, teamID primitive.ObjectID) ([]TrendPoint, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -(trendDays - 1))

	pipeline := []bson.M{
		{"$match": bson.M{
			"team_id":    teamID,
			"created_at": bson.M{"$gte": start},
		}},
		{"$group": bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$created_at",
			}},
			"count": bson.M{"$sum": 1},
		}},
	}

	cur, err := db.Collection("activities").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64, trendDays)
	for cur.Next(ctx) {
		var row struct {
			Date  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Date] = row.Count
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	trend := make([]TrendPoint, 0, trendDays)
	for i := 0; i < trendDays; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		trend = append(trend, TrendPoint{Date: day, Count: counts[day]})
	}
	return trend, nil
}
