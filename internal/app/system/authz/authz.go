// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's Mongo ObjectID, display name, and a found
// flag. If no user is present in context or the user id is malformed, it
// returns NilObjectID and false, so callers can trust that ok=true means a
// valid, authenticated user. Team-scoped authorization (member/admin) is
// decided against the team document by policy/teampolicy, not here.
func UserCtx(r *http.Request) (userID primitive.ObjectID, name string, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	userID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		// Malformed id in a signed token means token corruption; fail closed.
		return primitive.NilObjectID, "", false
	}
	return userID, u.Name, true
}
