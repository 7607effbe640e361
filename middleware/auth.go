package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go-storefront/models"
	"go-storefront/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// UserFrom returns the authenticated user attached to the request context.
func UserFrom(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	return user, ok
}

// Auth verifies the JWT from the auth cookie (or an Authorization header)
// and attaches the matching user record to the request context.
type Auth struct {
	Users *mongo.Collection
}

// NewAuth creates auth middleware backed by the users collection.
func NewAuth(client *mongo.Client) *Auth {
	return &Auth{Users: client.Database(utils.DatabaseName).Collection("users")}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// Authenticate is the middleware entry point.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := tokenFromRequest(r)
		if tokenStr == "" {
			utils.RespondError(w, http.StatusUnauthorized, "please login first")
			return
		}

		claims, err := utils.ParseJWT(tokenStr)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "session expired, please login again")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		var user models.User
		if err := a.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "user not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserContextKey, &user)))
	})
}

// AdminOnly ensures that the authenticated user has admin privileges.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r)
		if !ok || !user.IsAdmin() {
			utils.RespondError(w, http.StatusForbidden, "access denied: admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}
