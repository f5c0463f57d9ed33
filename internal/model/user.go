package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a unified account in the identity broker. Exactly one
// record exists per email regardless of how many providers the user signs in
// with; OAuthProvider always names the most recently used provider, or is
// empty for accounts that have only logged in locally.
type User struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	Email         string        `bson:"email"`
	PasswordHash  string        `bson:"password_hash"`
	FirstName     string        `bson:"first_name"`
	LastName      string        `bson:"last_name"`
	AvatarURL     string        `bson:"avatar_url"`
	OAuthProvider string        `bson:"oauth_provider"`
	IsActive      bool          `bson:"is_active"`
	IsVerified    bool          `bson:"is_verified"`
	IsSuperuser   bool          `bson:"is_superuser"`
	CreatedAt     time.Time     `bson:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at"`
}
