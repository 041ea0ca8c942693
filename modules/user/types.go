package user

import (
	"mime/multipart"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the persisted account record. Field names mirror the wire format
// the API exposes; Password holds the bcrypt hash once registration completes
// and is never the plaintext.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName string        `bson:"firstName" json:"firstName"`
	LastName  string        `bson:"lastName" json:"lastName"`
	Email     string        `bson:"email" json:"email"`
	Password  string        `bson:"password" json:"password"`
	Phone     string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Avatar    string        `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// RegisterInput carries the fields of a registration request. Avatar is
// optional; when present it is uploaded to object storage before the account
// is persisted.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Avatar    *multipart.FileHeader
}

// UpdateInput carries a full-document profile replacement. Every field of the
// stored record is overwritten from this input, password included; there are
// no partial-patch semantics.
type UpdateInput struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Token     string `json:"jsonwebtoken"`
}

// Config holds environment-driven settings for the user module.
type Config struct {
	Database      string `env:"MONGODB_DATABASE" envDefault:"userhub"`
	AvatarDir     string `env:"AVATAR_DIR" envDefault:"avatars"`            // object-storage prefix for uploaded avatars
	AvatarMaxSize int64  `env:"AVATAR_MAX_SIZE" envDefault:"5242880"`      // bytes, default 5MB
	BcryptCost    int    `env:"BCRYPT_COST" envDefault:"0"`                // 0 uses the bcrypt default
}
