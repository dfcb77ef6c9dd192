package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email          string        `bson:"email" json:"email"`
	HashedPassword string        `bson:"hashed_password" json:"-"`
	IsActive       bool          `bson:"is_active" json:"is_active"`
	Role           string        `bson:"role" json:"role"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the projection returned by /users/me.
type PublicUser struct {
	ID       string `json:"_id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID.Hex(), Email: u.Email, IsActive: u.IsActive}
}

type RegisterData struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8,max=32"`
	ConfirmPassword string `json:"confirm_password" binding:"required,min=8,max=32,eqfield=Password"`
}

// LoginData follows the OAuth2 password form: the email travels as username.
type LoginData struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type ActivationTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ChangePasswordData struct {
	OldPassword string `json:"old_password" binding:"required,min=8,max=32"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=32"`
}
