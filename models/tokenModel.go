package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ActivationToken binds a pending user to a one-time activation code.
type ActivationToken struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	ActivationToken string        `bson:"activation_token"`
	UserID          bson.ObjectID `bson:"user_id"`
	ExpiresAt       time.Time     `bson:"expires_at"`
}

func (t *ActivationToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
