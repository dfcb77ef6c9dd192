package models

import "go.mongodb.org/mongo-driver/v2/bson"

type Author struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName string        `bson:"first_name" json:"first_name"`
	LastName  string        `bson:"last_name" json:"last_name"`
}

type CreateAuthorData struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type UpdateAuthorData struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1"`
}

type AuthorFilter struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
}
