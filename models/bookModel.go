package models

import "go.mongodb.org/mongo-driver/v2/bson"

type Book struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string        `bson:"title" json:"title"`
	ISBN        string        `bson:"isbn" json:"isbn"`
	Price       int64         `bson:"price" json:"price"`
	Description string        `bson:"description" json:"description"`
	Language    string        `bson:"language" json:"language"`
	AuthorID    bson.ObjectID `bson:"author_id" json:"author_id"`
	Genre       []string      `bson:"genre" json:"genre"`
	ImageURL    string        `bson:"image_url" json:"image_url"`
}

// CreateBookData is bound from the multipart form; the image travels as a file part.
type CreateBookData struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
	Price       int64  `form:"price" binding:"required,gt=0"`
	ISBN        string `form:"isbn" binding:"required"`
	Language    string `form:"language" binding:"required"`
	AuthorID    string `form:"author_id" binding:"required,objectid"`
	Genre       string `form:"genre" binding:"required"`
}

type UpdateBookData struct {
	Title       *string  `json:"title" binding:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *int64   `json:"price" binding:"omitempty,gt=0"`
	ISBN        *string  `json:"isbn" binding:"omitempty,min=1"`
	Language    *string  `json:"language" binding:"omitempty,min=1"`
	AuthorID    *string  `json:"author_id" binding:"omitempty,objectid"`
	Genre       []string `json:"genre"`
}
