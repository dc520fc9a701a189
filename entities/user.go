package entities

import (
	"time"

	"arcadeportal.io/application/utils"
)

// User is a portal account. Only the fields face authentication touches are
// modelled; the rest of the document is left alone on writes.
type User struct {
	Email       string `bson:"email" json:"email"`
	UserName    string `bson:"userName" json:"userName"`
	Deactivated bool   `bson:"deactivated" json:"deactivated"`

	FaceAuthEnabled        bool       `bson:"faceAuthEnabled" json:"faceAuthEnabled"`
	FaceEmbedding          []float64  `bson:"faceEmbedding,omitempty" json:"-"`
	FaceEmbeddingUpdatedAt *time.Time `bson:"faceEmbeddingUpdatedAt,omitempty" json:"faceEmbeddingUpdatedAt,omitempty"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model User) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateUULDString()
		}
	}
	model.Email = utils.NormalizeEmail(model.Email)
	model.UpdatedAt = now
	return &model
}
