package repository

import (
	"context"
	"fmt"
	"time"

	"arcadeportal.io/application/services/faceauth"
	"arcadeportal.io/entities"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserDirectory is the part of the user repository the credential store needs.
type UserDirectory interface {
	FindOneByFilter(ctx context.Context, filter map[string]interface{}, opts ...*options.FindOneOptions) (*entities.User, error)
	UpdatePartialByFilter(ctx context.Context, filter map[string]interface{}, payload map[string]interface{}) (int64, error)
}

// FaceCredentialStore reads and writes reference embeddings on user documents.
type FaceCredentialStore struct {
	users UserDirectory
	nowF  func() time.Time
}

func NewFaceCredentialStore(users UserDirectory) *FaceCredentialStore {
	return &FaceCredentialStore{users: users, nowF: time.Now}
}

// activeAccount matches the identity unless it is explicitly deactivated.
// Accounts provisioned elsewhere may not carry the deactivated field at all.
func activeAccount(identity string) map[string]interface{} {
	return map[string]interface{}{
		"email":       identity,
		"deactivated": bson.M{"$ne": true},
	}
}

// FindByIdentity treats deactivated accounts as missing.
func (s *FaceCredentialStore) FindByIdentity(ctx context.Context, identity string) (*faceauth.FaceCredential, error) {
	user, err := s.users.FindOneByFilter(ctx, activeAccount(identity), options.FindOne().SetProjection(map[string]any{
		"email":           1,
		"faceAuthEnabled": 1,
		"faceEmbedding":   1,
	}))
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", identity, err)
	}
	if user == nil {
		return nil, nil
	}
	return &faceauth.FaceCredential{
		Identity:              user.Email,
		HasReferenceEmbedding: user.FaceAuthEnabled,
		ReferenceEmbedding:    user.FaceEmbedding,
	}, nil
}

func (s *FaceCredentialStore) SetReferenceEmbedding(ctx context.Context, identity string, embedding []float64) error {
	matched, err := s.users.UpdatePartialByFilter(ctx, activeAccount(identity), map[string]interface{}{
		"faceEmbedding":          embedding,
		"faceAuthEnabled":        true,
		"faceEmbeddingUpdatedAt": s.nowF(),
	})
	if err != nil {
		return fmt.Errorf("update face embedding for %s: %w", identity, err)
	}
	if matched == 0 {
		return fmt.Errorf("update face embedding for %s: account no longer exists", identity)
	}
	return nil
}
