package repository

import (
	"sync"

	"arcadeportal.io/entities"
	"arcadeportal.io/infrastructure/database/connection/datastore"
	"arcadeportal.io/infrastructure/database/repository/mongo"
)

var faceAuthAuditOnce = sync.Once{}

var faceAuthAuditRepository mongo.MongoRepository[entities.FaceAuthAudit]

func FaceAuthAuditRepo() *mongo.MongoRepository[entities.FaceAuthAudit] {
	faceAuthAuditOnce.Do(func() {
		faceAuthAuditRepository = mongo.MongoRepository[entities.FaceAuthAudit]{Model: datastore.FaceAuthAuditModel}
	})
	return &faceAuthAuditRepository
}
