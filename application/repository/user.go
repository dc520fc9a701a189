package repository

import (
	"sync"

	"arcadeportal.io/entities"
	"arcadeportal.io/infrastructure/database/connection/datastore"
	"arcadeportal.io/infrastructure/database/repository/mongo"
)

var userOnce = sync.Once{}

var userRepository mongo.MongoRepository[entities.User]

func UserRepo() *mongo.MongoRepository[entities.User] {
	userOnce.Do(func() {
		userRepository = mongo.MongoRepository[entities.User]{Model: datastore.UserModel}
	})
	return &userRepository
}
