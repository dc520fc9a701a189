package database

import (
	"arcadeportal.io/infrastructure/database/connection"
	"arcadeportal.io/infrastructure/env"
)

func SetUpDatabase(cfg env.Config) error {
	return connection.ConnectToDatabase(cfg)
}

func CleanUpDatabase() {
	connection.Disconnect()
}

type BaseModel interface {
	ParseModel() any
}
