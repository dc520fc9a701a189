package datastore

import (
	"context"
	"errors"
	"time"

	"arcadeportal.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserModel          *mongo.Collection
	FaceAuthAuditModel *mongo.Collection

	client *mongo.Client
)

func ConnectToDatabase(url string, name string) error {
	if url == "" {
		logger.Error("mongo url missing")
		return errors.New("DB_URL must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(url)
	clientOpts.SetMinPoolSize(5)
	clientOpts.SetMaxPoolSize(10)

	c, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Error("an error occured while starting the database", logger.LoggerOptions{Key: "error", Data: err.Error()})
		return err
	}
	if err := c.Ping(ctx, nil); err != nil {
		logger.Error("mongodb ping failed", logger.LoggerOptions{Key: "error", Data: err.Error()})
		return err
	}
	client = c

	setUpIndexes(ctx, c.Database(name))

	logger.Info("connected to mongodb successfully")
	return nil
}

// Set up the indexes for the database
func setUpIndexes(ctx context.Context, db *mongo.Database) {
	UserModel = db.Collection("Users")
	if _, err := UserModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}}); err != nil {
		logger.Warning("could not create Users indexes", logger.LoggerOptions{Key: "error", Data: err.Error()})
	}

	FaceAuthAuditModel = db.Collection("FaceAuthAudits")
	if _, err := FaceAuthAuditModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "identity", Value: 1}, {Key: "at", Value: -1}},
		Options: options.Index(),
	}, {
		Keys:    bson.D{{Key: "at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32((90 * 24 * time.Hour).Seconds())),
	}}); err != nil {
		logger.Warning("could not create FaceAuthAudits indexes", logger.LoggerOptions{Key: "error", Data: err.Error()})
	}

	logger.Info("mongodb indexes set up successfully")
}

func Disconnect() {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("error disconnecting from mongodb", logger.LoggerOptions{Key: "error", Data: err.Error()})
	}
	client = nil
}
