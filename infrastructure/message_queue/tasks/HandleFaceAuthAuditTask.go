package queue_tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"arcadeportal.io/application/repository"
	"arcadeportal.io/application/services/faceauth"
	"arcadeportal.io/application/utils"
	"arcadeportal.io/entities"
	"arcadeportal.io/infrastructure/logger"
	mq_types "arcadeportal.io/infrastructure/message_queue/types"
	"arcadeportal.io/infrastructure/useragent"
	"github.com/hibiken/asynq"
)

var HandleFaceAuthAuditTaskName mq_types.Queues = "face_auth_audit"

// AuditWriter persists audit documents.
type AuditWriter interface {
	CreateOne(ctx context.Context, payload entities.FaceAuthAudit) (*entities.FaceAuthAudit, error)
}

func HandleFaceAuthAuditTask(ctx context.Context, t *asynq.Task) error {
	return PersistFaceAuthAudit(ctx, repository.FaceAuthAuditRepo(), t.Payload())
}

func PersistFaceAuthAudit(ctx context.Context, writer AuditWriter, raw []byte) error {
	var event faceauth.AuditEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		logger.Error("an error occured while unmarshalling face auth audit payload", logger.LoggerOptions{
			Key:  "error",
			Data: err.Error(),
		})
		// malformed payloads never succeed on retry
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if _, err := writer.CreateOne(ctx, BuildFaceAuthAudit(event)); err != nil {
		logger.Error("could not persist face auth audit", logger.LoggerOptions{
			Key:  "error",
			Data: err.Error(),
		}, logger.LoggerOptions{
			Key:  "identity",
			Data: event.Identity,
		})
		return err
	}
	return nil
}

func BuildFaceAuthAudit(event faceauth.AuditEvent) entities.FaceAuthAudit {
	agent := useragent.ParseUserAgent(event.Meta.UserAgent)
	audit := entities.FaceAuthAudit{
		Identity:   event.Identity,
		Operation:  string(event.Operation),
		Outcome:    event.Outcome,
		Similarity: event.Similarity,
		IPAddress:  event.Meta.ClientIP,
		UserAgent:  event.Meta.UserAgent,
		DeviceName: agent.DeviceName(),
		OS:         agent.OS,
		Browser:    agent.Name,
		At:         event.At,
	}
	if event.SessionID != "" {
		audit.SessionID = utils.GetStringPointer(event.SessionID)
	}
	if event.Meta.DeviceID != "" {
		audit.DeviceID = utils.GetStringPointer(event.Meta.DeviceID)
	}
	return audit
}
