package messagequeue

import (
	"context"
	"encoding/json"
	"time"

	"arcadeportal.io/application/services/faceauth"
	"arcadeportal.io/infrastructure/logger"
	"arcadeportal.io/infrastructure/message_queue/asynq"
	queue_tasks "arcadeportal.io/infrastructure/message_queue/tasks"
	mq_types "arcadeportal.io/infrastructure/message_queue/types"
)

// TaskQueue is nil when no redis address is configured or the queue failed to start.
var TaskQueue mq_types.TaskQueueBroker

func StartQueue(addr string, password string) error {
	if addr == "" {
		logger.Info("no redis address configured, task queue disabled")
		return nil
	}
	broker := asynq.NewAsynqBroker(addr, password)
	if err := broker.Start(); err != nil {
		logger.Warning("task queue could not start", logger.LoggerOptions{Key: "error", Data: err.Error()})
		return err
	}
	TaskQueue = broker
	return nil
}

func StopQueue() {
	if TaskQueue != nil {
		TaskQueue.Shutdown()
		TaskQueue = nil
	}
}

const auditEnqueueTimeout = 2 * time.Second

// AuditPublisher enqueues face auth audit events off the request path.
type AuditPublisher struct {
	broker mq_types.TaskQueueBroker
	warn   *logger.Throttled
}

func NewAuditPublisher(broker mq_types.TaskQueueBroker) *AuditPublisher {
	return &AuditPublisher{broker: broker, warn: logger.NewThrottled(time.Minute)}
}

func (p *AuditPublisher) Publish(ctx context.Context, event faceauth.AuditEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("could not encode face auth audit event", logger.LoggerOptions{Key: "error", Data: err.Error()})
		return
	}
	go p.enqueue(context.WithoutCancel(ctx), event.Identity, payload)
}

func (p *AuditPublisher) enqueue(ctx context.Context, identity string, payload []byte) {
	ctx, cancel := context.WithTimeout(ctx, auditEnqueueTimeout)
	defer cancel()
	err := p.broker.Enqueue(ctx, mq_types.QueueTask{
		Name:     queue_tasks.HandleFaceAuthAuditTaskName,
		Payload:  payload,
		Priority: mq_types.Low,
		MaxRetry: 5,
	})
	if err != nil {
		p.warn.Warning("dropping face auth audit event",
			logger.LoggerOptions{Key: "identity", Data: identity},
			logger.LoggerOptions{Key: "error", Data: err.Error()},
		)
	}
}
