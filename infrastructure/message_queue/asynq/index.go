package asynq

import (
	"context"
	"time"

	"arcadeportal.io/infrastructure/logger"
	queue_tasks "arcadeportal.io/infrastructure/message_queue/tasks"
	mq_types "arcadeportal.io/infrastructure/message_queue/types"
	"github.com/hibiken/asynq"
)

type AsynqBroker struct {
	Client *asynq.Client

	redisConnOpt asynq.RedisClientOpt
	server       *asynq.Server
}

func NewAsynqBroker(addr string, password string) *AsynqBroker {
	return &AsynqBroker{redisConnOpt: asynq.RedisClientOpt{
		Addr:     addr,
		Password: password,
	}}
}

// Start connects the client and starts the worker server in the background.
func (aq *AsynqBroker) Start() error {
	aq.Client = asynq.NewClient(aq.redisConnOpt)

	aq.server = asynq.NewServer(
		aq.redisConnOpt,
		asynq.Config{
			Concurrency: 20,
			Queues: map[string]int{
				string(mq_types.High):   7,
				string(mq_types.Medium): 2,
				string(mq_types.Low):    1,
			},
			Logger: asynqLogger{},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(string(queue_tasks.HandleFaceAuthAuditTaskName), queue_tasks.HandleFaceAuthAuditTask)

	if err := aq.server.Start(mux); err != nil {
		_ = aq.Client.Close()
		aq.Client = nil
		return err
	}
	logger.Info("task queue started")
	return nil
}

func (aq *AsynqBroker) Enqueue(ctx context.Context, task mq_types.QueueTask) error {
	if task.TimeOut == 0 {
		task.TimeOut = 60
	}
	if task.MaxRetry == 0 {
		task.MaxRetry = 10
	}
	if task.Priority == "" {
		task.Priority = mq_types.Medium
	}
	_, err := aq.Client.EnqueueContext(ctx, asynq.NewTask(string(task.Name), task.Payload),
		asynq.ProcessIn(task.ProcessIn*time.Second),
		asynq.MaxRetry(task.MaxRetry),
		asynq.Timeout(time.Second*task.TimeOut),
		asynq.Queue(string(task.Priority)))
	return err
}

func (aq *AsynqBroker) Shutdown() {
	if aq.server != nil {
		aq.server.Shutdown()
	}
	if aq.Client != nil {
		_ = aq.Client.Close()
	}
}

// asynqLogger routes asynq's internal logs through the process logger.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) {}

func (asynqLogger) Info(args ...interface{}) {
	logger.Info("asynq", logger.LoggerOptions{Key: "details", Data: args})
}

func (asynqLogger) Warn(args ...interface{}) {
	logger.Warning("asynq", logger.LoggerOptions{Key: "details", Data: args})
}

func (asynqLogger) Error(args ...interface{}) {
	logger.Error("asynq", logger.LoggerOptions{Key: "details", Data: args})
}

func (asynqLogger) Fatal(args ...interface{}) {
	logger.Error("asynq fatal", logger.LoggerOptions{Key: "details", Data: args})
}
