package mq_types

import (
	"context"
	"time"
)

type Queues string

type TaskQueueBroker interface {
	Start() error
	Enqueue(ctx context.Context, task QueueTask) error
	Shutdown()
}

type QueueTask struct {
	Name      Queues
	Payload   []byte
	Priority  TaskPriority
	ProcessIn time.Duration // second
	TimeOut   time.Duration // seconds
	MaxRetry  int
}

type TaskPriority string

const (
	Low    TaskPriority = "low"
	Medium TaskPriority = "medium"
	High   TaskPriority = "high"
)
