package generator

import (
	"context"
	"time"
)

// TaskKind identifies what a task does
type TaskKind string

const (
	TaskGenerate TaskKind = "generate"
	TaskDeploy   TaskKind = "deploy"
)

// TaskStatus is the lifecycle state of a task
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
	TaskCancelled TaskStatus = "cancelled"
)

// Final reports whether the status can no longer change
func (s TaskStatus) Final() bool {
	return s == TaskSucceeded || s == TaskFailed || s == TaskCancelled
}

// Task tracks one generate or deploy request
type Task struct {
	ID        string     `json:"id"`
	Kind      TaskKind   `json:"kind"`
	Status    TaskStatus `json:"status"`
	CoinID    string     `json:"coinId,omitempty"`
	Creator   string     `json:"creator"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	draft      Draft
	cancel     context.CancelFunc
	committing bool
}
