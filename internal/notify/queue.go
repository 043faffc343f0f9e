package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TaskReportFiled is enqueued for every new finder report.
const TaskReportFiled = "report:filed"

// QueueNotifier hands notices to the worker through Redis.
type QueueNotifier struct {
	Client *asynq.Client
}

func (q *QueueNotifier) ReportFiled(ctx context.Context, n Notice) error {
	task, err := newReportFiledTask(n)
	if err != nil {
		return err
	}
	if _, err := q.Client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue notice: %w", err)
	}
	return nil
}

func newReportFiledTask(n Notice) (*asynq.Task, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshal notice: %w", err)
	}
	return asynq.NewTask(TaskReportFiled, data), nil
}

// Processor is plugged into the asynq worker loop.
type Processor struct {
	DB *sql.DB
}

// Handler registers the notice handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskReportFiled, p.handleReportFiled)
	return mux
}

func (p *Processor) handleReportFiled(ctx context.Context, task *asynq.Task) error {
	var n Notice
	if err := json.Unmarshal(task.Payload(), &n); err != nil {
		return fmt.Errorf("decode notice: %w: %w", err, asynq.SkipRetry)
	}
	return deliver(ctx, p.DB, n)
}
