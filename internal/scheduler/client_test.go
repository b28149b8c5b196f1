package scheduler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

func TestScheduleFollowUpEnqueuesDelayedTask(t *testing.T) {
	mr := miniredis.RunT(t)

	opt := asynq.RedisClientOpt{Addr: mr.Addr()}
	c := &Client{client: asynq.NewClient(opt), queue: "default"}
	defer c.Close()

	payload := FollowUpPayload{
		Email:        "jane@acme.com",
		Name:         "Jane",
		BusinessType: "retail",
		Topics:       []string{"web development"},
	}

	if err := c.ScheduleFollowUp(context.Background(), payload, 3*time.Second); err != nil {
		t.Fatalf("ScheduleFollowUp failed: %v", err)
	}

	inspector := asynq.NewInspector(opt)
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("default")
	if err != nil {
		t.Fatalf("list scheduled tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("scheduled tasks = %d, want 1", len(tasks))
	}

	task := tasks[0]
	if task.Type != TaskLeadFollowUp {
		t.Errorf("task type = %q, want %q", task.Type, TaskLeadFollowUp)
	}

	var got FollowUpPayload
	if err := json.Unmarshal(task.Payload, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got.Email != payload.Email || got.Name != payload.Name {
		t.Errorf("payload round trip mismatch: %+v", got)
	}

	until := time.Until(task.NextProcessAt)
	if until <= 0 || until > 4*time.Second {
		t.Errorf("task delay out of range: %v", until)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if err := c.ScheduleFollowUp(context.Background(), FollowUpPayload{}, time.Second); err != nil {
		t.Errorf("nil client should no-op, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("nil client close should no-op, got %v", err)
	}
}
