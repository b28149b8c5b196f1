// Package scheduler queues and executes the delayed follow-up email via asynq.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadFollowUp = "lead.followup"

// FollowUpPayload carries everything the worker needs to render and send the
// follow-up mail. It is self-contained so the worker process does not depend
// on the API server's in-memory session state.
type FollowUpPayload struct {
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	BusinessType string   `json:"businessType"`
	ProjectGoal  string   `json:"projectGoal"`
	Topics       []string `json:"topics"`
}

func NewLeadFollowUpTask(payload FollowUpPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadFollowUp, data), nil
}

func ParseLeadFollowUpPayload(task *asynq.Task) (FollowUpPayload, error) {
	var payload FollowUpPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpPayload{}, err
	}
	return payload, nil
}
