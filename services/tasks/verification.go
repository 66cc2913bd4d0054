package tasks

import (
	"encoding/json"

	"heallink/models"

	"github.com/hibiken/asynq"
)

const TypeVerificationProcess = "verification:process"

// NewVerificationTask builds the queue task that reviews a submitted
// onboarding record.
func NewVerificationTask(payload models.VerificationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeVerificationProcess, b)
	opts := []asynq.Option{asynq.MaxRetry(3), asynq.Queue("default")}

	return task, opts, nil
}
