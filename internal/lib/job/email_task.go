package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskEmployeeRegistered is sent after an employee record is created.
	TaskEmployeeRegistered = "email:employee_registered"
)

// EmployeeRegisteredPayload is the JSON body of TaskEmployeeRegistered.
type EmployeeRegisteredPayload struct {
	EmployeeID string `json:"employee_id"`
	To         string `json:"to"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}

// NewEmployeeRegisteredTask builds the task with up to 3 retries on the
// default queue and a 30s handler timeout.
func NewEmployeeRegisteredTask(p EmployeeRegisteredPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskEmployeeRegistered,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
