package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// registrationMailer is the part of *email.Client the handlers need.
type registrationMailer interface {
	SendEmployeeRegisteredEmail(to, fullName, department string) error
}

func (j *JobService) handleEmployeeRegisteredTask(ctx context.Context, t *asynq.Task) error {
	var p EmployeeRegisteredPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal employee registered payload: %w", err)
	}

	logger := j.logger.With().
		Str("type", TaskEmployeeRegistered).
		Str("employee_id", p.EmployeeID).
		Logger()

	logger.Info().Msg("Processing employee registered email task")

	if err := j.mailer.SendEmployeeRegisteredEmail(p.To, p.FullName, p.Department); err != nil {
		logger.Error().Err(err).Msg("Failed to send employee registered email")
		return err
	}

	logger.Info().Msg("Successfully sent employee registered email")
	return nil
}
