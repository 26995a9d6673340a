// Package lib holds supporting modules that do not belong to a single layer:
// background jobs (asynq on Redis) and the email client (Resend).
package lib
