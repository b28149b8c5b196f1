package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"leadchat_backend/internal/email"
	"leadchat_backend/platform/config"
	"leadchat_backend/platform/logger"
)

// Worker consumes scheduled tasks and delivers follow-up mail.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender email.Sender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskLeadFollowUp, w.handleLeadFollowUp)

	return w, nil
}

func (w *Worker) handleLeadFollowUp(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadFollowUpPayload(task)
	if err != nil {
		return err
	}

	w.log.Info("sending follow-up email", "to", payload.Email)

	followUp := email.FollowUp{
		Email:        payload.Email,
		Name:         payload.Name,
		BusinessType: payload.BusinessType,
		ProjectGoal:  payload.ProjectGoal,
		Topics:       payload.Topics,
	}

	if err := w.sender.SendFollowUp(ctx, followUp); err != nil {
		// Delivery failures are logged, not retried.
		w.log.Error("follow-up email failed", "to", payload.Email, "error", err)
		return nil
	}

	w.log.Info("follow-up email sent", "to", payload.Email)
	return nil
}

// Run starts the worker and blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	<-ctx.Done()
	w.log.Info("stopping worker")
	w.server.Shutdown()
	return nil
}
