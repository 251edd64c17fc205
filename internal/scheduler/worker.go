package scheduler

import (
	"context"
	"fmt"

	"orderhub_backend/platform/apperr"
	"orderhub_backend/platform/config"
	"orderhub_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// CampaignDeployRunner executes a queued deployment.
type CampaignDeployRunner interface {
	RunCampaignDeploy(ctx context.Context, payload CampaignDeployPayload) error
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	deploy CampaignDeployRunner
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, deploy CampaignDeployRunner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetSchedulerConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		deploy: deploy,
		log:    log,
	}

	mux.HandleFunc(TaskCampaignDeploy, w.handleCampaignDeploy)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleCampaignDeploy(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCampaignDeployPayload(task)
	if err != nil {
		return fmt.Errorf("decode deploy payload: %v: %w", err, asynq.SkipRetry)
	}

	return retryPolicy(w.deploy.RunCampaignDeploy(ctx, payload))
}

// retryPolicy lets asynq retry only failures that may succeed later.
func retryPolicy(err error) error {
	if err == nil {
		return nil
	}
	if apperr.GetKind(err) == apperr.KindUnavailable {
		return err
	}
	return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
}
