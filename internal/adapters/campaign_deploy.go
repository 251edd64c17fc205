package adapters

import (
	"context"
	"fmt"

	campaignports "orderhub_backend/internal/campaigns/ports"
	campaignsvc "orderhub_backend/internal/campaigns/service"
	campaigntransport "orderhub_backend/internal/campaigns/transport"
	"orderhub_backend/internal/scheduler"
	"orderhub_backend/platform/apperr"
	"orderhub_backend/platform/logger"

	"github.com/google/uuid"
)

// DeployEnqueuer is the scheduler side used to queue deployments.
type DeployEnqueuer interface {
	EnqueueCampaignDeploy(ctx context.Context, payload scheduler.CampaignDeployPayload) error
}

// CampaignDeployQueue adapts the scheduler client to the campaigns DeployQueue port.
type CampaignDeployQueue struct {
	client DeployEnqueuer
}

// NewCampaignDeployQueue creates a new deploy queue adapter.
func NewCampaignDeployQueue(client DeployEnqueuer) *CampaignDeployQueue {
	return &CampaignDeployQueue{client: client}
}

// EnqueueDeploy hands the deployment to the background worker.
func (q *CampaignDeployQueue) EnqueueDeploy(ctx context.Context, job campaignports.DeployJob) error {
	return q.client.EnqueueCampaignDeploy(ctx, scheduler.CampaignDeployPayload{
		BusinessID:   job.BusinessID.String(),
		ModeratorID:  job.ModeratorID.String(),
		AssignedByID: job.AssignedByID.String(),
		AssignedDate: job.AssignedDate,
		Phones:       job.Phones,
	})
}

// DeployExecutor runs a deployment synchronously.
type DeployExecutor interface {
	ExecuteDeploy(ctx context.Context, job campaignports.DeployJob) (campaigntransport.DeployResponse, error)
}

// CampaignDeployRunner lets the scheduler worker execute queued deployments.
type CampaignDeployRunner struct {
	campaigns DeployExecutor
	log       *logger.Logger
}

// NewCampaignDeployRunner creates a new deploy runner adapter.
func NewCampaignDeployRunner(campaigns DeployExecutor, log *logger.Logger) *CampaignDeployRunner {
	return &CampaignDeployRunner{campaigns: campaigns, log: log}
}

// RunCampaignDeploy decodes the payload and executes the deployment.
func (r *CampaignDeployRunner) RunCampaignDeploy(ctx context.Context, payload scheduler.CampaignDeployPayload) error {
	job, err := deployJobFromPayload(payload)
	if err != nil {
		return err
	}

	result, err := r.campaigns.ExecuteDeploy(ctx, job)
	if err != nil {
		return err
	}

	r.log.Info("queued deployment executed",
		"businessId", job.BusinessID,
		"moderatorId", job.ModeratorID,
		"reassigned", result.Reassigned,
		"created", result.Created,
		"missing", len(result.Missing),
	)
	return nil
}

func deployJobFromPayload(payload scheduler.CampaignDeployPayload) (campaignports.DeployJob, error) {
	businessID, err := uuid.Parse(payload.BusinessID)
	if err != nil {
		return campaignports.DeployJob{}, apperr.Validation(fmt.Sprintf("invalid business id %q", payload.BusinessID))
	}
	moderatorID, err := uuid.Parse(payload.ModeratorID)
	if err != nil {
		return campaignports.DeployJob{}, apperr.Validation(fmt.Sprintf("invalid moderator id %q", payload.ModeratorID))
	}
	var assignedBy uuid.UUID
	if payload.AssignedByID != "" {
		if assignedBy, err = uuid.Parse(payload.AssignedByID); err != nil {
			return campaignports.DeployJob{}, apperr.Validation(fmt.Sprintf("invalid assigner id %q", payload.AssignedByID))
		}
	}

	return campaignports.DeployJob{
		BusinessID:   businessID,
		ModeratorID:  moderatorID,
		AssignedByID: assignedBy,
		AssignedDate: payload.AssignedDate,
		Phones:       payload.Phones,
	}, nil
}

var (
	_ campaignports.DeployQueue      = (*CampaignDeployQueue)(nil)
	_ scheduler.CampaignDeployRunner = (*CampaignDeployRunner)(nil)
	_ DeployExecutor                 = (*campaignsvc.Service)(nil)
)
