package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCampaignDeploy = "campaigns.deploy"

// CampaignDeployPayload carries a campaign deployment to the worker.
// Ids travel as strings and AssignedDate as YYYY-MM-DD.
type CampaignDeployPayload struct {
	BusinessID   string   `json:"businessId"`
	ModeratorID  string   `json:"moderatorId"`
	AssignedByID string   `json:"assignedById"`
	AssignedDate string   `json:"assignedDate"`
	Phones       []string `json:"phones"`
}

func NewCampaignDeployTask(payload CampaignDeployPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCampaignDeploy, data), nil
}

func ParseCampaignDeployPayload(task *asynq.Task) (CampaignDeployPayload, error) {
	var payload CampaignDeployPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CampaignDeployPayload{}, err
	}
	return payload, nil
}
