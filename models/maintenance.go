package models

import "time"

type MaintenanceTask struct {
	Id            string            `json:"id" validate:"required"`
	AssetId       string            `json:"assetId" validate:"required"`
	Status        MaintenanceStatus `json:"status" validate:"required"`
	ScheduledDate time.Time         `json:"scheduledDate"`
	Priority      string            `json:"priority"`
}
