package models

import "time"

// MovementLog is a directed transition between two zones for one asset.
// Logs are append-only: nothing in this codebase ever edits one.
type MovementLog struct {
	Id         string    `json:"id" validate:"required"`
	AssetId    string    `json:"assetId" validate:"required"`
	FromZoneId string    `json:"fromZoneId"`
	ToZoneId   string    `json:"toZoneId"`
	Timestamp  time.Time `json:"timestamp"`
	Authorized bool      `json:"authorized"`
	MovedBy    string    `json:"movedBy"`
}
