package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetLocation struct {
	ZoneId     string `json:"zoneId"`
	FloorId    string `json:"floorId"`
	BuildingId string `json:"buildingId"`
}

type Asset struct {
	Id             string          `json:"id" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Type           string          `json:"type"`
	Category       string          `json:"category"`
	DepartmentId   string          `json:"departmentId"`
	Location       AssetLocation   `json:"location"`
	Status         AssetStatus     `json:"status" validate:"required"`
	Utilization    float64         `json:"utilization" validate:"gte=0,lte=100"`
	LastActive     time.Time       `json:"lastActive"`
	TagId          *string         `json:"tagId,omitempty"`
	Value          decimal.Decimal `json:"value"`
	PurchaseDate   *time.Time      `json:"purchaseDate,omitempty"`
	MaintenanceDue *time.Time      `json:"maintenanceDue,omitempty"`
}

// IsTagged reports whether the asset carries an RTLS tag. Untagged assets
// are visible in raw listings but invisible to every analytics pipeline.
func (a *Asset) IsTagged() bool {
	return a.TagId != nil && *a.TagId != ""
}

// IdleDays is the whole number of days since the asset was last active,
// floored at zero so a clock-skewed lastActive never goes negative.
func (a *Asset) IdleDays(now time.Time) int {
	d := int(now.Sub(a.LastActive).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// TaggedAssets filters to the analytics-visible population.
func TaggedAssets(assets []Asset) []Asset {
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if a.IsTagged() {
			out = append(out, a)
		}
	}
	return out
}
