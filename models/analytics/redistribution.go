package analytics

import (
	"fmt"

	"github.com/caretrackhq/assettrack_backend/models"
)

const maxSuggestions = 5

type RedistributionSuggestion struct {
	FromDepartment   string  `json:"fromDepartment"`
	ToDepartment     string  `json:"toDepartment"`
	AssetId          string  `json:"assetId"`
	AssetName        string  `json:"assetName"`
	AssetUtilization float64 `json:"assetUtilization"`
	Priority         string  `json:"priority"`
	EstimatedGain    string  `json:"estimatedGain"`
}

// PlanRedistribution pairs low-utilization departments (donors, avg < 50)
// with high-utilization ones (receivers, avg > 80) index-wise and proposes
// one idle asset per pair. Greedy nearest-available matching, capped at 5
// suggestions; the pairing order is the rollup order, which is already
// sorted descending by average utilization.
func PlanRedistribution(rollup []DepartmentUtilization, idx *models.JoinIndex) []RedistributionSuggestion {
	suggestions := []RedistributionSuggestion{}

	var donors, receivers []DepartmentUtilization
	for _, row := range rollup {
		switch {
		case row.AvgUtilization < donorAvgBelow && row.TotalAssets > 0:
			donors = append(donors, row)
		case row.AvgUtilization > receiverAvgAbove:
			receivers = append(receivers, row)
		}
	}
	if len(receivers) == 0 {
		return suggestions
	}

	for i, donor := range donors {
		if len(suggestions) >= maxSuggestions {
			break
		}
		receiver := receivers[i%len(receivers)]

		asset := pickDonorAsset(idx.AssetsByDept[donor.DepartmentId])
		if asset == nil {
			continue
		}

		priority := "medium"
		if donor.AvgUtilization < 20 {
			priority = "high"
		}

		suggestions = append(suggestions, RedistributionSuggestion{
			FromDepartment:   donor.DepartmentName,
			ToDepartment:     receiver.DepartmentName,
			AssetId:          asset.Id,
			AssetName:        asset.Name,
			AssetUtilization: asset.Utilization,
			Priority:         priority,
			EstimatedGain:    fmt.Sprintf("+%d-%d%% utilization", 15, 25),
		})
	}
	return suggestions
}

// pickDonorAsset takes the first tagged asset under the idle threshold.
func pickDonorAsset(assets []*models.Asset) *models.Asset {
	for _, a := range assets {
		if a.IsTagged() && a.Utilization < idleBelow {
			return a
		}
	}
	return nil
}
