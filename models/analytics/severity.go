package analytics

import "github.com/caretrackhq/assettrack_backend/models"

// SeverityProfile is the single severity -> urgency/impact/points mapping.
// The source of this engine repeated the table ad hoc in three places; here
// the protection engine and the report assembler share this one.
type SeverityProfile struct {
	Urgency       models.Urgency
	Impact        models.Impact
	RiskPoints    int
	EstimatedRisk int // 1-10 band midpoint for a violation of this severity
}

var severityProfiles = map[models.Severity]SeverityProfile{
	models.SeverityCritical: {Urgency: models.UrgencyImmediate, Impact: models.ImpactCritical, RiskPoints: 25, EstimatedRisk: 9},
	models.SeverityHigh:     {Urgency: models.UrgencyWithinHour, Impact: models.ImpactSignificant, RiskPoints: 15, EstimatedRisk: 7},
	models.SeverityMedium:   {Urgency: models.UrgencyWithinDay, Impact: models.ImpactModerate, RiskPoints: 8, EstimatedRisk: 5},
	models.SeverityLow:      {Urgency: models.UrgencyRoutine, Impact: models.ImpactMinimal, RiskPoints: 3, EstimatedRisk: 2},
}

// ProfileFor defaults to the low profile for anything unrecognized.
func ProfileFor(sev models.Severity) SeverityProfile {
	if p, ok := severityProfiles[sev]; ok {
		return p
	}
	return severityProfiles[models.SeverityLow]
}

// Severity draw skews low; status draw skews resolved. Both are the
// single-shot weighted draws standing in for a real workflow.
var severityWeights = []WeightedLabel{
	{Label: string(models.SeverityLow), Weight: 0.5},
	{Label: string(models.SeverityMedium), Weight: 0.3},
	{Label: string(models.SeverityHigh), Weight: 0.15},
	{Label: string(models.SeverityCritical), Weight: 0.05},
}

var violationStatusWeights = []WeightedLabel{
	{Label: string(models.ViolationStatusResolved), Weight: 0.6},
	{Label: string(models.ViolationStatusActive), Weight: 0.15},
	{Label: string(models.ViolationStatusInvestigating), Weight: 0.15},
	{Label: string(models.ViolationStatusFalsePositive), Weight: 0.1},
}

var riskLevelWeights = []WeightedLabel{
	{Label: string(models.RiskLevelLow), Weight: 0.5},
	{Label: string(models.RiskLevelMedium), Weight: 0.35},
	{Label: string(models.RiskLevelHigh), Weight: 0.15},
}

// Pattern points for per-asset risk scoring, keyed by pattern type.
var patternPoints = map[models.PatternType]int{
	models.PatternTypeEmergency:  15,
	models.PatternTypeSuspicious: 15,
	models.PatternTypeUnusual:    8,
	models.PatternTypeNormal:     2,
}
