package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/caretrackhq/assettrack_backend/config"
	"github.com/caretrackhq/assettrack_backend/models"
	"github.com/caretrackhq/assettrack_backend/utils"
)

// violationCap bounds how many violations a request synthesizes regardless
// of fleet size.
const violationCap = 150.0

// violationChance is the per-movement probability of synthesizing a
// violation: min(0.03, cap/movementCount).
func violationChance(movementCount int) float64 {
	if movementCount <= 0 {
		return 0
	}
	return math.Min(0.03, violationCap/float64(movementCount))
}

type Violation struct {
	Id                  string                 `json:"id"`
	AssetId             string                 `json:"assetId"`
	AssetName           string                 `json:"assetName"`
	ViolationType       models.ViolationType   `json:"violationType"`
	Severity            models.Severity        `json:"severity"`
	Status              models.ViolationStatus `json:"status"`
	GeofenceName        string                 `json:"geofenceName"`
	ZoneName            string                 `json:"zoneName"`
	Timestamp           time.Time              `json:"timestamp"`
	EstimatedRisk       int                    `json:"estimatedRisk"`
	ResponseTimeMinutes *int                   `json:"responseTimeMinutes,omitempty"`
}

type Alert struct {
	Id              string          `json:"id"`
	Type            string          `json:"type"`
	AssetId         string          `json:"assetId"`
	AssetName       string          `json:"assetName"`
	Severity        models.Severity `json:"severity"`
	Status          string          `json:"status"`
	Urgency         models.Urgency  `json:"urgency"`
	EstimatedImpact models.Impact   `json:"estimatedImpact"`
	Message         string          `json:"message"`
	Timestamp       time.Time       `json:"timestamp"`
}

type MovementPattern struct {
	AssetId           string             `json:"assetId"`
	AssetName         string             `json:"assetName"`
	MovementCount     int                `json:"movementCount"`
	PatternType       models.PatternType `json:"patternType"`
	AnomalyIndicators []string           `json:"anomalyIndicators"`
	Confidence        float64            `json:"confidence"`
}

type RiskAsset struct {
	AssetId          string                  `json:"assetId"`
	AssetName        string                  `json:"assetName"`
	DepartmentName   string                  `json:"departmentName"`
	RiskScore        int                     `json:"riskScore"`
	ComplianceStatus models.ComplianceStatus `json:"complianceStatus"`
	ActiveViolations int                     `json:"activeViolations"`
	ActiveAlerts     int                     `json:"activeAlerts"`
	MovementCount    int                     `json:"movementCount"`
}

type ViolationTypeCount struct {
	ViolationType models.ViolationType `json:"violationType"`
	Count         int                  `json:"count"`
}

type ProtectionCoverage struct {
	GeofenceType  models.GeofenceType `json:"geofenceType"`
	GeofenceCount int                 `json:"geofenceCount"`
	ZonesCovered  int                 `json:"zonesCovered"`
	AssetsCovered int                 `json:"assetsCovered"`
	Active        int                 `json:"active"`
}

type ProtectionMetrics struct {
	ViolationsToday        int                  `json:"violationsToday"`
	ViolationsThisWeek     int                  `json:"violationsThisWeek"`
	ViolationsThisMonth    int                  `json:"violationsThisMonth"`
	AlertsToday            int                  `json:"alertsToday"`
	AlertsThisWeek         int                  `json:"alertsThisWeek"`
	AvgResponseTimeMinutes float64              `json:"avgResponseTimeMinutes"`
	FalsePositiveRate      float64              `json:"falsePositiveRate"`
	TopViolationTypes      []ViolationTypeCount `json:"topViolationTypes"`
	WeeklyTrend            []TrendPoint         `json:"weeklyTrend"`

	// ComplianceScore is the fleet-level figure from the fixed population
	// constants. It is NOT derived from the per-asset statuses below and
	// the two can diverge on the same dataset; that mismatch is inherited
	// behavior, kept on purpose.
	ComplianceScore int `json:"complianceScore"`
}

type ProtectionReport struct {
	Metrics            ProtectionMetrics    `json:"metrics"`
	RecentViolations   []Violation          `json:"recentViolations"`
	ActiveAlerts       []Alert              `json:"activeAlerts"`
	MovementPatterns   []MovementPattern    `json:"movementPatterns"`
	RiskAssets         []RiskAsset          `json:"riskAssets"`
	ProtectionCoverage []ProtectionCoverage `json:"protectionCoverage"`
}

// ProtectionEngine simulates geofence violations and security alerts from
// movement history and rolls them up into per-asset and fleet risk views.
type ProtectionEngine struct {
	store   *models.EntityStore
	sampler *WeightedSampler
	now     func() time.Time
}

func NewProtectionEngine(store *models.EntityStore, sampler *WeightedSampler) *ProtectionEngine {
	return &ProtectionEngine{store: store, sampler: sampler, now: time.Now}
}

func (p *ProtectionEngine) Analyze(timeRange models.TimeRange) (*ProtectionReport, error) {
	ds, idx, err := p.store.Snapshot()
	if err != nil {
		return nil, err
	}

	now := p.now()
	cutoff := now.Add(-timeRange.Duration())

	tagged := models.TaggedAssets(ds.Assets)
	taggedIds := make(map[string]struct{}, len(tagged))
	for _, a := range tagged {
		taggedIds[a.Id] = struct{}{}
	}

	var movements []*models.MovementLog
	for i := range ds.MovementLogs {
		m := &ds.MovementLogs[i]
		if _, ok := taggedIds[m.AssetId]; !ok {
			continue
		}
		if m.Timestamp.Before(cutoff) {
			continue
		}
		movements = append(movements, m)
	}

	violations := p.generateViolations(ds, idx, movements)
	alerts := p.generateAlerts(idx, tagged, violations, now)
	patterns := p.detectPatterns(idx, movements)
	riskAssets := p.scoreAssets(idx, tagged, violations, alerts, patterns, movements)

	report := &ProtectionReport{
		Metrics:            p.fleetMetrics(violations, alerts, now),
		RecentViolations:   violations,
		ActiveAlerts:       alerts,
		MovementPatterns:   patterns,
		RiskAssets:         riskAssets,
		ProtectionCoverage: p.coverage(ds),
	}
	return report, nil
}

// generateViolations walks the in-window movements; each independently
// becomes a violation with probability min(0.03, 150/movementCount).
func (p *ProtectionEngine) generateViolations(ds *models.Dataset, idx *models.JoinIndex, movements []*models.MovementLog) []Violation {
	violations := []Violation{}
	chance := violationChance(len(movements))
	if chance == 0 {
		return violations
	}

	types := []string{
		string(models.ViolationTypeEntry),
		string(models.ViolationTypeExit),
		string(models.ViolationTypeUnauthorizedPresence),
		string(models.ViolationTypeAfterHours),
	}

	for i, m := range movements {
		if !p.sampler.Chance(chance) {
			continue
		}
		asset := idx.AssetsById[m.AssetId]
		severity := models.Severity(p.sampler.Sample(severityWeights))
		status := models.ViolationStatus(p.sampler.Sample(violationStatusWeights))

		v := Violation{
			Id:            fmt.Sprintf("vio-%s-%d", m.Id, i),
			AssetId:       m.AssetId,
			AssetName:     asset.Name,
			ViolationType: models.ViolationType(p.sampler.Pick(types)),
			Severity:      severity,
			Status:        status,
			GeofenceName:  p.matchGeofence(ds, m.ToZoneId),
			ZoneName:      idx.ZoneName(m.ToZoneId),
			Timestamp:     m.Timestamp,
			EstimatedRisk: ProfileFor(severity).EstimatedRisk,
		}
		if status == models.ViolationStatusResolved {
			rt := p.sampler.IntBetween(5, 50)
			v.ResponseTimeMinutes = &rt
		}
		violations = append(violations, v)
	}

	sort.Slice(violations, func(i, j int) bool { return violations[i].Timestamp.After(violations[j].Timestamp) })
	return violations
}

// matchGeofence prefers an active geofence configured over the destination
// zone; otherwise any active geofence stands in.
func (p *ProtectionEngine) matchGeofence(ds *models.Dataset, zoneId string) string {
	var active []string
	for i := range ds.GeofenceZones {
		g := &ds.GeofenceZones[i]
		if !g.Active {
			continue
		}
		if g.CoversZone(zoneId) {
			return g.Name
		}
		active = append(active, g.Name)
	}
	return p.sampler.Pick(active)
}

// generateAlerts spawns a geofence_violation alert from 60% of violations
// plus a 3-7 batch of standalone alerts over random assets.
func (p *ProtectionEngine) generateAlerts(idx *models.JoinIndex, tagged []models.Asset, violations []Violation, now time.Time) []Alert {
	alerts := []Alert{}

	for i := range violations {
		v := &violations[i]
		if !p.sampler.Chance(0.6) {
			continue
		}
		profile := ProfileFor(v.Severity)
		alerts = append(alerts, Alert{
			Id:              fmt.Sprintf("alr-%s", v.Id),
			Type:            "geofence_violation",
			AssetId:         v.AssetId,
			AssetName:       v.AssetName,
			Severity:        v.Severity,
			Status:          string(v.Status),
			Urgency:         profile.Urgency,
			EstimatedImpact: profile.Impact,
			Message:         fmt.Sprintf("%s violation in %s", v.ViolationType, v.ZoneName),
			Timestamp:       v.Timestamp,
		})
	}

	standaloneTypes := []string{"tag_battery_low", "signal_lost", "unexpected_idle", "zone_dwell_exceeded"}
	if len(tagged) > 0 {
		n := p.sampler.IntBetween(3, 7)
		for i := 0; i < n; i++ {
			a := &tagged[p.sampler.IntBetween(0, len(tagged)-1)]
			severity := models.Severity(p.sampler.Sample(severityWeights))
			profile := ProfileFor(severity)
			alerts = append(alerts, Alert{
				Id:              fmt.Sprintf("alr-solo-%d", i),
				Type:            p.sampler.Pick(standaloneTypes),
				AssetId:         a.Id,
				AssetName:       a.Name,
				Severity:        severity,
				Status:          string(models.ViolationStatusActive),
				Urgency:         profile.Urgency,
				EstimatedImpact: profile.Impact,
				Message:         fmt.Sprintf("Alert raised for %s", a.Name),
				Timestamp:       now.Add(-time.Duration(p.sampler.IntBetween(1, 720)) * time.Minute),
			})
		}
	}
	return alerts
}

var anomalyIndicatorNames = []string{
	"afterHours", "unauthorizedZones", "rapidMovement", "patternDeviation", "frequencyAnomaly",
}

// detectPatterns flags assets with more than 2 in-window movements with a
// 30% chance; the pattern type decides which anomaly indicators are even
// eligible, and each eligible indicator is then an independent draw.
func (p *ProtectionEngine) detectPatterns(idx *models.JoinIndex, movements []*models.MovementLog) []MovementPattern {
	patterns := []MovementPattern{}

	counts := map[string]int{}
	order := []string{}
	for _, m := range movements {
		if counts[m.AssetId] == 0 {
			order = append(order, m.AssetId)
		}
		counts[m.AssetId]++
	}

	patternTypes := []string{
		string(models.PatternTypeNormal),
		string(models.PatternTypeUnusual),
		string(models.PatternTypeSuspicious),
		string(models.PatternTypeEmergency),
	}

	for _, assetId := range order {
		if counts[assetId] <= 2 || !p.sampler.Chance(0.3) {
			continue
		}
		asset := idx.AssetsById[assetId]
		patternType := models.PatternType(p.sampler.Pick(patternTypes))

		indicators := []string{}
		if patternType != models.PatternTypeNormal {
			for _, name := range anomalyIndicatorNames {
				if p.sampler.Chance(0.4) {
					indicators = append(indicators, name)
				}
			}
		}

		patterns = append(patterns, MovementPattern{
			AssetId:           assetId,
			AssetName:         asset.Name,
			MovementCount:     counts[assetId],
			PatternType:       patternType,
			AnomalyIndicators: indicators,
			Confidence:        math.Round(p.sampler.FloatBetween(0.55, 0.95)*100) / 100,
		})
	}
	return patterns
}

// assetRiskScore sums severity-weighted violation points, pattern points
// and a movement-frequency penalty, capped at 100.
func assetRiskScore(violations []Violation, patterns []MovementPattern, movementCount int) int {
	score := 0
	for i := range violations {
		score += ProfileFor(violations[i].Severity).RiskPoints
	}
	for i := range patterns {
		score += patternPoints[patterns[i].PatternType]
	}
	if movementCount > 50 {
		score += 10
	} else if movementCount > 0 && movementCount < 5 {
		score += 8
	}
	return utils.ClampInt(score, 0, 100)
}

// complianceStatusFor derives the live per-asset status. This is the
// counterpart the fleet-level ComplianceScore does NOT reconcile with.
func complianceStatusFor(activeViolations, activeAlerts, riskScore int) models.ComplianceStatus {
	switch {
	case activeViolations > 2 || activeAlerts > 1 || riskScore >= 75:
		return models.ComplianceStatusNonCompliant
	case activeViolations > 0 || activeAlerts > 0 || riskScore >= 25:
		return models.ComplianceStatusAtRisk
	default:
		return models.ComplianceStatusCompliant
	}
}

func (p *ProtectionEngine) scoreAssets(idx *models.JoinIndex, tagged []models.Asset, violations []Violation, alerts []Alert, patterns []MovementPattern, movements []*models.MovementLog) []RiskAsset {
	violationsByAsset := map[string][]Violation{}
	activeViolations := map[string]int{}
	for _, v := range violations {
		violationsByAsset[v.AssetId] = append(violationsByAsset[v.AssetId], v)
		if v.Status == models.ViolationStatusActive {
			activeViolations[v.AssetId]++
		}
	}
	activeAlerts := map[string]int{}
	for _, a := range alerts {
		if a.Status == string(models.ViolationStatusActive) {
			activeAlerts[a.AssetId]++
		}
	}
	patternsByAsset := map[string][]MovementPattern{}
	for _, pat := range patterns {
		patternsByAsset[pat.AssetId] = append(patternsByAsset[pat.AssetId], pat)
	}
	movementCounts := map[string]int{}
	for _, m := range movements {
		movementCounts[m.AssetId]++
	}

	risks := []RiskAsset{}
	for i := range tagged {
		a := &tagged[i]
		score := assetRiskScore(violationsByAsset[a.Id], patternsByAsset[a.Id], movementCounts[a.Id])
		if score == 0 {
			continue
		}
		risks = append(risks, RiskAsset{
			AssetId:          a.Id,
			AssetName:        a.Name,
			DepartmentName:   idx.ResolveDepartment(a).Name,
			RiskScore:        score,
			ComplianceStatus: complianceStatusFor(activeViolations[a.Id], activeAlerts[a.Id], score),
			ActiveViolations: activeViolations[a.Id],
			ActiveAlerts:     activeAlerts[a.Id],
			MovementCount:    movementCounts[a.Id],
		})
	}
	sort.Slice(risks, func(i, j int) bool { return risks[i].RiskScore > risks[j].RiskScore })
	if len(risks) > 20 {
		risks = risks[:20]
	}
	return risks
}

func (p *ProtectionEngine) fleetMetrics(violations []Violation, alerts []Alert, now time.Time) ProtectionMetrics {
	metrics := ProtectionMetrics{
		ComplianceScore: config.CompliancePopulation().OverallScore(),
	}

	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	typeCounts := map[models.ViolationType]int{}
	var responseSum, responseCount, falsePositives int
	for i := range violations {
		v := &violations[i]
		if v.Timestamp.After(dayAgo) {
			metrics.ViolationsToday++
		}
		if v.Timestamp.After(weekAgo) {
			metrics.ViolationsThisWeek++
		}
		if v.Timestamp.After(monthAgo) {
			metrics.ViolationsThisMonth++
		}
		typeCounts[v.ViolationType]++
		if v.ResponseTimeMinutes != nil {
			responseSum += *v.ResponseTimeMinutes
			responseCount++
		}
		if v.Status == models.ViolationStatusFalsePositive {
			falsePositives++
		}
	}
	for i := range alerts {
		if alerts[i].Timestamp.After(dayAgo) {
			metrics.AlertsToday++
		}
		if alerts[i].Timestamp.After(weekAgo) {
			metrics.AlertsThisWeek++
		}
	}

	metrics.AvgResponseTimeMinutes = math.Round(utils.SafeDiv(float64(responseSum), float64(responseCount))*10) / 10
	metrics.FalsePositiveRate = math.Round(utils.SafeDiv(float64(falsePositives), float64(len(violations)))*1000) / 10

	for t, n := range typeCounts {
		metrics.TopViolationTypes = append(metrics.TopViolationTypes, ViolationTypeCount{ViolationType: t, Count: n})
	}
	sort.Slice(metrics.TopViolationTypes, func(i, j int) bool {
		if metrics.TopViolationTypes[i].Count != metrics.TopViolationTypes[j].Count {
			return metrics.TopViolationTypes[i].Count > metrics.TopViolationTypes[j].Count
		}
		return metrics.TopViolationTypes[i].ViolationType < metrics.TopViolationTypes[j].ViolationType
	})
	if len(metrics.TopViolationTypes) > 5 {
		metrics.TopViolationTypes = metrics.TopViolationTypes[:5]
	}

	synth := NewTrendSynthesizer(p.sampler)
	metrics.WeeklyTrend = synth.DailySeries(TrendSpec{
		Baseline:  math.Max(float64(metrics.ViolationsThisWeek)/7, 1),
		Periods:   7,
		Min:       0,
		Max:       violationCap,
		Jitter:    2,
		Amplitude: 1.5,
	}, now)

	return metrics
}

func (p *ProtectionEngine) coverage(ds *models.Dataset) []ProtectionCoverage {
	byType := map[models.GeofenceType]*ProtectionCoverage{}
	zonesByType := map[models.GeofenceType][]string{}
	order := []models.GeofenceType{}
	for i := range ds.GeofenceZones {
		g := &ds.GeofenceZones[i]
		c := byType[g.Type]
		if c == nil {
			c = &ProtectionCoverage{GeofenceType: g.Type}
			byType[g.Type] = c
			order = append(order, g.Type)
		}
		c.GeofenceCount++
		zonesByType[g.Type] = append(zonesByType[g.Type], g.ZoneIds...)
		c.AssetsCovered += len(g.AssetIds)
		if g.Active {
			c.Active++
		}
	}

	coverage := make([]ProtectionCoverage, 0, len(order))
	for _, t := range order {
		c := *byType[t]
		// A zone guarded by two geofences of the same type counts once.
		c.ZonesCovered = len(utils.UniqueSlice(zonesByType[t]))
		coverage = append(coverage, c)
	}
	return coverage
}
