package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/caretrackhq/assettrack_backend/models"
	"github.com/caretrackhq/assettrack_backend/utils"
	"github.com/shopspring/decimal"
)

// Utilization thresholds shared by the analyzer and the planner.
const (
	underutilizedBelow = 40.0
	idleBelow          = 30.0
	donorAvgBelow      = 50.0
	receiverAvgAbove   = 80.0
)

type DepartmentUtilization struct {
	DepartmentId   string  `json:"departmentId"`
	DepartmentName string  `json:"departmentName"`
	TotalAssets    int     `json:"totalAssets"`
	AvgUtilization float64 `json:"avgUtilization"`

	// DisplayUtilization is the distribution-shaped value the dashboard
	// charts use so every filter band has visible members. It is synthetic
	// presentation data; AvgUtilization is the measurement.
	DisplayUtilization float64 `json:"displayUtilization"`
	UtilizationBand    string  `json:"utilizationBand"`

	Underutilized int `json:"underutilized"`
	Active        int `json:"active"`
	Idle          int `json:"idle"`
	InMaintenance int `json:"inMaintenance"`
	Available     int `json:"available"`

	UnderMaintenancePct   int `json:"underMaintenancePct"`
	PendingMaintenancePct int `json:"pendingMaintenancePct"`
	AvailablePct          int `json:"availablePct"`
}

type AssetTypeUtilization struct {
	Type           string  `json:"type"`
	TotalAssets    int     `json:"totalAssets"`
	AvgUtilization float64 `json:"avgUtilization"`
	InMaintenance  int     `json:"inMaintenance"`
}

type IdleAsset struct {
	AssetId           string  `json:"assetId"`
	AssetName         string  `json:"assetName"`
	DepartmentName    string  `json:"departmentName"`
	ZoneName          string  `json:"zoneName"`
	Utilization       float64 `json:"utilization"`
	IdleDays          int     `json:"idleDays"`
	RecommendedAction string  `json:"recommendedAction"`
}

type MaintenanceImpact struct {
	DepartmentName string `json:"departmentName"`
	InMaintenance  int    `json:"inMaintenance"`
	PendingTasks   int    `json:"pendingTasks"`
	OverdueTasks   int    `json:"overdueTasks"`
	ImpactPct      int    `json:"impactPct"`
}

type MovementAlert struct {
	AssetId   string    `json:"assetId"`
	AssetName string    `json:"assetName"`
	FromZone  string    `json:"fromZone"`
	ToZone    string    `json:"toZone"`
	MovedBy   string    `json:"movedBy"`
	Timestamp time.Time `json:"timestamp"`
}

type UtilizationStats struct {
	TotalAssets         int             `json:"totalAssets"`
	TaggedAssets        int             `json:"taggedAssets"`
	FleetAvgUtilization float64         `json:"fleetAvgUtilization"`
	UnderutilizedCount  int             `json:"underutilizedCount"`
	InMaintenanceCount  int             `json:"inMaintenanceCount"`
	TotalFleetValue     decimal.Decimal `json:"totalFleetValue"`
}

type UtilizationReport struct {
	Stats                     UtilizationStats            `json:"stats"`
	DepartmentUtilization     []DepartmentUtilization     `json:"departmentUtilization"`
	AssetTypeUtilization      []AssetTypeUtilization      `json:"assetTypeUtilization"`
	RedistributionSuggestions []RedistributionSuggestion  `json:"redistributionSuggestions"`
	IdleAssets                []IdleAsset                 `json:"idleAssets"`
	Top10IdleAssets           []IdleAsset                 `json:"top10IdleAssets"`
	UtilizationTrend          []TrendPoint                `json:"utilizationTrend"`
	MaintenanceImpact         []MaintenanceImpact         `json:"maintenanceImpact"`
	MovementAlerts            []MovementAlert             `json:"movementAlerts"`
}

// UtilizationAnalyzer aggregates per-department and per-type utilization
// from the tagged fleet. Untagged assets are invisible here by business
// rule; they stay visible in the raw listing only.
type UtilizationAnalyzer struct {
	store   *models.EntityStore
	sampler *WeightedSampler
	now     func() time.Time
}

func NewUtilizationAnalyzer(store *models.EntityStore, sampler *WeightedSampler) *UtilizationAnalyzer {
	return &UtilizationAnalyzer{store: store, sampler: sampler, now: time.Now}
}

func (u *UtilizationAnalyzer) Analyze() (*UtilizationReport, error) {
	ds, idx, err := u.store.Snapshot()
	if err != nil {
		return nil, err
	}

	now := u.now()
	tagged := models.TaggedAssets(ds.Assets)

	report := &UtilizationReport{
		DepartmentUtilization: u.departmentRollup(ds, idx, tagged),
		AssetTypeUtilization:  u.typeRollup(tagged),
		MaintenanceImpact:     []MaintenanceImpact{},
		MovementAlerts:        u.movementAlerts(ds, idx, now),
	}

	report.Stats = u.fleetStats(ds, tagged)
	report.IdleAssets, report.Top10IdleAssets = u.idleAssets(idx, tagged, now)
	report.MaintenanceImpact = u.maintenanceImpact(report.DepartmentUtilization, idx)
	report.RedistributionSuggestions = PlanRedistribution(report.DepartmentUtilization, idx)
	report.UtilizationTrend = u.utilizationTrend(ds, report.Stats.FleetAvgUtilization, now)

	return report, nil
}

func (u *UtilizationAnalyzer) fleetStats(ds *models.Dataset, tagged []models.Asset) UtilizationStats {
	stats := UtilizationStats{
		TotalAssets:     len(ds.Assets),
		TaggedAssets:    len(tagged),
		TotalFleetValue: decimal.Zero,
	}

	var sum float64
	for _, a := range tagged {
		sum += a.Utilization
		if a.Utilization < underutilizedBelow {
			stats.UnderutilizedCount++
		}
		if a.Status == models.AssetStatusMaintenance {
			stats.InMaintenanceCount++
		}
		stats.TotalFleetValue = stats.TotalFleetValue.Add(a.Value)
	}
	stats.FleetAvgUtilization = math.Round(utils.SafeDiv(sum, float64(len(tagged)))*10) / 10
	return stats
}

func (u *UtilizationAnalyzer) departmentRollup(ds *models.Dataset, idx *models.JoinIndex, tagged []models.Asset) []DepartmentUtilization {
	type acc struct {
		total, under, active, inMaint, available int
		sum                                      float64
	}
	byDept := make(map[string]*acc)
	for _, a := range tagged {
		dept := idx.ResolveDepartment(&a)
		g := byDept[dept.Id]
		if g == nil {
			g = &acc{}
			byDept[dept.Id] = g
		}
		g.total++
		g.sum += a.Utilization
		if a.Utilization < underutilizedBelow {
			g.under++
		} else {
			g.active++
		}
		switch a.Status {
		case models.AssetStatusMaintenance:
			g.inMaint++
		case models.AssetStatusAvailable:
			g.available++
		}
	}

	pendingByDept := make(map[string]int)
	for _, task := range ds.MaintenanceTasks {
		if task.Status != models.MaintenanceStatusPending {
			continue
		}
		if a, ok := idx.AssetsById[task.AssetId]; ok && a.IsTagged() {
			pendingByDept[idx.ResolveDepartment(a).Id]++
		}
	}

	// Every known department appears, zero-filled, so an empty department
	// renders as zeros instead of throwing off the charts.
	rollup := make([]DepartmentUtilization, 0, len(ds.Departments))
	deptIds := make([]string, 0, len(ds.Departments))
	for _, d := range ds.Departments {
		deptIds = append(deptIds, d.Id)
	}
	if _, ok := byDept[models.UnknownDepartment.Id]; ok {
		deptIds = append(deptIds, models.UnknownDepartment.Id)
	}

	for _, id := range deptIds {
		name := models.UnknownDepartment.Name
		if d, ok := idx.DepartmentsById[id]; ok {
			name = d.Name
		}
		g := byDept[id]
		if g == nil {
			g = &acc{}
		}

		row := DepartmentUtilization{
			DepartmentId:   id,
			DepartmentName: name,
			TotalAssets:    g.total,
			AvgUtilization: math.Round(utils.SafeDiv(g.sum, float64(g.total))*10) / 10,
			Underutilized:  g.under,
			Active:         g.active,
			Idle:           g.under,
			InMaintenance:  g.inMaint,
			Available:      g.available,
		}

		// Stacked percentages must sum to exactly 100: available is always
		// the remainder, never independently rounded.
		row.UnderMaintenancePct = utils.RoundPct(g.inMaint, g.total)
		row.PendingMaintenancePct = utils.RoundPct(pendingByDept[id], g.total)
		row.AvailablePct = 100 - row.UnderMaintenancePct - row.PendingMaintenancePct
		if row.AvailablePct < 0 {
			row.AvailablePct = 0
		}

		rollup = append(rollup, row)
	}

	sort.SliceStable(rollup, func(i, j int) bool {
		return rollup[i].AvgUtilization > rollup[j].AvgUtilization
	})
	u.shapeDistribution(rollup)
	return rollup
}

// shapeDistribution forces the sorted rollup into visible chart bands:
// top <=5 fully utilized, bottom <=3 critically idle, the 3 above them
// moderate. Synthetic presentation values only; AvgUtilization is left
// untouched.
func (u *UtilizationAnalyzer) shapeDistribution(rollup []DepartmentUtilization) {
	for i := range rollup {
		rollup[i].DisplayUtilization = rollup[i].AvgUtilization
		rollup[i].UtilizationBand = "normal"
	}

	n := len(rollup)
	for i := 0; i < n && i < 5; i++ {
		rollup[i].DisplayUtilization = math.Round((90+u.sampler.FloatBetween(0, 7))*10) / 10
		rollup[i].UtilizationBand = "fully-utilized"
	}

	idleStart := n - 3
	if idleStart < 5 {
		idleStart = 5
	}
	for i := idleStart; i < n; i++ {
		rollup[i].DisplayUtilization = math.Round(u.sampler.FloatBetween(25, 37)*10) / 10
		rollup[i].UtilizationBand = "critically-idle"
	}

	moderateStart := idleStart - 3
	if moderateStart < 5 {
		moderateStart = 5
	}
	for i := moderateStart; i < idleStart; i++ {
		rollup[i].DisplayUtilization = math.Round(u.sampler.FloatBetween(45, 57)*10) / 10
		rollup[i].UtilizationBand = "moderate"
	}
}

func (u *UtilizationAnalyzer) typeRollup(tagged []models.Asset) []AssetTypeUtilization {
	type acc struct {
		total, inMaint int
		sum            float64
	}
	byType := make(map[string]*acc)
	for _, a := range tagged {
		g := byType[a.Type]
		if g == nil {
			g = &acc{}
			byType[a.Type] = g
		}
		g.total++
		g.sum += a.Utilization
		if a.Status == models.AssetStatusMaintenance {
			g.inMaint++
		}
	}

	rollup := make([]AssetTypeUtilization, 0, len(byType))
	for typ, g := range byType {
		rollup = append(rollup, AssetTypeUtilization{
			Type:           typ,
			TotalAssets:    g.total,
			AvgUtilization: math.Round(utils.SafeDiv(g.sum, float64(g.total))*10) / 10,
			InMaintenance:  g.inMaint,
		})
	}
	sort.Slice(rollup, func(i, j int) bool { return rollup[i].AvgUtilization > rollup[j].AvgUtilization })
	return rollup
}

func (u *UtilizationAnalyzer) idleAssets(idx *models.JoinIndex, tagged []models.Asset, now time.Time) (all []IdleAsset, top10 []IdleAsset) {
	all = []IdleAsset{}
	for i := range tagged {
		a := &tagged[i]
		if a.Utilization >= idleBelow || a.Status != models.AssetStatusAvailable {
			continue
		}
		idleDays := a.IdleDays(now)
		all = append(all, IdleAsset{
			AssetId:           a.Id,
			AssetName:         a.Name,
			DepartmentName:    idx.ResolveDepartment(a).Name,
			ZoneName:          idx.ResolveLocation(a).Zone.Name,
			Utilization:       a.Utilization,
			IdleDays:          idleDays,
			RecommendedAction: recommendedAction(idleDays),
		})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Utilization < all[j].Utilization })

	top10 = all
	if len(top10) > 10 {
		top10 = top10[:10]
	}
	return all, top10
}

func recommendedAction(idleDays int) string {
	switch {
	case idleDays > 30:
		return "Consider Redistribution"
	case idleDays > 14:
		return "Schedule Utilization Review"
	default:
		return "Monitor Usage Pattern"
	}
}

func (u *UtilizationAnalyzer) maintenanceImpact(rollup []DepartmentUtilization, idx *models.JoinIndex) []MaintenanceImpact {
	impact := make([]MaintenanceImpact, 0, len(rollup))
	for _, row := range rollup {
		var pending, overdue int
		for _, a := range idx.AssetsByDept[row.DepartmentId] {
			for _, task := range idx.TasksByAsset[a.Id] {
				switch task.Status {
				case models.MaintenanceStatusPending:
					pending++
				case models.MaintenanceStatusOverdue:
					overdue++
				}
			}
		}
		if row.InMaintenance == 0 && pending == 0 && overdue == 0 {
			continue
		}
		impact = append(impact, MaintenanceImpact{
			DepartmentName: row.DepartmentName,
			InMaintenance:  row.InMaintenance,
			PendingTasks:   pending,
			OverdueTasks:   overdue,
			ImpactPct:      utils.RoundPct(row.InMaintenance+pending, utils.ClampInt(row.TotalAssets, 1, math.MaxInt32)),
		})
	}
	return impact
}

func (u *UtilizationAnalyzer) movementAlerts(ds *models.Dataset, idx *models.JoinIndex, now time.Time) []MovementAlert {
	alerts := []MovementAlert{}
	cutoff := now.Add(-24 * time.Hour)
	for i := range ds.MovementLogs {
		m := &ds.MovementLogs[i]
		if m.Authorized || m.Timestamp.Before(cutoff) {
			continue
		}
		asset, ok := idx.AssetsById[m.AssetId]
		if !ok || !asset.IsTagged() {
			continue
		}
		alerts = append(alerts, MovementAlert{
			AssetId:   m.AssetId,
			AssetName: asset.Name,
			FromZone:  idx.ZoneName(m.FromZoneId),
			ToZone:    idx.ZoneName(m.ToZoneId),
			MovedBy:   m.MovedBy,
			Timestamp: m.Timestamp,
		})
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].Timestamp.After(alerts[j].Timestamp) })
	if len(alerts) > 20 {
		alerts = alerts[:20]
	}
	return alerts
}

func (u *UtilizationAnalyzer) utilizationTrend(ds *models.Dataset, baseline float64, now time.Time) []TrendPoint {
	// Days with more than 5 scheduled maintenance events depress that
	// bucket's utilization by 15.
	depression := map[int]float64{}
	byDay := map[string]int{}
	for _, task := range ds.MaintenanceTasks {
		byDay[task.ScheduledDate.Format("2006-01-02")]++
	}
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, i-6).Format("2006-01-02")
		if byDay[day] > 5 {
			depression[i] = 15
		}
	}

	synth := NewTrendSynthesizer(u.sampler)
	return synth.DailySeries(TrendSpec{
		Baseline:   baseline,
		Periods:    7,
		Min:        0,
		Max:        100,
		Jitter:     4,
		Amplitude:  5,
		Depression: depression,
	}, now)
}
