package analytics

import (
	"math"
	"time"

	"github.com/caretrackhq/assettrack_backend/config"
	"github.com/caretrackhq/assettrack_backend/models"
	"github.com/caretrackhq/assettrack_backend/utils"
	"github.com/shopspring/decimal"
)

// Per-asset sample cap: the per-asset table is a capped sample of the
// tagged fleet, not the whole population.
const assetRiskSampleCap = 200

// Share of the sample deterministically marked non-compliant (by index, no
// draw — unlike the department rollup, this selection must be stable).
const nonCompliantShare = 0.45

var complianceIssueVocabulary = []string{
	"Missed preventive maintenance window",
	"Calibration certificate expired",
	"Battery replacement overdue",
	"Firmware below mandated version",
	"Inspection sticker missing",
	"Cleaning log incomplete",
	"Manufacturer recall open",
	"Usage log gaps detected",
}

type RiskBucket struct {
	Level      models.RiskLevel `json:"level"`
	Count      int              `json:"count"`
	Percentage int              `json:"percentage"`
}

type DepartmentRisk struct {
	DepartmentName string `json:"departmentName"`
	TotalAssets    int    `json:"totalAssets"`
	Compliant      int    `json:"compliant"`
	NonCompliant   int    `json:"nonCompliant"`
	HighRisk       int    `json:"highRisk"`
	MediumRisk     int    `json:"mediumRisk"`
	LowRisk        int    `json:"lowRisk"`
	ComplianceRate int    `json:"complianceRate"`
}

type NoncompliancePoint struct {
	Date  string  `json:"date"`
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type AssetRisk struct {
	AssetId            string           `json:"assetId"`
	AssetName          string           `json:"assetName"`
	DepartmentName     string           `json:"departmentName"`
	RiskScore          int              `json:"riskScore"`
	RiskLevel          models.RiskLevel `json:"riskLevel"`
	MissedMaintenance  int              `json:"missedMaintenance"`
	OverdueCalibration bool             `json:"overdueCalibration"`
	RecallFlag         bool             `json:"recallFlag"`
	Issues             []string         `json:"issues"`
}

type ComplianceSummary struct {
	OverallScore       int                  `json:"overallScore"`
	TotalAssets        int                  `json:"totalAssets"`
	FullyCompliant     int                  `json:"fullyCompliant"`
	NonCompliant       int                  `json:"nonCompliant"`
	RiskByDepartment   []DepartmentRisk     `json:"riskByDepartment"`
	NoncomplianceTrend []NoncompliancePoint `json:"noncomplianceTrend"`
	RiskDistribution   []RiskBucket         `json:"riskDistribution"`
}

type ComplianceReport struct {
	Summary     ComplianceSummary `json:"summary"`
	AssetRisks  []AssetRisk       `json:"assetRisks"`
	ValueAtRisk decimal.Decimal   `json:"valueAtRisk"`
}

// ComplianceScorer classifies assets into risk tiers against a FIXED target
// population (config constants). The totals deliberately do not derive from
// the live asset count: the compliance narrative stays stable however large
// the dataset is.
type ComplianceScorer struct {
	store   *models.EntityStore
	sampler *WeightedSampler
	cfg     config.CompliancePopulationConfig
	now     func() time.Time
}

func NewComplianceScorer(store *models.EntityStore, sampler *WeightedSampler) *ComplianceScorer {
	return &ComplianceScorer{
		store:   store,
		sampler: sampler,
		cfg:     config.CompliancePopulation(),
		now:     time.Now,
	}
}

func (c *ComplianceScorer) Score() (*ComplianceReport, error) {
	ds, idx, err := c.store.Snapshot()
	if err != nil {
		return nil, err
	}

	tagged := models.TaggedAssets(ds.Assets)
	assetRisks, valueAtRisk := c.assetRisks(idx, tagged)

	report := &ComplianceReport{
		Summary: ComplianceSummary{
			OverallScore:       c.cfg.OverallScore(),
			TotalAssets:        c.cfg.TotalMonitored,
			FullyCompliant:     c.cfg.FullyCompliant,
			NonCompliant:       c.cfg.NonCompliant(),
			RiskByDepartment:   c.departmentRisk(ds, idx, tagged),
			NoncomplianceTrend: c.noncomplianceTrend(),
			RiskDistribution:   c.riskDistribution(),
		},
		AssetRisks:  assetRisks,
		ValueAtRisk: valueAtRisk,
	}
	return report, nil
}

// riskDistribution partitions the non-compliant population. Counts are
// exact by construction (High and Medium are fixed, Low is the remainder);
// percentages are rounded per bucket independently, tolerance +/-1 each.
func (c *ComplianceScorer) riskDistribution() []RiskBucket {
	nonCompliant := c.cfg.NonCompliant()
	return []RiskBucket{
		{Level: models.RiskLevelHigh, Count: c.cfg.HighRisk, Percentage: utils.RoundPct(c.cfg.HighRisk, nonCompliant)},
		{Level: models.RiskLevelMedium, Count: c.cfg.MediumRisk, Percentage: utils.RoundPct(c.cfg.MediumRisk, nonCompliant)},
		{Level: models.RiskLevelLow, Count: c.cfg.LowRisk(), Percentage: utils.RoundPct(c.cfg.LowRisk(), nonCompliant)},
	}
}

// departmentRisk slices the fixed population proportionally over the live
// departments, with a bounded-random local compliance ratio (45-65%) and a
// fixed 15/35/rest high/medium/low split of each department's non-compliant
// count.
func (c *ComplianceScorer) departmentRisk(ds *models.Dataset, idx *models.JoinIndex, tagged []models.Asset) []DepartmentRisk {
	countByDept := make(map[string]int)
	for i := range tagged {
		countByDept[idx.ResolveDepartment(&tagged[i]).Id]++
	}

	rollup := make([]DepartmentRisk, 0, len(ds.Departments))
	for _, dept := range ds.Departments {
		liveCount := countByDept[dept.Id]
		slice := c.cfg.TotalMonitored * liveCount / utils.ClampInt(len(tagged), 1, math.MaxInt32)
		if slice == 0 {
			rollup = append(rollup, DepartmentRisk{DepartmentName: dept.Name})
			continue
		}

		ratio := c.sampler.FloatBetween(0.45, 0.65)
		compliant := int(float64(slice) * ratio)
		nonCompliant := slice - compliant
		high := int(float64(nonCompliant) * 0.15)
		medium := int(float64(nonCompliant) * 0.35)

		rollup = append(rollup, DepartmentRisk{
			DepartmentName: dept.Name,
			TotalAssets:    slice,
			Compliant:      compliant,
			NonCompliant:   nonCompliant,
			HighRisk:       high,
			MediumRisk:     medium,
			LowRisk:        nonCompliant - high - medium,
			ComplianceRate: utils.RoundPct(compliant, slice),
		})
	}
	return rollup
}

// assetRisks builds the per-asset table: the first 45% of a capped sample
// are non-compliant by index, each with a sampled risk level, a score from
// that level's range, and 1-5 issues from the fixed vocabulary.
func (c *ComplianceScorer) assetRisks(idx *models.JoinIndex, tagged []models.Asset) ([]AssetRisk, decimal.Decimal) {
	sample := tagged
	if len(sample) > assetRiskSampleCap {
		sample = sample[:assetRiskSampleCap]
	}
	nonCompliantCount := int(float64(len(sample)) * nonCompliantShare)

	risks := make([]AssetRisk, 0, nonCompliantCount)
	valueAtRisk := decimal.Zero
	for i := 0; i < nonCompliantCount; i++ {
		a := &sample[i]
		level := models.RiskLevel(c.sampler.Sample(riskLevelWeights))

		risk := AssetRisk{
			AssetId:            a.Id,
			AssetName:          a.Name,
			DepartmentName:     idx.ResolveDepartment(a).Name,
			RiskLevel:          level,
			RiskScore:          c.riskScoreFor(level),
			MissedMaintenance:  c.missedMaintenance(idx, a.Id),
			OverdueCalibration: c.sampler.Chance(0.35),
			RecallFlag:         c.sampler.Chance(0.08),
			Issues:             c.pickIssues(),
		}
		risks = append(risks, risk)
		valueAtRisk = valueAtRisk.Add(a.Value)
	}
	return risks, valueAtRisk
}

func (c *ComplianceScorer) riskScoreFor(level models.RiskLevel) int {
	switch level {
	case models.RiskLevelHigh:
		return c.sampler.IntBetween(75, 99)
	case models.RiskLevelMedium:
		return c.sampler.IntBetween(40, 69)
	default:
		return c.sampler.IntBetween(10, 39)
	}
}

// missedMaintenance counts real overdue tasks where the dataset has them,
// topping up with a small draw so sparse datasets still show a penalty.
func (c *ComplianceScorer) missedMaintenance(idx *models.JoinIndex, assetId string) int {
	var overdue int
	for _, task := range idx.TasksByAsset[assetId] {
		if task.Status == models.MaintenanceStatusOverdue {
			overdue++
		}
	}
	if overdue > 0 {
		return overdue
	}
	return c.sampler.IntBetween(0, 3)
}

func (c *ComplianceScorer) pickIssues() []string {
	n := c.sampler.IntBetween(1, 5)
	picked := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(picked) < n {
		issue := c.sampler.Pick(complianceIssueVocabulary)
		if _, dup := seen[issue]; dup {
			continue
		}
		seen[issue] = struct{}{}
		picked = append(picked, issue)
	}
	return picked
}

// noncomplianceTrend is a 30-day series: a fixed baseline rate with linear
// improvement plus daily jitter, clamped to [40,50], converted to a count
// against the monitored population.
func (c *ComplianceScorer) noncomplianceTrend() []NoncompliancePoint {
	const (
		baselineRate     = 48.0
		totalImprovement = 5.0
		days             = 30
	)

	now := c.now()
	points := make([]NoncompliancePoint, 0, days)
	for i := 0; i < days; i++ {
		rate := baselineRate - totalImprovement*float64(i)/float64(days)
		rate += c.sampler.FloatBetween(-1.5, 1.5)
		rate = utils.ClampFloat(rate, 40, 50)
		rate = math.Round(rate*10) / 10

		points = append(points, NoncompliancePoint{
			Date:  now.AddDate(0, 0, i-days+1).Format("2006-01-02"),
			Rate:  rate,
			Count: int(math.Round(rate / 100 * float64(c.cfg.TotalMonitored))),
		})
	}
	return points
}
