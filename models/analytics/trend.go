package analytics

import (
	"math"
	"time"

	"github.com/caretrackhq/assettrack_backend/utils"
)

// TrendPoint is one bucket of a chart series.
type TrendPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TrendSynthesizer produces time-bucketed series with bounded,
// seasonally-shaped variation. Every series is clamped to its [Min,Max]
// before it is returned; a chart never sees a drifted value.
type TrendSynthesizer struct {
	sampler *WeightedSampler
}

func NewTrendSynthesizer(sampler *WeightedSampler) *TrendSynthesizer {
	return &TrendSynthesizer{sampler: sampler}
}

// TrendSpec describes one series request.
type TrendSpec struct {
	Baseline  float64
	Periods   int
	Min       float64
	Max       float64
	Jitter    float64 // uniform jitter amplitude, +/- Jitter
	Amplitude float64 // sinusoidal component amplitude

	// Depression maps a period index to a value subtracted from that
	// bucket (event-driven dips, e.g. heavy maintenance days).
	Depression map[int]float64
}

// Weekday multipliers: weekends run quieter than midweek.
var weekdayFactor = [7]float64{0.82, 1.0, 1.05, 1.08, 1.06, 1.0, 0.85}

// Hour-of-day multipliers: overnight trough, shift-change peaks.
var hourFactor = [24]float64{
	0.55, 0.5, 0.48, 0.48, 0.52, 0.6,
	0.75, 0.95, 1.1, 1.15, 1.12, 1.08,
	1.05, 1.08, 1.12, 1.1, 1.05, 0.98,
	0.9, 0.82, 0.75, 0.68, 0.62, 0.58,
}

// DailySeries produces one point per day ending today, labelled YYYY-MM-DD.
func (t *TrendSynthesizer) DailySeries(spec TrendSpec, now time.Time) []TrendPoint {
	points := make([]TrendPoint, 0, spec.Periods)
	for i := 0; i < spec.Periods; i++ {
		day := now.AddDate(0, 0, i-spec.Periods+1)
		v := spec.Baseline * weekdayFactor[int(day.Weekday())]
		v += spec.Amplitude * math.Sin(2*math.Pi*float64(i)/7)
		v += t.sampler.FloatBetween(-spec.Jitter, spec.Jitter)
		if d, ok := spec.Depression[i]; ok {
			v -= d
		}
		points = append(points, TrendPoint{
			Label: day.Format("2006-01-02"),
			Value: utils.ClampFloat(math.Round(v*10)/10, spec.Min, spec.Max),
		})
	}
	return points
}

// HourlySeries produces one point per hour ending at the current hour,
// labelled HH:00.
func (t *TrendSynthesizer) HourlySeries(spec TrendSpec, now time.Time) []TrendPoint {
	points := make([]TrendPoint, 0, spec.Periods)
	for i := 0; i < spec.Periods; i++ {
		hour := now.Add(time.Duration(i-spec.Periods+1) * time.Hour)
		v := spec.Baseline * hourFactor[hour.Hour()]
		v += t.sampler.FloatBetween(-spec.Jitter, spec.Jitter)
		if d, ok := spec.Depression[i]; ok {
			v -= d
		}
		points = append(points, TrendPoint{
			Label: hour.Format("15:00"),
			Value: utils.ClampFloat(math.Round(v*10)/10, spec.Min, spec.Max),
		})
	}
	return points
}

// MonthlySeries produces one point per month ending this month, labelled
// YYYY-Jan, the label format the rest of the dashboards use for months.
func (t *TrendSynthesizer) MonthlySeries(spec TrendSpec, now time.Time) []TrendPoint {
	points := make([]TrendPoint, 0, spec.Periods)
	for i := 0; i < spec.Periods; i++ {
		month := now.AddDate(0, i-spec.Periods+1, 0)
		v := spec.Baseline
		v += spec.Amplitude * math.Sin(2*math.Pi*float64(i)/12)
		v += t.sampler.FloatBetween(-spec.Jitter, spec.Jitter)
		if d, ok := spec.Depression[i]; ok {
			v -= d
		}
		points = append(points, TrendPoint{
			Label: month.Format("2006-Jan"),
			Value: utils.ClampFloat(math.Round(v*10)/10, spec.Min, spec.Max),
		})
	}
	return points
}
