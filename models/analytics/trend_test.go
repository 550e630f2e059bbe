package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrend_DailySeriesBoundedAndLabelled(t *testing.T) {
	synth := NewTrendSynthesizer(testSampler())
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	series := synth.DailySeries(TrendSpec{
		Baseline:  70,
		Periods:   30,
		Min:       0,
		Max:       100,
		Jitter:    6,
		Amplitude: 8,
	}, now)

	require.Len(t, series, 30)
	assert.Equal(t, "2026-02-09", series[0].Label)
	assert.Equal(t, "2026-03-10", series[29].Label)
	for _, p := range series {
		assert.GreaterOrEqual(t, p.Value, 0.0)
		assert.LessOrEqual(t, p.Value, 100.0)
	}
}

func TestTrend_ClampCatchesDrift(t *testing.T) {
	synth := NewTrendSynthesizer(testSampler())

	// Baseline far above the ceiling: every point must still come back
	// inside the documented range.
	series := synth.DailySeries(TrendSpec{
		Baseline: 500,
		Periods:  7,
		Min:      10,
		Max:      90,
		Jitter:   50,
	}, time.Now())

	for _, p := range series {
		assert.GreaterOrEqual(t, p.Value, 10.0)
		assert.LessOrEqual(t, p.Value, 90.0)
	}
}

func TestTrend_DepressionSubtracts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	spec := TrendSpec{
		Baseline:   60,
		Periods:    7,
		Min:        0,
		Max:        100,
		Depression: map[int]float64{3: 15},
	}

	// Same seed with and without the depression: only bucket 3 moves.
	plain := NewTrendSynthesizer(testSampler()).DailySeries(TrendSpec{
		Baseline: 60, Periods: 7, Min: 0, Max: 100,
	}, now)
	depressed := NewTrendSynthesizer(testSampler()).DailySeries(spec, now)

	for i := range plain {
		if i == 3 {
			assert.InDelta(t, plain[i].Value-15, depressed[i].Value, 0.01)
		} else {
			assert.Equal(t, plain[i].Value, depressed[i].Value)
		}
	}
}

func TestTrend_HourlySeriesCoversDay(t *testing.T) {
	synth := NewTrendSynthesizer(testSampler())
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	series := synth.HourlySeries(TrendSpec{
		Baseline: 40,
		Periods:  24,
		Min:      0,
		Max:      100,
		Jitter:   3,
	}, now)

	require.Len(t, series, 24)
	assert.Equal(t, "00:00", series[0].Label)
	assert.Equal(t, "23:00", series[23].Label)
}

func TestTrend_MonthlySeriesLabels(t *testing.T) {
	synth := NewTrendSynthesizer(testSampler())
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	series := synth.MonthlySeries(TrendSpec{
		Baseline: 50,
		Periods:  12,
		Min:      0,
		Max:      100,
	}, now)

	require.Len(t, series, 12)
	assert.Equal(t, "2025-Apr", series[0].Label)
	assert.Equal(t, "2026-Mar", series[11].Label)
}
