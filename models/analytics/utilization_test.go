package analytics

import (
	"testing"
	"time"

	"github.com/caretrackhq/assettrack_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtilization_StackedPercentagesSumTo100(t *testing.T) {
	store := newTestStore(fixtureOptions{departments: 12, assetsPer: 6, movements: 40})
	analyzer := NewUtilizationAnalyzer(store, testSampler())

	report, err := analyzer.Analyze()
	require.NoError(t, err)

	for _, row := range report.DepartmentUtilization {
		sum := row.AvailablePct + row.UnderMaintenancePct + row.PendingMaintenancePct
		if sum != 100 {
			t.Fatalf("department %s: stacked percentages sum to %d, want 100", row.DepartmentName, sum)
		}
	}
}

func TestUtilization_EmptyDepartmentZeroFilled(t *testing.T) {
	ds := newTestDataset(fixtureOptions{departments: 3, assetsPer: 4})
	ds.Departments = append(ds.Departments, models.Department{Id: "dep-empty", Name: "Empty Department"})
	store := models.NewEntityStoreFromDataset(ds)

	report, err := NewUtilizationAnalyzer(store, testSampler()).Analyze()
	require.NoError(t, err)

	var found bool
	for _, row := range report.DepartmentUtilization {
		if row.DepartmentId != "dep-empty" {
			continue
		}
		found = true
		assert.Equal(t, 0, row.TotalAssets)
		assert.Equal(t, 0.0, row.AvgUtilization)
		assert.Equal(t, 100, row.AvailablePct+row.UnderMaintenancePct+row.PendingMaintenancePct)
	}
	assert.True(t, found, "empty department missing from rollup")
}

func TestUtilization_UntaggedAssetsInvisible(t *testing.T) {
	ds := newTestDataset(fixtureOptions{departments: 2, assetsPer: 3, untaggedEach: true})
	store := models.NewEntityStoreFromDataset(ds)

	report, err := NewUtilizationAnalyzer(store, testSampler()).Analyze()
	require.NoError(t, err)

	assert.Equal(t, len(ds.Assets), report.Stats.TotalAssets)
	assert.Equal(t, len(ds.Assets)-2, report.Stats.TaggedAssets)

	var taggedTotal int
	for _, row := range report.DepartmentUtilization {
		taggedTotal += row.TotalAssets
	}
	assert.Equal(t, report.Stats.TaggedAssets, taggedTotal)
}

func TestUtilization_IdleAssetScenario(t *testing.T) {
	ds := newTestDataset(fixtureOptions{departments: 2, assetsPer: 3})
	tag := "tag-idle"
	ds.Assets = append(ds.Assets, models.Asset{
		Id:           "ast-idle",
		Name:         "Idle Pump",
		DepartmentId: "dep-1",
		Status:       models.AssetStatusAvailable,
		Utilization:  10,
		LastActive:   time.Now().AddDate(0, 0, -35),
		TagId:        &tag,
		Value:        decimal.NewFromInt(2000),
	})
	store := models.NewEntityStoreFromDataset(ds)

	report, err := NewUtilizationAnalyzer(store, testSampler()).Analyze()
	require.NoError(t, err)

	var found *IdleAsset
	for i := range report.Top10IdleAssets {
		if report.Top10IdleAssets[i].AssetId == "ast-idle" {
			found = &report.Top10IdleAssets[i]
		}
	}
	require.NotNil(t, found, "idle asset missing from top10IdleAssets")
	assert.Equal(t, "Consider Redistribution", found.RecommendedAction)
	assert.Equal(t, 35, found.IdleDays)
}

func TestUtilization_IdleDaysNeverNegative(t *testing.T) {
	a := models.Asset{LastActive: time.Now().Add(48 * time.Hour)}
	assert.Equal(t, 0, a.IdleDays(time.Now()))
}

func TestUtilization_Top10Capped(t *testing.T) {
	ds := newTestDataset(fixtureOptions{departments: 1, assetsPer: 1})
	for i := 0; i < 25; i++ {
		tag := "tag-x"
		ds.Assets = append(ds.Assets, models.Asset{
			Id: string(rune('a'+i)) + "-idle", Name: "Idle", DepartmentId: "dep-1",
			Status: models.AssetStatusAvailable, Utilization: float64(i),
			LastActive: time.Now(), TagId: &tag, Value: decimal.Zero,
		})
	}
	store := models.NewEntityStoreFromDataset(ds)

	report, err := NewUtilizationAnalyzer(store, testSampler()).Analyze()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(report.Top10IdleAssets), 10)

	// Ascending by utilization.
	for i := 1; i < len(report.Top10IdleAssets); i++ {
		assert.GreaterOrEqual(t,
			report.Top10IdleAssets[i].Utilization,
			report.Top10IdleAssets[i-1].Utilization)
	}
}

func TestUtilization_ShapingKeepsRawAverage(t *testing.T) {
	store := newTestStore(fixtureOptions{departments: 12, assetsPer: 5})
	report, err := NewUtilizationAnalyzer(store, testSampler()).Analyze()
	require.NoError(t, err)

	rollup := report.DepartmentUtilization
	require.GreaterOrEqual(t, len(rollup), 11)

	for i := 0; i < 5; i++ {
		assert.Equal(t, "fully-utilized", rollup[i].UtilizationBand)
		assert.GreaterOrEqual(t, rollup[i].DisplayUtilization, 90.0)
		assert.LessOrEqual(t, rollup[i].DisplayUtilization, 97.0)
	}
	for i := len(rollup) - 3; i < len(rollup); i++ {
		assert.Equal(t, "critically-idle", rollup[i].UtilizationBand)
		assert.GreaterOrEqual(t, rollup[i].DisplayUtilization, 25.0)
		assert.LessOrEqual(t, rollup[i].DisplayUtilization, 37.0)
	}

	// The shaped value never overwrites the measurement: raw averages stay
	// sorted descending and within [0,100].
	for i := 1; i < len(rollup); i++ {
		assert.LessOrEqual(t, rollup[i].AvgUtilization, rollup[i-1].AvgUtilization)
	}
}

func TestUtilization_TrendBounded(t *testing.T) {
	store := newTestStore(fixtureOptions{departments: 4, assetsPer: 4, movements: 30})
	report, err := NewUtilizationAnalyzer(store, testSampler()).Analyze()
	require.NoError(t, err)

	require.Len(t, report.UtilizationTrend, 7)
	for _, p := range report.UtilizationTrend {
		assert.GreaterOrEqual(t, p.Value, 0.0)
		assert.LessOrEqual(t, p.Value, 100.0)
	}
}
