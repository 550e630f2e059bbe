package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/caretrackhq/assettrack_backend/models"
	"github.com/caretrackhq/assettrack_backend/models/analytics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixedRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func seededStore(t *testing.T) *models.EntityStore {
	t.Helper()
	ds := &models.Dataset{
		Buildings: []models.Building{{Id: "bld-1", Name: "Main Building"}},
		Floors:    []models.Floor{{Id: "flr-1", Name: "Floor 1", BuildingId: "bld-1", Level: 1}},
		Zones:     []models.Zone{{Id: "zon-1", Name: "Zone 1", FloorId: "flr-1"}},
	}
	for d := 0; d < 4; d++ {
		deptId := fmt.Sprintf("dep-%d", d+1)
		ds.Departments = append(ds.Departments, models.Department{
			Id: deptId, Name: fmt.Sprintf("Department %d", d+1),
		})
		for a := 0; a < 8; a++ {
			n := d*8 + a + 1
			tag := fmt.Sprintf("tag-%03d", n)
			ds.Assets = append(ds.Assets, models.Asset{
				Id:           fmt.Sprintf("ast-%03d", n),
				Name:         fmt.Sprintf("Asset %03d", n),
				DepartmentId: deptId,
				Location:     models.AssetLocation{ZoneId: "zon-1"},
				Status:       models.AssetStatusAvailable,
				Utilization:  float64(20 + n*2),
				LastActive:   time.Now(),
				TagId:        &tag,
				Value:        decimal.NewFromInt(int64(1000 + n)),
			})
		}
	}
	return models.NewEntityStoreFromDataset(ds)
}

func fixtureExport() *ComplianceExport {
	return &ComplianceExport{
		GeneratedAt: time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
		Summary: analytics.ComplianceSummary{
			TotalAssets:    1200,
			FullyCompliant: 660,
			NonCompliant:   540,
			OverallScore:   55,
		},
		Rows: []analytics.AssetRisk{
			{
				AssetId: "ast-1", AssetName: "Infusion Pump 4", DepartmentName: "Oncology",
				RiskLevel: models.RiskLevelHigh, RiskScore: 88,
				MissedMaintenance: 3, OverdueCalibration: true, RecallFlag: false,
			},
			{
				AssetId: "ast-2", AssetName: "Ventilator 2", DepartmentName: "ICU",
				RiskLevel: models.RiskLevelMedium, RiskScore: 52,
				MissedMaintenance: 1, OverdueCalibration: false, RecallFlag: true,
			},
			{
				AssetId: "ast-3", AssetName: "Wheelchair 9", DepartmentName: "Geriatrics",
				RiskLevel: models.RiskLevelLow, RiskScore: 17,
				MissedMaintenance: 0, OverdueCalibration: false, RecallFlag: false,
			},
		},
	}
}

func TestComplianceExport_CSVRoundTrip(t *testing.T) {
	export := fixtureExport()

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(export.Rows)+1)
	assert.Equal(t, complianceCSVHeader, records[0])

	for i, row := range export.Rows {
		record := records[i+1]
		assert.Equal(t, row.AssetName, record[0])
		assert.Equal(t, row.DepartmentName, record[1])
		assert.Equal(t, strconv.Itoa(row.MissedMaintenance), record[2])
		assert.Equal(t, strconv.FormatBool(row.OverdueCalibration), record[3])
		assert.Equal(t, strconv.FormatBool(row.RecallFlag), record[4])
		assert.Equal(t, strconv.Itoa(row.RiskScore), record[5])
	}
}

func TestComplianceExport_CSVMatchesLiveSnapshot(t *testing.T) {
	store := seededStore(t)
	engine := analytics.NewEngine(store)

	export, err := BuildComplianceExport(context.Background(), engine, fixedRand())
	require.NoError(t, err)
	require.NotEmpty(t, export.Rows)

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(export.Rows)+1)

	// The CSV walks the snapshot in snapshot order.
	for i, row := range export.Rows {
		assert.Equal(t, row.AssetName, records[i+1][0])
		assert.Equal(t, strconv.Itoa(row.RiskScore), records[i+1][5])
	}
}

func TestComplianceExport_HTMLContainsRows(t *testing.T) {
	export := fixtureExport()

	var buf bytes.Buffer
	require.NoError(t, export.WriteHTML(&buf))
	html := buf.String()

	assert.Contains(t, html, "Infusion Pump 4")
	assert.Contains(t, html, "Oncology")
	assert.Contains(t, html, "overall score 55%")
	assert.Contains(t, html, "660/1200 assets fully compliant")
}

func TestComplianceExport_ExcelMirrorsCSV(t *testing.T) {
	export := fixtureExport()

	var buf bytes.Buffer
	require.NoError(t, export.WriteExcel(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, len(export.Rows)+1)
	assert.Equal(t, complianceCSVHeader, rows[0])
	assert.Equal(t, "Infusion Pump 4", rows[1][0])
	assert.Equal(t, "88", rows[1][5])
}

func TestComplianceExport_Filename(t *testing.T) {
	export := fixtureExport()
	name := export.Filename("csv")
	assert.Equal(t, "compliance-report-20260402-0930.csv", name)
	assert.True(t, strings.HasSuffix(export.Filename("xlsx"), ".xlsx"))
}
