package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() *Dataset {
	tag := "tag-001"
	return &Dataset{
		Assets: []Asset{
			{
				Id: "ast-1", Name: "Pump 1", DepartmentId: "dep-1",
				Location:    AssetLocation{ZoneId: "zon-1"},
				Status:      AssetStatusAvailable,
				Utilization: 60, LastActive: time.Now(), TagId: &tag,
				Value: decimal.NewFromInt(1200),
			},
			{
				Id: "ast-dangling", Name: "Orphan", DepartmentId: "dep-missing",
				Location:   AssetLocation{ZoneId: "zon-missing"},
				Status:     AssetStatusInUse,
				LastActive: time.Now(),
			},
		},
		Departments: []Department{{Id: "dep-1", Name: "Radiology"}},
		Zones:       []Zone{{Id: "zon-1", Name: "Imaging Zone", FloorId: "flr-1"}},
		Floors:      []Floor{{Id: "flr-1", Name: "First Floor", BuildingId: "bld-1", Level: 1}},
		Buildings:   []Building{{Id: "bld-1", Name: "Main Wing"}},
		MovementLogs: []MovementLog{
			{Id: "mov-1", AssetId: "ast-1", FromZoneId: "zon-1", ToZoneId: "zon-1", Timestamp: time.Now()},
		},
		MaintenanceTasks: []MaintenanceTask{
			{Id: "mnt-1", AssetId: "ast-1", Status: MaintenanceStatusPending, ScheduledDate: time.Now()},
		},
	}
}

func TestJoinIndex_ResolvesFullChain(t *testing.T) {
	ds := testDataset()
	idx := NewJoinIndex(ds)

	asset := idx.AssetsById["ast-1"]
	require.NotNil(t, asset)

	dept := idx.ResolveDepartment(asset)
	assert.Equal(t, "Radiology", dept.Name)

	loc := idx.ResolveLocation(asset)
	assert.Equal(t, "Imaging Zone", loc.Zone.Name)
	assert.Equal(t, "First Floor", loc.Floor.Name)
	assert.Equal(t, "Main Wing", loc.Building.Name)
}

func TestJoinIndex_DanglingLinksDegradeToSentinels(t *testing.T) {
	ds := testDataset()
	idx := NewJoinIndex(ds)

	asset := idx.AssetsById["ast-dangling"]
	require.NotNil(t, asset)

	dept := idx.ResolveDepartment(asset)
	assert.Equal(t, "Unknown Department", dept.Name)

	loc := idx.ResolveLocation(asset)
	assert.Equal(t, "Unknown Zone", loc.Zone.Name)
	assert.Equal(t, "Unknown Floor", loc.Floor.Name)
	assert.Equal(t, "Unknown Building", loc.Building.Name)
}

func TestJoinIndex_ZoneChainWinsOverAssetFields(t *testing.T) {
	ds := testDataset()
	// Asset claims a bogus floor; the zone's parent chain must win.
	ds.Assets[0].Location.FloorId = "flr-bogus"
	idx := NewJoinIndex(ds)

	loc := idx.ResolveLocation(idx.AssetsById["ast-1"])
	assert.Equal(t, "First Floor", loc.Floor.Name)
}

func TestJoinIndex_GroupingMaps(t *testing.T) {
	idx := NewJoinIndex(testDataset())

	assert.Len(t, idx.MovementsByAsset["ast-1"], 1)
	assert.Len(t, idx.TasksByAsset["ast-1"], 1)
	assert.Len(t, idx.AssetsByDept["dep-1"], 1)
	assert.Equal(t, "Unknown Zone", idx.ZoneName("zon-missing"))
}
