package analytics

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/caretrackhq/assettrack_backend/models"
	"github.com/shopspring/decimal"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func testSampler() *WeightedSampler {
	return NewWeightedSampler(testRand())
}

// fixtureOptions shapes the synthetic dataset used across the analytics
// tests.
type fixtureOptions struct {
	departments  int
	assetsPer    int
	movements    int
	untaggedEach bool // add one untagged asset per department
}

func newTestDataset(opts fixtureOptions) *models.Dataset {
	now := time.Now()
	rng := rand.New(rand.NewSource(1))
	ds := &models.Dataset{}

	ds.Buildings = []models.Building{{Id: "bld-1", Name: "Main Building"}}
	ds.Floors = []models.Floor{{Id: "flr-1", Name: "Floor 1", BuildingId: "bld-1", Level: 1}}
	ds.Zones = []models.Zone{
		{Id: "zon-1", Name: "Zone 1", FloorId: "flr-1"},
		{Id: "zon-2", Name: "Zone 2", FloorId: "flr-1"},
		{Id: "zon-3", Name: "Zone 3", FloorId: "flr-1"},
	}
	ds.GeofenceZones = []models.GeofenceZone{
		{
			Id: "geo-1", Name: "Restricted Wing", Type: models.GeofenceTypeRestricted,
			ZoneIds: []string{"zon-2"}, Active: true, AlertOnEntry: true,
			WorkingHours: models.WorkingHours{StartHour: 7, EndHour: 19},
		},
		{
			Id: "geo-2", Name: "High Security Store", Type: models.GeofenceTypeHighSecurity,
			ZoneIds: []string{"zon-3"}, Active: true,
			WorkingHours: models.WorkingHours{StartHour: 0, EndHour: 23},
		},
	}

	assetNo := 0
	for d := 0; d < opts.departments; d++ {
		deptId := fmt.Sprintf("dep-%d", d+1)
		ds.Departments = append(ds.Departments, models.Department{
			Id:   deptId,
			Name: fmt.Sprintf("Department %d", d+1),
		})

		for a := 0; a < opts.assetsPer; a++ {
			assetNo++
			tag := fmt.Sprintf("tag-%03d", assetNo)
			// Utilization spreads departments across the donor/receiver
			// thresholds: later departments run idle, earlier ones hot.
			utilization := float64(95 - d*(90/max(opts.departments-1, 1)))
			ds.Assets = append(ds.Assets, models.Asset{
				Id:           fmt.Sprintf("ast-%03d", assetNo),
				Name:         fmt.Sprintf("Asset %03d", assetNo),
				Type:         []string{"Infusion Pump", "Wheelchair", "Monitor"}[assetNo%3],
				DepartmentId: deptId,
				Location:     models.AssetLocation{ZoneId: ds.Zones[assetNo%len(ds.Zones)].Id},
				Status:       models.AssetStatusAvailable,
				Utilization:  utilization,
				LastActive:   now.Add(-time.Duration(assetNo) * time.Hour),
				TagId:        &tag,
				Value:        decimal.NewFromInt(int64(1000 + assetNo)),
			})
		}
		if opts.untaggedEach {
			assetNo++
			ds.Assets = append(ds.Assets, models.Asset{
				Id:           fmt.Sprintf("ast-%03d", assetNo),
				Name:         fmt.Sprintf("Untagged %03d", assetNo),
				DepartmentId: deptId,
				Status:       models.AssetStatusAvailable,
				Utilization:  50,
				LastActive:   now,
				Value:        decimal.NewFromInt(500),
			})
		}
	}

	for i := 0; i < opts.movements; i++ {
		asset := ds.Assets[rng.Intn(len(ds.Assets))]
		ds.MovementLogs = append(ds.MovementLogs, models.MovementLog{
			Id:         fmt.Sprintf("mov-%04d", i+1),
			AssetId:    asset.Id,
			FromZoneId: "zon-1",
			ToZoneId:   ds.Zones[i%len(ds.Zones)].Id,
			Timestamp:  now.Add(-time.Duration(rng.Intn(20)) * time.Hour),
			Authorized: i%7 != 0,
			MovedBy:    "staff-001",
		})
	}

	return ds
}

func newTestStore(opts fixtureOptions) *models.EntityStore {
	return models.NewEntityStoreFromDataset(newTestDataset(opts))
}
