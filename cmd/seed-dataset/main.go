// seed-dataset generates a demo dataset document for local development and
// trial deployments.
//
// Usage:
//
//	go run ./cmd/seed-dataset -out data/dataset.json -assets 400 -seed 7
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/caretrackhq/assettrack_backend/models"
	"github.com/shopspring/decimal"
)

var departmentNames = []string{
	"Emergency", "Radiology", "Cardiology", "Oncology", "Pediatrics",
	"Surgery", "ICU", "Laboratory", "Pharmacy", "Physical Therapy",
	"Maternity", "Neurology",
}

var assetTypes = []struct {
	Type     string
	Category string
	MinValue int
	MaxValue int
}{
	{"Infusion Pump", "clinical", 1500, 4000},
	{"Ventilator", "clinical", 12000, 35000},
	{"Wheelchair", "mobility", 300, 900},
	{"Patient Monitor", "clinical", 2500, 8000},
	{"Defibrillator", "clinical", 9000, 20000},
	{"Ultrasound Cart", "imaging", 25000, 70000},
	{"Hospital Bed", "mobility", 4000, 15000},
	{"Telemetry Unit", "clinical", 1800, 5000},
}

func main() {
	out := flag.String("out", "data/dataset.json", "output path")
	assetCount := flag.Int("assets", 400, "number of assets")
	movementCount := flag.Int("movements", 5000, "number of movement logs")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	ds := generate(rng, *assetCount, *movementCount)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	raw, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Printf("wrote %s (assets=%d movements=%d seed=%d)", *out, len(ds.Assets), len(ds.MovementLogs), *seed)
}

func generate(rng *rand.Rand, assetCount, movementCount int) *models.Dataset {
	now := time.Now()
	ds := &models.Dataset{}

	for b := 0; b < 2; b++ {
		ds.Buildings = append(ds.Buildings, models.Building{
			Id:   fmt.Sprintf("bld-%d", b+1),
			Name: fmt.Sprintf("Building %c", 'A'+b),
		})
		for f := 0; f < 4; f++ {
			floorId := fmt.Sprintf("flr-%d-%d", b+1, f+1)
			ds.Floors = append(ds.Floors, models.Floor{
				Id:         floorId,
				Name:       fmt.Sprintf("Floor %d", f+1),
				BuildingId: fmt.Sprintf("bld-%d", b+1),
				Level:      f + 1,
			})
			for z := 0; z < 5; z++ {
				ds.Zones = append(ds.Zones, models.Zone{
					Id:      fmt.Sprintf("zon-%s-%d", floorId, z+1),
					Name:    fmt.Sprintf("%c%d Zone %d", 'A'+b, f+1, z+1),
					FloorId: floorId,
					Type:    "ward",
				})
			}
		}
	}

	for i, name := range departmentNames {
		ds.Departments = append(ds.Departments, models.Department{
			Id:   fmt.Sprintf("dep-%d", i+1),
			Name: name,
		})
	}

	statuses := []models.AssetStatus{
		models.AssetStatusAvailable, models.AssetStatusAvailable, models.AssetStatusAvailable,
		models.AssetStatusInUse, models.AssetStatusInUse,
		models.AssetStatusMaintenance,
		models.AssetStatusLost,
	}

	for i := 0; i < assetCount; i++ {
		spec := assetTypes[rng.Intn(len(assetTypes))]
		zone := ds.Zones[rng.Intn(len(ds.Zones))]
		floor := zone.FloorId
		asset := models.Asset{
			Id:           fmt.Sprintf("ast-%04d", i+1),
			Name:         fmt.Sprintf("%s #%03d", spec.Type, i+1),
			Type:         spec.Type,
			Category:     spec.Category,
			DepartmentId: ds.Departments[rng.Intn(len(ds.Departments))].Id,
			Location: models.AssetLocation{
				ZoneId:  zone.Id,
				FloorId: floor,
			},
			Status:      statuses[rng.Intn(len(statuses))],
			Utilization: float64(rng.Intn(101)),
			LastActive:  now.Add(-time.Duration(rng.Intn(60*24)) * time.Hour),
			Value:       decimal.NewFromInt(int64(spec.MinValue + rng.Intn(spec.MaxValue-spec.MinValue))),
		}
		// ~85% of the fleet is tagged; the rest exercises the
		// untagged-invisible rule.
		if rng.Float64() < 0.85 {
			tag := fmt.Sprintf("tag-%04d", i+1)
			asset.TagId = &tag
		}
		ds.Assets = append(ds.Assets, asset)
	}

	for i := 0; i < movementCount; i++ {
		asset := ds.Assets[rng.Intn(len(ds.Assets))]
		from := ds.Zones[rng.Intn(len(ds.Zones))]
		to := ds.Zones[rng.Intn(len(ds.Zones))]
		ds.MovementLogs = append(ds.MovementLogs, models.MovementLog{
			Id:         fmt.Sprintf("mov-%05d", i+1),
			AssetId:    asset.Id,
			FromZoneId: from.Id,
			ToZoneId:   to.Id,
			Timestamp:  now.Add(-time.Duration(rng.Intn(30*24*60)) * time.Minute),
			Authorized: rng.Float64() < 0.93,
			MovedBy:    fmt.Sprintf("staff-%03d", rng.Intn(120)+1),
		})
	}

	taskStatuses := []models.MaintenanceStatus{
		models.MaintenanceStatusPending, models.MaintenanceStatusInProgress,
		models.MaintenanceStatusCompleted, models.MaintenanceStatusOverdue,
	}
	priorities := []string{"low", "medium", "high"}
	for i := 0; i < assetCount/2; i++ {
		asset := ds.Assets[rng.Intn(len(ds.Assets))]
		ds.MaintenanceTasks = append(ds.MaintenanceTasks, models.MaintenanceTask{
			Id:            fmt.Sprintf("mnt-%04d", i+1),
			AssetId:       asset.Id,
			Status:        taskStatuses[rng.Intn(len(taskStatuses))],
			ScheduledDate: now.AddDate(0, 0, rng.Intn(28)-14),
			Priority:      priorities[rng.Intn(len(priorities))],
		})
	}

	geofenceTypes := []models.GeofenceType{
		models.GeofenceTypeRestricted, models.GeofenceTypeAuthorized,
		models.GeofenceTypeHighSecurity, models.GeofenceTypeMaintenanceOnly,
	}
	for i := 0; i < 8; i++ {
		var zoneIds []string
		for z := 0; z < 3; z++ {
			zoneIds = append(zoneIds, ds.Zones[rng.Intn(len(ds.Zones))].Id)
		}
		ds.GeofenceZones = append(ds.GeofenceZones, models.GeofenceZone{
			Id:           fmt.Sprintf("geo-%d", i+1),
			Name:         fmt.Sprintf("Geofence %d", i+1),
			Type:         geofenceTypes[i%len(geofenceTypes)],
			ZoneIds:      zoneIds,
			Priority:     rng.Intn(5) + 1,
			Active:       rng.Float64() < 0.9,
			AlertOnEntry: true,
			AlertOnExit:  rng.Float64() < 0.5,
			AllowedRoles: []string{"nurse", "technician"},
			WorkingHours: models.WorkingHours{StartHour: 7, EndHour: 19},
		})
	}

	for i := 0; i < 20; i++ {
		ds.Users = append(ds.Users, models.User{
			Id:    fmt.Sprintf("usr-%03d", i+1),
			Name:  fmt.Sprintf("User %d", i+1),
			Email: fmt.Sprintf("user%d@example.org", i+1),
			Role:  "staff",
		})
	}

	return ds
}
