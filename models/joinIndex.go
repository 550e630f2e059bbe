package models

// JoinIndex holds O(1) id lookups for every table plus the parent-chain
// resolution (asset -> zone -> floor -> building, asset -> department) that
// every analytics component leans on. It is pure given a dataset, so it is
// built once per load and shared read-only.
type JoinIndex struct {
	AssetsById      map[string]*Asset
	DepartmentsById map[string]*Department
	ZonesById       map[string]*Zone
	FloorsById      map[string]*Floor
	BuildingsById   map[string]*Building

	MovementsByAsset map[string][]*MovementLog
	TasksByAsset     map[string][]*MaintenanceTask
	AssetsByDept     map[string][]*Asset
}

// Sentinels returned when a link dangles. Resolution never fails; a broken
// reference degrades to a stable "Unknown" display name.
var (
	UnknownDepartment = Department{Id: "unknown", Name: "Unknown Department"}
	UnknownZone       = Zone{Id: "unknown", Name: "Unknown Zone"}
	UnknownFloor      = Floor{Id: "unknown", Name: "Unknown Floor"}
	UnknownBuilding   = Building{Id: "unknown", Name: "Unknown Building"}
)

type ResolvedLocation struct {
	Zone     *Zone
	Floor    *Floor
	Building *Building
}

func NewJoinIndex(ds *Dataset) *JoinIndex {
	idx := &JoinIndex{
		AssetsById:       make(map[string]*Asset, len(ds.Assets)),
		DepartmentsById:  make(map[string]*Department, len(ds.Departments)),
		ZonesById:        make(map[string]*Zone, len(ds.Zones)),
		FloorsById:       make(map[string]*Floor, len(ds.Floors)),
		BuildingsById:    make(map[string]*Building, len(ds.Buildings)),
		MovementsByAsset: make(map[string][]*MovementLog),
		TasksByAsset:     make(map[string][]*MaintenanceTask),
		AssetsByDept:     make(map[string][]*Asset),
	}

	for i := range ds.Assets {
		a := &ds.Assets[i]
		idx.AssetsById[a.Id] = a
		idx.AssetsByDept[a.DepartmentId] = append(idx.AssetsByDept[a.DepartmentId], a)
	}
	for i := range ds.Departments {
		idx.DepartmentsById[ds.Departments[i].Id] = &ds.Departments[i]
	}
	for i := range ds.Zones {
		idx.ZonesById[ds.Zones[i].Id] = &ds.Zones[i]
	}
	for i := range ds.Floors {
		idx.FloorsById[ds.Floors[i].Id] = &ds.Floors[i]
	}
	for i := range ds.Buildings {
		idx.BuildingsById[ds.Buildings[i].Id] = &ds.Buildings[i]
	}
	for i := range ds.MovementLogs {
		m := &ds.MovementLogs[i]
		idx.MovementsByAsset[m.AssetId] = append(idx.MovementsByAsset[m.AssetId], m)
	}
	for i := range ds.MaintenanceTasks {
		t := &ds.MaintenanceTasks[i]
		idx.TasksByAsset[t.AssetId] = append(idx.TasksByAsset[t.AssetId], t)
	}

	return idx
}

// ResolveDepartment never returns nil.
func (idx *JoinIndex) ResolveDepartment(a *Asset) *Department {
	if d, ok := idx.DepartmentsById[a.DepartmentId]; ok {
		return d
	}
	return &UnknownDepartment
}

// ResolveLocation walks the asset's zone -> floor -> building chain. The
// asset's own floorId/buildingId are only a starting point; the chain wins
// when the two disagree. Every leg degrades to its sentinel independently.
func (idx *JoinIndex) ResolveLocation(a *Asset) ResolvedLocation {
	loc := ResolvedLocation{
		Zone:     &UnknownZone,
		Floor:    &UnknownFloor,
		Building: &UnknownBuilding,
	}

	zone, ok := idx.ZonesById[a.Location.ZoneId]
	if ok {
		loc.Zone = zone
	}

	floorId := a.Location.FloorId
	if ok && zone.FloorId != "" {
		floorId = zone.FloorId
	}
	floor, ok := idx.FloorsById[floorId]
	if ok {
		loc.Floor = floor
	}

	buildingId := a.Location.BuildingId
	if ok && floor.BuildingId != "" {
		buildingId = floor.BuildingId
	}
	if b, ok := idx.BuildingsById[buildingId]; ok {
		loc.Building = b
	}

	return loc
}

// ZoneName is a display-name shortcut used by violation and alert builders.
func (idx *JoinIndex) ZoneName(zoneId string) string {
	if z, ok := idx.ZonesById[zoneId]; ok {
		return z.Name
	}
	return UnknownZone.Name
}
