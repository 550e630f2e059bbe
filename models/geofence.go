package models

// WorkingHours is the window inside which presence in a geofence needs no
// after-hours flag. Hours are 0-23, local facility time.
type WorkingHours struct {
	StartHour int `json:"startHour" validate:"gte=0,lte=23"`
	EndHour   int `json:"endHour" validate:"gte=0,lte=23"`
}

type GeofenceZone struct {
	Id           string       `json:"id" validate:"required"`
	Name         string       `json:"name" validate:"required"`
	Type         GeofenceType `json:"type" validate:"required"`
	ZoneIds      []string     `json:"zoneIds"`
	AssetIds     []string     `json:"assetIds"`
	Priority     int          `json:"priority"`
	Active       bool         `json:"active"`
	AlertOnEntry bool         `json:"alertOnEntry"`
	AlertOnExit  bool         `json:"alertOnExit"`
	AllowedRoles []string     `json:"allowedRoles"`
	WorkingHours WorkingHours `json:"workingHours"`
}

// CoversZone reports whether the geofence is configured over the given zone.
func (g *GeofenceZone) CoversZone(zoneId string) bool {
	for _, id := range g.ZoneIds {
		if id == zoneId {
			return true
		}
	}
	return false
}
