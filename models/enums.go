package models

import (
	"errors"
	"time"
)

type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "available"
	AssetStatusInUse       AssetStatus = "in-use"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusLost        AssetStatus = "lost"
)

func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusAvailable, AssetStatusInUse, AssetStatusMaintenance, AssetStatusLost:
		return true
	}
	return false
}

type MaintenanceStatus string

const (
	MaintenanceStatusPending    MaintenanceStatus = "pending"
	MaintenanceStatusInProgress MaintenanceStatus = "in-progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
	MaintenanceStatusOverdue    MaintenanceStatus = "overdue"
)

type GeofenceType string

const (
	GeofenceTypeRestricted      GeofenceType = "restricted"
	GeofenceTypeAuthorized      GeofenceType = "authorized"
	GeofenceTypeHighSecurity    GeofenceType = "high-security"
	GeofenceTypeMaintenanceOnly GeofenceType = "maintenance-only"
)

type ViolationType string

const (
	ViolationTypeEntry                ViolationType = "entry"
	ViolationTypeExit                 ViolationType = "exit"
	ViolationTypeUnauthorizedPresence ViolationType = "unauthorized_presence"
	ViolationTypeAfterHours           ViolationType = "after_hours"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type ViolationStatus string

const (
	ViolationStatusActive        ViolationStatus = "active"
	ViolationStatusInvestigating ViolationStatus = "investigating"
	ViolationStatusResolved      ViolationStatus = "resolved"
	ViolationStatusFalsePositive ViolationStatus = "false_positive"
)

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

type PatternType string

const (
	PatternTypeNormal     PatternType = "normal"
	PatternTypeUnusual    PatternType = "unusual"
	PatternTypeSuspicious PatternType = "suspicious"
	PatternTypeEmergency  PatternType = "emergency"
)

type ComplianceStatus string

const (
	ComplianceStatusCompliant    ComplianceStatus = "compliant"
	ComplianceStatusAtRisk       ComplianceStatus = "at-risk"
	ComplianceStatusNonCompliant ComplianceStatus = "non-compliant"
)

type Urgency string

const (
	UrgencyImmediate  Urgency = "immediate"
	UrgencyWithinHour Urgency = "within_hour"
	UrgencyWithinDay  Urgency = "within_day"
	UrgencyRoutine    Urgency = "routine"
)

type Impact string

const (
	ImpactCritical    Impact = "critical"
	ImpactSignificant Impact = "significant"
	ImpactModerate    Impact = "moderate"
	ImpactMinimal     Impact = "minimal"
)

// TimeRange is the protection dashboard's query window.
type TimeRange string

const (
	TimeRange1h  TimeRange = "1h"
	TimeRange24h TimeRange = "24h"
	TimeRange7d  TimeRange = "7d"
	TimeRange30d TimeRange = "30d"
)

var ErrInvalidTimeRange = errors.New("invalid time range")

// ParseTimeRange validates a query value, defaulting the empty string to 24h.
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case TimeRange1h, TimeRange24h, TimeRange7d, TimeRange30d:
		return TimeRange(s), nil
	case "":
		return TimeRange24h, nil
	}
	return "", ErrInvalidTimeRange
}

func (t TimeRange) Duration() time.Duration {
	switch t {
	case TimeRange1h:
		return time.Hour
	case TimeRange7d:
		return 7 * 24 * time.Hour
	case TimeRange30d:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}
