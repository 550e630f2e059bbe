package config

// CompliancePopulationConfig holds the fixed target population for the
// compliance dashboard. These are configuration constants, not live counts:
// the demo narrative ("~55% compliance") must stay stable regardless of how
// many assets the dataset happens to contain. The per-asset protection
// status is derived live and may legitimately disagree with these numbers.
type CompliancePopulationConfig struct {
	TotalMonitored int
	FullyCompliant int
	HighRisk       int
	MediumRisk     int
}

func (c CompliancePopulationConfig) NonCompliant() int {
	return c.TotalMonitored - c.FullyCompliant
}

func (c CompliancePopulationConfig) LowRisk() int {
	low := c.NonCompliant() - c.HighRisk - c.MediumRisk
	if low < 0 {
		return 0
	}
	return low
}

// OverallScore is the fleet-level compliance percentage derived from the
// fixed population, rounded down.
func (c CompliancePopulationConfig) OverallScore() int {
	if c.TotalMonitored <= 0 {
		return 0
	}
	return c.FullyCompliant * 100 / c.TotalMonitored
}

// CompliancePopulation returns the configured target population.
//
// Env overrides:
// - COMPLIANCE_TOTAL_MONITORED (default 1200)
// - COMPLIANCE_FULLY_COMPLIANT (default 660)
// - COMPLIANCE_HIGH_RISK (default 120)
// - COMPLIANCE_MEDIUM_RISK (default 180)
func CompliancePopulation() CompliancePopulationConfig {
	return CompliancePopulationConfig{
		TotalMonitored: intFromEnv("COMPLIANCE_TOTAL_MONITORED", 1200),
		FullyCompliant: intFromEnv("COMPLIANCE_FULLY_COMPLIANT", 660),
		HighRisk:       intFromEnv("COMPLIANCE_HIGH_RISK", 120),
		MediumRisk:     intFromEnv("COMPLIANCE_MEDIUM_RISK", 180),
	}
}
