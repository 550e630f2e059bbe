package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// TrialMode gates report exports for demo deployments.
//
// Set via env:
// - TRIAL_MODE=true
func TrialMode() bool {
	return boolFromEnv("TRIAL_MODE")
}

// AnalyticsCacheEnabled turns on the Redis snapshot cache for dashboard
// responses. Off by default: dashboards are recomputed per request.
//
// Set via env:
// - ENABLE_ANALYTICS_CACHE=true
func AnalyticsCacheEnabled() bool {
	return boolFromEnv("ENABLE_ANALYTICS_CACHE")
}

// AnalyticsCacheTTL returns the snapshot cache TTL.
// Env: ANALYTICS_CACHE_TTL_SECONDS (default 120s)
func AnalyticsCacheTTL() time.Duration {
	return time.Duration(intFromEnv("ANALYTICS_CACHE_TTL_SECONDS", 120)) * time.Second
}

// AnalyticsSlowMs returns the slow-computation log threshold.
// Env: ANALYTICS_SLOW_MS (default 500ms)
func AnalyticsSlowMs() int64 {
	return int64(intFromEnv("ANALYTICS_SLOW_MS", 500))
}

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y" || v == "on"
}

func intFromEnv(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
