package analytics

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/caretrackhq/assettrack_backend/config"
	"github.com/caretrackhq/assettrack_backend/models"
	"github.com/caretrackhq/assettrack_backend/utils"
	"github.com/sirupsen/logrus"
)

// Engine is the facade the HTTP layer talks to. It owns nothing but the
// injected store; every dashboard is recomputed from scratch per request
// (optionally short-circuited by the Redis snapshot cache).
type Engine struct {
	store *models.EntityStore
}

func NewEngine(store *models.EntityStore) *Engine {
	return &Engine{store: store}
}

// NewRequestRand returns the per-request random source. Time-seeded here;
// tests build their own fixed-seed source and hand it to the components
// directly.
func NewRequestRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (e *Engine) UtilizationDashboard(ctx context.Context, rng *rand.Rand) (*UtilizationReport, error) {
	started := time.Now()
	defer logSlowAnalytics(ctx, "utilization", started)

	var cached UtilizationReport
	if hit, err := cacheGet("dashboard:utilization", &cached); err == nil && hit {
		return &cached, nil
	}

	report, err := NewUtilizationAnalyzer(e.store, NewWeightedSampler(rng)).Analyze()
	if err != nil {
		return nil, err
	}
	cacheSet("dashboard:utilization", report)
	return report, nil
}

func (e *Engine) ProtectionDashboard(ctx context.Context, timeRange models.TimeRange, rng *rand.Rand) (*ProtectionReport, error) {
	started := time.Now()
	defer logSlowAnalytics(ctx, "protection", started)

	key := fmt.Sprintf("dashboard:protection:%s", timeRange)
	var cached ProtectionReport
	if hit, err := cacheGet(key, &cached); err == nil && hit {
		return &cached, nil
	}

	report, err := NewProtectionEngine(e.store, NewWeightedSampler(rng)).Analyze(timeRange)
	if err != nil {
		return nil, err
	}
	cacheSet(key, report)
	return report, nil
}

func (e *Engine) ComplianceDashboard(ctx context.Context, rng *rand.Rand) (*ComplianceReport, error) {
	started := time.Now()
	defer logSlowAnalytics(ctx, "compliance", started)

	var cached ComplianceReport
	if hit, err := cacheGet("dashboard:compliance", &cached); err == nil && hit {
		return &cached, nil
	}

	report, err := NewComplianceScorer(e.store, NewWeightedSampler(rng)).Score()
	if err != nil {
		return nil, err
	}
	cacheSet("dashboard:compliance", report)
	return report, nil
}

// InvalidateCache drops the snapshot keys. Called by write endpoints after
// a store mutation or reload.
func (e *Engine) InvalidateCache() {
	keys := []string{
		"dashboard:utilization",
		"dashboard:compliance",
	}
	for _, tr := range []models.TimeRange{models.TimeRange1h, models.TimeRange24h, models.TimeRange7d, models.TimeRange30d} {
		keys = append(keys, fmt.Sprintf("dashboard:protection:%s", tr))
	}
	if err := config.RemoveRedisKey(keys...); err != nil {
		config.LogError(config.GetLogger(), "analytics", "InvalidateCache", "RemoveRedisKey", keys, err)
	}
}

func cacheGet[T any](key string, dest *T) (bool, error) {
	if !config.AnalyticsCacheEnabled() {
		return false, nil
	}
	return config.GetRedisObject(key, dest)
}

func cacheSet(key string, obj any) {
	if !config.AnalyticsCacheEnabled() {
		return
	}
	if err := config.SetRedisObject(key, obj, config.AnalyticsCacheTTL()); err != nil {
		config.LogError(config.GetLogger(), "analytics", "cacheSet", key, nil, err)
	}
}

func logSlowAnalytics(ctx context.Context, name string, started time.Time) {
	d := time.Since(started)
	if d.Milliseconds() < config.AnalyticsSlowMs() {
		return
	}
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	config.GetLogger().WithFields(logrus.Fields{
		"dashboard":      name,
		"ms":             d.Milliseconds(),
		"correlation_id": cid,
	}).Warn("slow analytics computation")
}
