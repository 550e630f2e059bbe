package utils

import (
	"context"

	"github.com/caretrackhq/assettrack_backend/appctx"
)

var (
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyTimeRange     = appctx.ContextKeyTimeRange
	ContextKeyIsTrial       = appctx.ContextKeyIsTrial
)

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func GetTimeRangeFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyTimeRange)
}

func GetIsTrialFromContext(ctx context.Context) (bool, bool) {
	return appctx.GetBool(ctx, ContextKeyIsTrial)
}

func SetCorrelationIdInContext(ctx context.Context, id string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, id)
}

func SetTimeRangeInContext(ctx context.Context, timeRange string) context.Context {
	return appctx.Set(ctx, ContextKeyTimeRange, timeRange)
}

func SetIsTrialInContext(ctx context.Context, isTrial bool) context.Context {
	return appctx.Set(ctx, ContextKeyIsTrial, isTrial)
}
