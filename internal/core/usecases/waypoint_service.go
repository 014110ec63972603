package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/core/ports"
	"github.com/samirrijal/routekit/internal/pkg/metrics"
	"github.com/samirrijal/routekit/internal/pkg/routeopt"
	"github.com/samirrijal/routekit/internal/pkg/telemetry"
)

// WaypointService serves quota-gated waypoint optimizations.
type WaypointService struct {
	usage    ports.FeatureUsageRepository
	cache    ports.CacheService
	ledger   ports.UsageLedger
	cacheTTL int
}

// NewWaypointService creates a new WaypointService. cache may be nil;
// cacheTTL is in seconds and 0 disables memoization.
func NewWaypointService(
	usage ports.FeatureUsageRepository,
	cache ports.CacheService,
	ledger ports.UsageLedger,
	cacheTTL int,
) *WaypointService {
	return &WaypointService{usage: usage, cache: cache, ledger: ledger, cacheTTL: cacheTTL}
}

// Optimize orders groups from origin for userID and records the calculation.
func (s *WaypointService) Optimize(ctx context.Context, userID string, origin domain.Coordinate, groups []domain.WaypointGroup) (domain.Path, error) {
	points := routeopt.CountPoints(groups)

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanOptimizeWaypoints)
	defer span.End()
	span.SetAttributes(
		attribute.String(telemetry.AttrUserID, userID),
		attribute.Int(telemetry.AttrGroups, len(groups)),
		attribute.Int(telemetry.AttrPoints, points),
	)

	usage, err := s.usage.GetByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "usage lookup")
		return nil, fmt.Errorf("%w: %w", ErrUsageUnavailable, err)
	}
	// Async debits can overshoot, so anything at or below zero is exhausted.
	if usage.RouteCalculationCount <= 0 {
		span.SetStatus(codes.Error, "quota exhausted")
		return nil, ErrQuotaExhausted
	}

	key := pathCacheKey(origin, groups)
	path, cached := s.cachedPath(ctx, key)
	if !cached {
		start := time.Now()
		path = routeopt.Chain(origin, groups)
		metrics.OptimizationDuration.Observe(time.Since(start).Seconds())
		s.storePath(ctx, key, path)
	}

	distance := routeopt.Length(origin, path)
	span.SetAttributes(
		attribute.Bool(telemetry.AttrCacheHit, cached),
		attribute.Float64(telemetry.AttrDistanceKm, distance),
	)

	source := "computed"
	if cached {
		source = "cache"
	}
	metrics.WaypointsOptimized.WithLabelValues(source).Inc()
	metrics.RoutePoints.Observe(float64(points))
	metrics.RouteDistance.Observe(distance)

	calc := &domain.RouteCalculation{
		ID:           uuid.NewString(),
		UserID:       userID,
		Groups:       len(groups),
		Points:       points,
		DistanceKm:   distance,
		Cached:       cached,
		CalculatedAt: time.Now().UTC(),
	}
	if err := s.ledger.RecordRouteCalculation(ctx, calc); err != nil {
		// The caller still gets the path.
		slog.ErrorContext(ctx, "record route calculation failed",
			"calculation_id", calc.ID, "user_id", userID, "error", err)
	}

	return path, nil
}

func (s *WaypointService) cachedPath(ctx context.Context, key string) (domain.Path, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues("waypoints").Inc()
		return nil, false
	}

	var path domain.Path
	if err := json.Unmarshal(data, &path); err != nil {
		metrics.CacheMisses.WithLabelValues("waypoints").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("waypoints").Inc()
	return path, true
}

func (s *WaypointService) storePath(ctx context.Context, key string, path domain.Path) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(path)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		slog.WarnContext(ctx, "cache path failed", "error", err)
	}
}

// pathCacheKey hashes origin and groups; the route depends on nothing else.
func pathCacheKey(origin domain.Coordinate, groups []domain.WaypointGroup) string {
	data, _ := json.Marshal(struct {
		Origin domain.Coordinate      `json:"o"`
		Groups []domain.WaypointGroup `json:"g"`
	}{origin, groups})
	sum := sha256.Sum256(data)
	return "waypoints:path:" + hex.EncodeToString(sum[:])
}
