package telemetry

// Span and attribute names used for instrumentation.
const (
	TracerName = "github.com/samirrijal/routekit"

	SpanOptimizeWaypoints = "waypoints.optimize"
	SpanDebitUsage        = "usage.debit"
	SpanDBQuery           = "db.query"

	AttrUserID     = "routekit.user_id"
	AttrGroups     = "routekit.waypoints.groups"
	AttrPoints     = "routekit.waypoints.points"
	AttrDistanceKm = "routekit.route.distance_km"
	AttrCacheHit   = "routekit.cache.hit"
)
