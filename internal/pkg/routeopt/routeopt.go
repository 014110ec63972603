// Package routeopt orders waypoints with a greedy nearest-neighbor heuristic.
//
// Everything here is pure: no I/O, no shared state, no cancellation. The
// heuristic gives no optimality guarantee and runs in O(n²) distance
// evaluations per group.
package routeopt

import (
	"slices"

	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/pkg/geospatial"
)

// Distance returns the great-circle distance between a and b in kilometers.
func Distance(a, b domain.Coordinate) float64 {
	return geospatial.Haversine(a.Lat(), a.Lng(), b.Lat(), b.Lng())
}

// Nearest returns the index of the candidate closest to ref.
// On exact ties the lowest index wins. ok is false when candidates is empty.
func Nearest(ref domain.Coordinate, candidates []domain.Coordinate) (idx int, ok bool) {
	if len(candidates) == 0 {
		return -1, false
	}

	best := 0
	bestDist := Distance(ref, candidates[0])
	for i := 1; i < len(candidates); i++ {
		if d := Distance(ref, candidates[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, true
}

// NearestNeighbor visits every point once, always moving to the closest
// unvisited one, starting from origin. points is not modified.
func NearestNeighbor(origin domain.Coordinate, points []domain.Coordinate) domain.Path {
	path := make(domain.Path, 0, len(points))
	unvisited := slices.Clone(points)
	current := origin

	for len(unvisited) > 0 {
		i, _ := Nearest(current, unvisited)
		next := unvisited[i]
		path = append(path, next)
		// Order-preserving removal keeps ties resolved by input order.
		unvisited = slices.Delete(unvisited, i, i+1)
		current = next
	}

	return path
}

// Chain runs NearestNeighbor over each group in order. Each group starts from
// the last point of the previous non-empty segment; empty groups are skipped
// without moving the reference.
func Chain(origin domain.Coordinate, groups []domain.WaypointGroup) domain.Path {
	path := make(domain.Path, 0, CountPoints(groups))
	ref := origin
	for _, g := range groups {
		ref, path = chainStep(ref, path, g)
	}
	return path
}

func chainStep(ref domain.Coordinate, acc domain.Path, group domain.WaypointGroup) (domain.Coordinate, domain.Path) {
	segment := NearestNeighbor(ref, group)
	if len(segment) == 0 {
		return ref, acc
	}
	return segment[len(segment)-1], append(acc, segment...)
}

// Length returns the kilometers travelled from origin through every point of path.
func Length(origin domain.Coordinate, path domain.Path) float64 {
	total := 0.0
	prev := origin
	for _, p := range path {
		total += Distance(prev, p)
		prev = p
	}
	return total
}

// CountPoints returns the number of coordinates across all groups.
func CountPoints(groups []domain.WaypointGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	return n
}
