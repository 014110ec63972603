package domain

// Coordinate is a geographic point in degrees. Index 0 is read as latitude and
// index 1 as longitude by the distance functions; callers own the axis mapping.
type Coordinate [2]float64

// Lat returns the first component.
func (c Coordinate) Lat() float64 { return c[0] }

// Lng returns the second component.
func (c Coordinate) Lng() float64 { return c[1] }

// WaypointGroup is a batch of stops visited in nearest-neighbor order.
type WaypointGroup []Coordinate

// Path is an ordered sequence of visited coordinates.
type Path []Coordinate
