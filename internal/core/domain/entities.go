package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// User is an account allowed to call the API.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// FeatureUsage holds the remaining metered allowances of a user.
type FeatureUsage struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"user_id"`
	RouteCalculationCount int       `json:"route_calculation_count"`
	CreatedAt             time.Time `json:"created_at"`
}

// RouteCalculation is emitted once per served waypoint optimization.
type RouteCalculation struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Groups       int       `json:"groups"`
	Points       int       `json:"points"`
	DistanceKm   float64   `json:"distance_km"`
	Cached       bool      `json:"cached"`
	CalculatedAt time.Time `json:"calculated_at"`
}
