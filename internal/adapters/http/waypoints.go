package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/core/usecases"
	"github.com/samirrijal/routekit/internal/pkg/config"
	"github.com/samirrijal/routekit/internal/pkg/validation"
)

// optimizeRequest keeps coordinates as plain slices so arity errors surface
// as validation failures instead of decode failures.
type optimizeRequest struct {
	Origin    []float64     `json:"origin" validate:"required,len=2,dive,gte=-180,lte=180"`
	Waypoints [][][]float64 `json:"waypoints" validate:"required,dive,dive,len=2,dive,gte=-180,lte=180"`
}

type optimizeResponse struct {
	Path domain.Path `json:"path"`
}

// toDomain validates req against the struct tags and limits.
func (req optimizeRequest) toDomain(limits config.WaypointsConfig) (domain.Coordinate, []domain.WaypointGroup, *validation.RequestValidationError) {
	if verr := validation.ValidateStruct(req); verr != nil {
		return domain.Coordinate{}, nil, verr
	}

	if limits.MaxGroups > 0 && len(req.Waypoints) > limits.MaxGroups {
		return domain.Coordinate{}, nil, validation.NewFieldError("waypoints", "max", strconv.Itoa(limits.MaxGroups), len(req.Waypoints),
			fmt.Sprintf("waypoints must contain at most %d groups", limits.MaxGroups))
	}

	total := 0
	groups := make([]domain.WaypointGroup, len(req.Waypoints))
	for i, g := range req.Waypoints {
		group := make(domain.WaypointGroup, len(g))
		for j, p := range g {
			group[j] = domain.Coordinate{p[0], p[1]}
		}
		groups[i] = group
		total += len(g)
	}

	if limits.MaxPoints > 0 && total > limits.MaxPoints {
		return domain.Coordinate{}, nil, validation.NewFieldError("waypoints", "max", strconv.Itoa(limits.MaxPoints), total,
			fmt.Sprintf("waypoints must contain at most %d points in total", limits.MaxPoints))
	}

	return domain.Coordinate{req.Origin[0], req.Origin[1]}, groups, nil
}

// OptimizeWaypointsHandler orders the requested waypoint groups starting at origin.
func OptimizeWaypointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req optimizeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		origin, groups, verr := req.toDomain(deps.Limits)
		if verr != nil {
			return errValidation(c, verr)
		}

		path, err := deps.Waypoints.Optimize(c.UserContext(), currentUser(c).ID, origin, groups)
		switch {
		case errors.Is(err, usecases.ErrQuotaExhausted):
			return errQuotaExhausted(c)
		case errors.Is(err, usecases.ErrUsageUnavailable):
			LoggerFromCtx(c.UserContext()).Warn("usage unavailable", "error", err)
			return errBadRequest(c, usecases.ErrUsageUnavailable.Error())
		case err != nil:
			LoggerFromCtx(c.UserContext()).Error("optimize waypoints failed", "error", err)
			return errInternal(c, "failed to optimize waypoints")
		}

		return c.JSON(optimizeResponse{Path: path})
	}
}
