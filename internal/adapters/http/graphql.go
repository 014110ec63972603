package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/core/usecases"
)

var errNoUser = errors.New("unauthenticated")

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.String},
			"email": &graphql.Field{Type: graphql.String},
			"name":  &graphql.Field{Type: graphql.String},
		},
	})

	usageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FeatureUsage",
		Fields: graphql.Fields{
			"user_id":                 &graphql.Field{Type: graphql.String},
			"route_calculation_count": &graphql.Field{Type: graphql.Int},
		},
	})

	coordinateType := graphql.NewList(graphql.NewNonNull(graphql.Float))

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:        userType,
				Description: "The authenticated user",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u, ok := UserFromCtx(p.Context)
					if !ok {
						return nil, errNoUser
					}
					return u, nil
				},
			},
			"usage": &graphql.Field{
				Type:        usageType,
				Description: "Remaining metered allowances of the authenticated user",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u, ok := UserFromCtx(p.Context)
					if !ok {
						return nil, errNoUser
					}
					return deps.Usage.Get(p.Context, u.ID)
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"optimizeWaypoints": &graphql.Field{
				Type:        graphql.NewList(coordinateType),
				Description: "Order waypoint groups from origin with the nearest-neighbor heuristic",
				Args: graphql.FieldConfigArgument{
					"origin": &graphql.ArgumentConfig{Type: graphql.NewNonNull(coordinateType)},
					"waypoints": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.NewList(coordinateType)))),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u, ok := UserFromCtx(p.Context)
					if !ok {
						return nil, errNoUser
					}

					req := optimizeRequest{
						Origin:    floats(p.Args["origin"]),
						Waypoints: groupsArg(p.Args["waypoints"]),
					}
					origin, groups, verr := req.toDomain(deps.Limits)
					if verr != nil {
						return nil, verr
					}

					path, err := deps.Waypoints.Optimize(p.Context, u.ID, origin, groups)
					if errors.Is(err, usecases.ErrQuotaExhausted) || errors.Is(err, usecases.ErrUsageUnavailable) {
						return nil, err
					}
					if err != nil {
						return nil, fmt.Errorf("failed to optimize waypoints")
					}
					return pathRows(path), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func floats(v interface{}) []float64 {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(items))
	for _, it := range items {
		if f, ok := it.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}

func groupsArg(v interface{}) [][][]float64 {
	groups, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([][][]float64, len(groups))
	for i, g := range groups {
		points, _ := g.([]interface{})
		out[i] = make([][]float64, len(points))
		for j, p := range points {
			out[i][j] = floats(p)
		}
	}
	return out
}

// pathRows converts fixed-size coordinates to slices; graphql-go only
// serializes slice kinds as lists.
func pathRows(path domain.Path) [][]float64 {
	rows := make([][]float64, len(path))
	for i, c := range path {
		rows[i] = []float64{c[0], c[1]}
	}
	return rows
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
