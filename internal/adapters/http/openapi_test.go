package http_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/samirrijal/routekit/api"
)

func loadSpec(t *testing.T) *openapi3.T {
	t.Helper()
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}
	return spec
}

// TestOpenAPISpec validates the document and checks every served route is described.
func TestOpenAPISpec(t *testing.T) {
	spec := loadSpec(t)

	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/auth/sign-in",
		"/v1/auth/user",
		"/v1/users/me/usage",
		"/v1/waypoints",
		"/waypoints",
		"/graphql",
	}
	for _, path := range expectedPaths {
		if item := spec.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found in spec", path)
		}
	}

	expectedSchemas := []string{
		"Coordinate",
		"OptimizeRequest",
		"OptimizeResponse",
		"SignInRequest",
		"SignInResponse",
		"User",
		"FeatureUsage",
		"APIError",
	}
	for _, schema := range expectedSchemas {
		if spec.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	if spec.Components.SecuritySchemes["bearerAuth"] == nil {
		t.Error("expected bearerAuth security scheme")
	}
	if legacy := spec.Paths.Find("/waypoints"); legacy == nil || legacy.Post == nil || !legacy.Post.Deprecated {
		t.Error("expected POST /waypoints to be marked deprecated")
	}

	t.Logf("OpenAPI spec valid: %d paths, %d schemas", len(spec.Paths.Map()), len(spec.Components.Schemas))
}

// TestOpenAPIInfo verifies spec metadata.
func TestOpenAPIInfo(t *testing.T) {
	spec := loadSpec(t)

	if spec.Info.Title != "routekit API" {
		t.Errorf("expected title 'routekit API', got %q", spec.Info.Title)
	}
	if spec.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", spec.Info.Version)
	}
	if spec.Info.Description == "" {
		t.Error("expected non-empty description")
	}
	if len(spec.Servers) == 0 {
		t.Fatal("expected at least one server")
	}
}

func TestDocsServeEmbeddedSpec(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/docs/openapi.yaml", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !bytes.Equal(readBody(t, resp.Body), api.OpenAPI) {
		t.Error("served document differs from embedded spec")
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/docs", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 for /docs, got %d", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("unexpected Cache-Control %q", cc)
	}
}
