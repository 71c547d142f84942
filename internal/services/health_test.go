package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/localnerve/covematch/internal/config"
	"github.com/localnerve/covematch/internal/services"
	"github.com/localnerve/covematch/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	db := testutil.NewDB(t)
	authz := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer authz.Close()

	cfg := &config.Config{DBType: "sqlite", DBDatabase: ":memory:", AuthzURL: authz.URL}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result := services.HealthCheck(ctx, cfg, db)
	assert.True(t, result.Healthy(), result.ErrorMessage)
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "ok", result.Authorizer)
	assert.Equal(t, "sqlite", result.Details["database_type"])

	// a closed Authorizer marks the service unhealthy
	authz.Close()
	result = services.HealthCheck(ctx, cfg, db)
	assert.False(t, result.Healthy())
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "unreachable", result.Authorizer)
	assert.NotEmpty(t, result.ErrorMessage)
}
