//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/huangsam/gitpet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startContainer starts req and returns the mapped host and port of exposed.
func startContainer(t *testing.T, req testcontainers.ContainerRequest, exposed string) (string, string) {
	t.Helper()
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, nat.Port(exposed))
	require.NoError(t, err)
	return host, port.Port()
}

// exerciseStore drives the learning loop against backend and checks the stored counts.
func exerciseStore(t *testing.T, backend, connStr string, migrate bool) {
	env := []string{
		"GITPET_STORE_BACKEND=" + backend,
		"GITPET_STORE_DB_CONNECT=" + connStr,
	}

	// Start from an empty store
	_, err := runGitpet(t, "..", env, "store", "clear")
	require.NoError(t, err)

	if migrate {
		_, err = runGitpet(t, "..", env, "store", "migrate")
		require.NoError(t, err)
	}

	// Record two reactions
	_, err = runGitpet(t, "..", env, "react", "excited", "positive")
	require.NoError(t, err)
	_, err = runGitpet(t, "..", env, "react", "nudging", "negative")
	require.NoError(t, err)

	// Analyze the project checkout, which records a productivity sample
	_, err = runGitpet(t, "..", env, "analyze", "--source", "local", ".")
	require.NoError(t, err)

	// Check the counts survived the process boundary
	out, err := runGitpet(t, "..", env, "store", "status", "--output", "json")
	require.NoError(t, err)
	var status struct {
		Store  schema.StoreStatus   `json:"store"`
		Counts schema.PatternCounts `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(out, &status))
	assert.True(t, status.Store.Connected)
	assert.Equal(t, 2, status.Counts.Reactions)
	assert.Equal(t, 1, status.Counts.Productivity)
	assert.Equal(t, 0, status.Counts.Sprints)

	// Insights stay readable
	_, err = runGitpet(t, "..", env, "insights", "--output", "json")
	require.NoError(t, err)
}

// TestGitpetWithMySQL tests the gitpet CLI with a MySQL backend.
func TestGitpetWithMySQL(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "gitpet",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}, "3306")

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/gitpet?parseTime=true", host, port)
	exerciseStore(t, "mysql", connStr, true)
}

// TestGitpetWithPostgres tests the gitpet CLI with a PostgreSQL backend.
func TestGitpetWithPostgres(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432")

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port)
	exerciseStore(t, "postgresql", connStr, true)
}

// TestGitpetWithRedis tests the gitpet CLI with a Redis backend.
func TestGitpetWithRedis(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}, "6379")

	connStr := fmt.Sprintf("redis://%s:%s/0", host, port)
	exerciseStore(t, "redis", connStr, false)
}
