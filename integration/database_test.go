//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestGitasanaWithMySQL tests the CLI with a MySQL stats store.
func TestGitasanaWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "gitasana",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/gitasana?parseTime=true&multiStatements=true", host, port.Port())
	exerciseStatsStore(t, "mysql", connStr)
}

// TestGitasanaWithPostgres tests the CLI with a PostgreSQL stats store.
func TestGitasanaWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseStatsStore(t, "postgresql", connStr)
}

// exerciseStatsStore migrates a fresh database, runs a report twice against
// it and checks status and clear.
func exerciseStatsStore(t *testing.T, backend, connStr string) {
	t.Helper()
	home := t.TempDir()
	env := []string{
		"GITASANA_CACHE_BACKEND=" + backend,
		"GITASANA_CACHE_DB_CONNECT=" + connStr,
	}
	repo := initFixtureRepo(t, []commitSpec{
		{file: "a.txt", lines: 4, message: "first", when: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)},
		{file: "b.txt", lines: 2, message: "second", when: time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)},
	})

	_, err := runGitasana(t, home, env, "cache", "migrate")
	require.NoError(t, err)

	reportArgs := []string{"report", "--repo", "demo=" + repo, "--start", "2024-01-01", "--end", "2024-01-31", "--output", "json"}
	first, err := runGitasana(t, home, env, reportArgs...)
	require.NoError(t, err)
	// The second run reads line counts from the stats store.
	second, err := runGitasana(t, home, env, reportArgs...)
	require.NoError(t, err)
	assert.JSONEq(t, first, second)

	var records []schema.CommitRecord
	require.NoError(t, json.Unmarshal([]byte(second), &records))
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].Added)

	status, err := runGitasana(t, home, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, status, "Connected: true")
	assert.Contains(t, status, "Total Entries: 2")

	_, err = runGitasana(t, home, env, "cache", "clear")
	require.NoError(t, err)
}
