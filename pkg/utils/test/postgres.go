package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Seer7-SWE/PayTM-clone/pkg/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

const (
	pgUser     = "wallet_user"
	pgPassword = "wallet_password"
	pgDatabase = "wallet"
)

// StartPostgres runs a migrated PostgreSQL container for the calling test and returns a connected DB.
// -short is the supported way to run without Docker. Without it, the test is still skipped when the
// Docker provider cannot be reached.
func StartPostgres(t *testing.T) (*database.DB, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	RequireDocker(t, dockerHealth)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     pgUser,
			"POSTGRES_PASSWORD": pgPassword,
			"POSTGRES_DB":       pgDatabase,
		},
		// The server restarts once after init, so wait for the second ready line.
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres test container: %v", err)
	}
	t.Cleanup(func() {
		_ = pgC.Terminate(context.Background())
	})

	host, err := pgC.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get postgres host: %v", err)
	}
	port, err := pgC.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, port.Port(), pgDatabase)

	logger := zap.NewNop()
	if err = database.RunMigrations(logger, dsn); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	db, closer, err := database.New(context.Background(), logger, database.Config{PrimaryDSN: dsn, MaxConns: 20, MinConns: 1})
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(closer)
	return db, dsn
}

// RequireDocker skips t when check fails. testcontainers panics while resolving the Docker host
// on machines without one, so a panic counts as a failed check.
func RequireDocker(t *testing.T, check func() error) {
	t.Helper()
	if err := providerError(check); err != nil {
		t.Skipf("skipping container test, docker provider unavailable: %v", err)
	}
}

func providerError(check func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return check()
}

func dockerHealth() error {
	provider, err := testcontainers.NewDockerProvider()
	if err != nil {
		return err
	}
	defer func(provider *testcontainers.DockerProvider) {
		_ = provider.Close()
	}(provider)
	return provider.Health(context.Background())
}
