//go:build integration

package sqlstore

import (
	"context"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

// setupMySQLContainer starts MySQL for the test and returns a DSN for it.
func setupMySQLContainer(t *testing.T, ctx context.Context) string {
	t.Helper()
	const (
		dbName = "records_test"
		user   = "testuser"
		pass   = "testpass"
	)

	container, err := mysql.RunContainer(
		ctx,
		mysql.WithDatabase(dbName),
		mysql.WithUsername(user),
		mysql.WithPassword(pass),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, nat.Port("3306/tcp"))
	require.NoError(t, err)

	return user + ":" + pass + "@tcp(" + host + ":" + port.Port() + ")/" + dbName + "?parseTime=true&loc=UTC"
}
