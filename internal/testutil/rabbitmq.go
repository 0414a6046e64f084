package testutil

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Broker is a running RabbitMQ container. Tests that need to disturb the
// broker (dropping connections, dialing fresh ones) use it directly;
// StartRabbitMQ wraps it for the common case.
type Broker struct {
	Container testcontainers.Container
	URL       string
}

// StartRabbitMQBroker launches a RabbitMQ container. Teardown is registered
// with t.Cleanup.
func StartRabbitMQBroker(t *testing.T) *Broker {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cleanupCancel()
		_ = container.Terminate(cleanupCtx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5672")
	require.NoError(t, err)

	return &Broker{
		Container: container,
		URL:       "amqp://guest:guest@" + host + ":" + mappedPort.Port() + "/",
	}
}

// Dial opens a fresh AMQP connection to the broker, closed on test cleanup.
func (b *Broker) Dial(t *testing.T) *amqp.Connection {
	t.Helper()

	conn, err := amqp.DialConfig(b.URL, amqp.Config{
		Dial: amqp.DefaultDial(10 * time.Second),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// DropConnections force-closes every client connection on the broker so a
// test can drive reconnect paths.
func (b *Broker) DropConnections(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	code, _, err := b.Container.Exec(ctx, []string{
		"rabbitmqctl", "close_all_connections", "dropped by test",
	})
	require.NoError(t, err)
	require.Zero(t, code, "rabbitmqctl close_all_connections failed")
}

// StartRabbitMQ launches a RabbitMQ container and returns a ready AMQP
// connection, the broker URL, and a cleanup function. The cleanup function
// is registered with t.Cleanup.
func StartRabbitMQ(t *testing.T) (*amqp.Connection, string, func()) {
	t.Helper()

	broker := StartRabbitMQBroker(t)
	conn := broker.Dial(t)

	cleanup := func() { _ = conn.Close() }
	return conn, broker.URL, cleanup
}
