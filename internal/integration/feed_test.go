package integration

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/events"
	"github.com/Sudarshan-812/tiffintales-sub000/internal/order"
	"github.com/Sudarshan-812/tiffintales-sub000/internal/testutil"
)

// memorySequences is an in-memory stand-in for the Postgres-backed sequence
// repository, for tests that only exercise the broker.
type memorySequences struct {
	mu   sync.Mutex
	last map[string]int64
}

func newMemorySequences() *memorySequences {
	return &memorySequences{last: make(map[string]int64)}
}

func (m *memorySequences) NextSequence(_ context.Context, partitionKey string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[partitionKey]++
	return m.last[partitionKey], nil
}

func TestFeed_ReceivesStatusChanges(t *testing.T) {
	t.Parallel()

	conn, url, _ := testutil.StartRabbitMQ(t)

	pub, err := events.NewPublisher(conn, newMemorySequences())
	require.NoError(t, err)
	defer pub.Close()

	logger := log.New(io.Discard, "", 0)
	feed := events.NewFeed(url, logger)

	var mu sync.Mutex
	var got []events.StatusUpdate
	sub, err := feed.Subscribe(context.Background(), "buyer-1", func(u events.StatusUpdate) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, u)
	})
	require.NoError(t, err)
	defer sub.Close()

	o := &order.Order{
		ID:       uuid.NewString(),
		BuyerID:  "buyer-1",
		SellerID: "chef-a",
		Status:   order.StatusCooking,
	}
	require.NoError(t, pub.PublishStatusChanged(context.Background(), o))

	o.Status = order.StatusReady
	require.NoError(t, pub.PublishStatusChanged(context.Background(), o))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, 10*time.Second, 100*time.Millisecond, "expected both status updates on the feed")

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, order.StatusCooking, got[0].Status)
	require.Equal(t, order.StatusReady, got[1].Status)
	require.Equal(t, o.ID, got[0].OrderID)
	require.Less(t, got[0].Sequence, got[1].Sequence)
}

// TestFeed_ResubscribesAfterConnectionLoss severs every connection on the
// broker out from under an active subscription and verifies the feed re-dials,
// re-binds a queue, and keeps delivering.
func TestFeed_ResubscribesAfterConnectionLoss(t *testing.T) {
	t.Parallel()

	broker := testutil.StartRabbitMQBroker(t)

	// Shared across both publishers so sequences stay monotonic per order
	// and the feed's dedup never discards the post-reconnect update.
	seqs := newMemorySequences()

	pub, err := events.NewPublisher(broker.Dial(t), seqs)
	require.NoError(t, err)

	logger := log.New(io.Discard, "", 0)
	feed := events.NewFeed(broker.URL, logger)

	var mu sync.Mutex
	var got []events.StatusUpdate
	sub, err := feed.Subscribe(context.Background(), "buyer-1", func(u events.StatusUpdate) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, u)
	})
	require.NoError(t, err)
	defer sub.Close()

	o := &order.Order{
		ID:       uuid.NewString(),
		BuyerID:  "buyer-1",
		SellerID: "chef-a",
		Status:   order.StatusCooking,
	}
	require.NoError(t, pub.PublishStatusChanged(context.Background(), o))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, 10*time.Second, 100*time.Millisecond, "update before the drop")

	broker.DropConnections(t)

	// The dead subscription queue was auto-deleted, so updates published
	// before the re-bind are lost. Keep publishing until one lands on the
	// re-established queue.
	pub2, err := events.NewPublisher(broker.Dial(t), seqs)
	require.NoError(t, err)
	defer pub2.Close()

	o.Status = order.StatusReady
	require.Eventually(t, func() bool {
		_ = pub2.PublishStatusChanged(context.Background(), o)

		mu.Lock()
		defer mu.Unlock()
		for _, u := range got {
			if u.Status == order.StatusReady {
				return true
			}
		}
		return false
	}, 30*time.Second, 500*time.Millisecond, "update after reconnect")
}

func TestFeed_IgnoresOtherBuyers(t *testing.T) {
	t.Parallel()

	conn, url, _ := testutil.StartRabbitMQ(t)

	pub, err := events.NewPublisher(conn, newMemorySequences())
	require.NoError(t, err)
	defer pub.Close()

	logger := log.New(io.Discard, "", 0)
	feed := events.NewFeed(url, logger)

	var mu sync.Mutex
	var got []events.StatusUpdate
	sub, err := feed.Subscribe(context.Background(), "buyer-1", func(u events.StatusUpdate) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, u)
	})
	require.NoError(t, err)
	defer sub.Close()

	other := &order.Order{ID: uuid.NewString(), BuyerID: "buyer-2", SellerID: "chef-a", Status: order.StatusCooking}
	require.NoError(t, pub.PublishStatusChanged(context.Background(), other))

	mine := &order.Order{ID: uuid.NewString(), BuyerID: "buyer-1", SellerID: "chef-a", Status: order.StatusRejected}
	require.NoError(t, pub.PublishStatusChanged(context.Background(), mine))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 1
	}, 10*time.Second, 100*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	require.Equal(t, mine.ID, got[0].OrderID)
	require.Equal(t, order.StatusRejected, got[0].Status)
}
