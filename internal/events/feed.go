package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/order"
)

const (
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// StatusUpdate is what a buyer subscription delivers: the reflected result
// of a seller-driven transition.
type StatusUpdate struct {
	OrderID  string       `json:"orderId"`
	Status   order.Status `json:"status"`
	Sequence int64        `json:"sequence"`
}

// Handler consumes status updates for one buyer.
type Handler func(StatusUpdate)

// Feed is the buyer-side change feed over the events exchange. Each
// Subscribe call owns its own connection so tearing one screen down never
// disturbs another.
type Feed struct {
	url    string
	logger *log.Logger
}

func NewFeed(url string, logger *log.Logger) *Feed {
	return &Feed{url: url, logger: logger}
}

// Subscription is a live feed for one buyer. Close releases the underlying
// connection; leaking subscriptions leaks open channels on the broker.
type Subscription interface {
	// Close tears the subscription down and waits for the consume loop to
	// exit.
	Close()
}

type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscription) Close() {
	s.cancel()
	<-s.done
}

// Subscribe starts delivering the buyer's order-status changes to h. The
// first connection is made synchronously so callers get an immediate error;
// after that, dropped channels are re-dialed with capped backoff because
// change feeds can silently die under the app. Redelivered or out-of-order
// updates are discarded using the per-order envelope sequence.
func (f *Feed) Subscribe(ctx context.Context, buyerID string, h Handler) (Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)

	conn, msgs, err := f.connect(buyerID)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	go f.run(subCtx, conn, msgs, buyerID, h, sub.done)
	return sub, nil
}

func (f *Feed) connect(buyerID string) (*amqp.Connection, <-chan amqp.Delivery, error) {
	conn, err := amqp.Dial(f.url)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	// Exclusive auto-delete queue: the subscription is scoped to this
	// session and vanishes with it.
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if err := ch.QueueBind(q.Name, statusRoutingKey(buyerID), EventsExchange, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	return conn, msgs, nil
}

func (f *Feed) run(ctx context.Context, conn *amqp.Connection, msgs <-chan amqp.Delivery, buyerID string, h Handler, done chan struct{}) {
	defer close(done)

	seen := newSequenceTracker()

	for {
	consume:
		for {
			select {
			case <-ctx.Done():
				_ = conn.Close()
				return
			case d, ok := <-msgs:
				if !ok {
					break consume
				}
				f.deliver(seen, d.Body, h)
			}
		}
		_ = conn.Close()

		delay := reconnectBaseDelay
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			c, m, err := f.connect(buyerID)
			if err != nil {
				f.logger.Printf("feed reconnect for %s: %v", buyerID, err)
				delay *= 2
				if delay > reconnectMaxDelay {
					delay = reconnectMaxDelay
				}
				continue
			}

			f.logger.Printf("feed reconnected for %s", buyerID)
			conn, msgs = c, m
			break
		}
	}
}

func (f *Feed) deliver(seen *sequenceTracker, body []byte, h Handler) {
	var env StatusChangedEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		f.logger.Printf("feed: unmarshal status event: %v", err)
		return
	}
	if err := env.Validate(statusChangedEventName, statusChangedEventVersion); err != nil {
		f.logger.Printf("feed: drop event: %v", err)
		return
	}
	if !seen.Fresh(env.PartitionKey, env.Sequence) {
		return
	}

	var seq int64
	if env.Sequence != nil {
		seq = *env.Sequence
	}
	h(StatusUpdate{
		OrderID:  env.Payload.OrderID,
		Status:   env.Payload.Status,
		Sequence: seq,
	})
}

// sequenceTracker remembers the highest sequence seen per order so stale or
// redelivered updates are dropped rather than rewinding the buyer's view.
type sequenceTracker struct {
	mu   sync.Mutex
	last map[string]int64
}

func newSequenceTracker() *sequenceTracker {
	return &sequenceTracker{last: make(map[string]int64)}
}

// Fresh reports whether the sequence advances the partition. A nil sequence
// is always delivered; the producer is expected to stamp one.
func (t *sequenceTracker) Fresh(partitionKey string, seq *int64) bool {
	if seq == nil {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.last[partitionKey]; ok && *seq <= last {
		return false
	}
	t.last[partitionKey] = *seq
	return true
}
