package event

import (
	"cmp"
	"context"
	"errors"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/tilegrid/internal/event/topic"
)

// Stats reports bus activity.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	ActiveSubscribers int
	AvgDeliveryTime   time.Duration
}

// Bus delivers notifications synchronously to matching subscriptions.
// Bus is safe for concurrent use; handlers may subscribe and unsubscribe
// from within a delivery.
type Bus struct {
	mu   sync.RWMutex
	subs []*subscription
	seq  uint64

	published   atomic.Uint64
	delivered   atomic.Uint64
	errored     atomic.Uint64
	panicked    atomic.Uint64
	executed    atomic.Uint64
	totalTimeNs atomic.Int64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for every topic matching pattern.
func (b *Bus) Subscribe(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := &subscription{
		id:       uuid.NewString(),
		pattern:  pattern,
		handler:  fn,
		priority: PriorityNormal,
	}
	for _, opt := range opts {
		opt(sub)
	}
	sub.active.Store(true)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	sub.seq = b.seq
	b.subs = append(b.subs, sub)
	return sub, nil
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.subs, func(s *subscription) bool { return s.id == sub.ID() })
	if i < 0 {
		return ErrSubscriptionNotFound
	}
	b.subs[i].active.Store(false)
	b.subs = slices.Delete(b.subs, i, i+1)
	return nil
}

// Publish delivers payload to every active subscription matching t.
// Handler errors and panics do not stop delivery; they are joined and
// returned. A cancelled context stops delivery before the next handler.
func (b *Bus) Publish(ctx context.Context, t topic.Topic, payload any) error {
	return b.PublishEnvelope(ctx, NewEvent(t, payload, "").Envelope())
}

// PublishEnvelope delivers a prepared envelope; see Publish.
func (b *Bus) PublishEnvelope(ctx context.Context, env Envelope) error {
	if !env.Topic.IsValid() || env.Topic.IsPattern() {
		return ErrInvalidTopic
	}
	b.published.Add(1)

	var errs []error
	for _, sub := range b.match(env.Topic) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if !sub.active.Load() {
			continue
		}
		if err := b.deliver(ctx, sub, env); err != nil {
			errs = append(errs, err)
			continue
		}
		if sub.once {
			_ = b.Unsubscribe(sub)
		}
	}
	return errors.Join(errs...)
}

// match returns the matching subscriptions in delivery order.
func (b *Bus) match(t topic.Topic) []*subscription {
	b.mu.RLock()
	var out []*subscription
	for _, sub := range b.subs {
		if t.Matches(sub.pattern) {
			out = append(out, sub)
		}
	}
	b.mu.RUnlock()

	slices.SortFunc(out, func(a, c *subscription) int {
		return cmp.Or(cmp.Compare(a.priority, c.priority), cmp.Compare(a.seq, c.seq))
	})
	return out
}

// deliver runs one handler with panic recovery.
func (b *Bus) deliver(ctx context.Context, sub *subscription, env Envelope) (err error) {
	start := time.Now()
	b.executed.Add(1)
	defer func() {
		b.totalTimeNs.Add(time.Since(start).Nanoseconds())
		if r := recover(); r != nil {
			b.panicked.Add(1)
			err = &PanicError{
				SubscriptionID: sub.id,
				Topic:          string(env.Topic),
				Value:          r,
				Stack:          string(debug.Stack()),
			}
		}
	}()

	if herr := sub.handler(ctx, env); herr != nil {
		b.errored.Add(1)
		return &HandlerError{SubscriptionID: sub.id, Topic: string(env.Topic), Err: herr}
	}
	b.delivered.Add(1)
	return nil
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := len(b.subs)
	b.mu.RUnlock()

	executed := b.executed.Load()
	var avg time.Duration
	if executed > 0 {
		avg = time.Duration(b.totalTimeNs.Load() / int64(executed))
	}
	return Stats{
		EventsPublished:   b.published.Load(),
		EventsDelivered:   b.delivered.Load(),
		HandlerErrors:     b.errored.Load(),
		HandlerPanics:     b.panicked.Load(),
		ActiveSubscribers: active,
		AvgDeliveryTime:   avg,
	}
}
