package event

import (
	"context"
	"sync/atomic"

	"github.com/dshills/tilegrid/internal/event/topic"
)

// Priority determines handler execution order. Lower values execute first.
type Priority int

const (
	// PriorityHigh is for caches that must be invalidated before others read.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for logging handlers that run last.
	PriorityLow Priority = 300
)

// HandlerFunc handles a notification.
type HandlerFunc func(ctx context.Context, env Envelope) error

// Subscription is a registered handler.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed topic pattern.
	Topic() topic.Topic

	// IsActive returns true until the subscription is cancelled.
	IsActive() bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*subscription)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(s *subscription) {
		s.priority = p
	}
}

// WithOnce cancels the subscription after its first successful delivery.
func WithOnce() SubscriptionOption {
	return func(s *subscription) {
		s.once = true
	}
}

type subscription struct {
	id       string
	pattern  topic.Topic
	handler  HandlerFunc
	priority Priority
	once     bool
	seq      uint64
	active   atomic.Bool
}

func (s *subscription) ID() string         { return s.id }
func (s *subscription) Topic() topic.Topic { return s.pattern }
func (s *subscription) IsActive() bool     { return s.active.Load() }
