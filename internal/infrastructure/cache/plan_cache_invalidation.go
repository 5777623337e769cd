package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/homehub/backend/internal/domain/billing"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for invalidator configuration
const (
	defaultCloseTimeout          = 5 * time.Second
	defaultInvalidationChannel   = "homehub:plan_features:invalidate"
	invalidationActionInvalidate = "invalidate"
	invalidationActionClear      = "clear"
)

// PlanCacheInvalidation is the message broadcast when plan entitlements
// change. Every instance drops its local cache for the named plan.
type PlanCacheInvalidation struct {
	Action    string       `json:"action"`
	Plan      billing.Plan `json:"plan,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// RedisPlanCacheInvalidator broadcasts and consumes plan entitlement
// invalidations over Redis Pub/Sub so multi-instance deployments keep
// their L1 caches coherent.
type RedisPlanCacheInvalidator struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	channel    string
	logger     *zap.Logger
	cancelFn   context.CancelFunc
	doneCh     chan struct{}
	doneOnce   sync.Once
	mu         sync.Mutex
	isRunning  bool
}

// RedisPlanCacheInvalidatorOption is a functional option for configuring the invalidator
type RedisPlanCacheInvalidatorOption func(*RedisPlanCacheInvalidator)

// WithInvalidatorChannel sets the Pub/Sub channel name
func WithInvalidatorChannel(channel string) RedisPlanCacheInvalidatorOption {
	return func(i *RedisPlanCacheInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger for the invalidator
func WithInvalidatorLogger(logger *zap.Logger) RedisPlanCacheInvalidatorOption {
	return func(i *RedisPlanCacheInvalidator) {
		i.logger = logger
	}
}

// NewRedisPlanCacheInvalidator creates a new Redis Pub/Sub cache invalidator
func NewRedisPlanCacheInvalidator(cfg RedisConfig, opts ...RedisPlanCacheInvalidatorOption) (*RedisPlanCacheInvalidator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	invalidator := &RedisPlanCacheInvalidator{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		channel:    defaultInvalidationChannel,
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(invalidator)
	}

	return invalidator, nil
}

// NewRedisPlanCacheInvalidatorWithClient creates an invalidator with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisPlanCacheInvalidatorWithClient(client *redis.Client, opts ...RedisPlanCacheInvalidatorOption) *RedisPlanCacheInvalidator {
	invalidator := &RedisPlanCacheInvalidator{
		client:     client,
		ownsClient: false, // Client is shared, don't close it
		channel:    defaultInvalidationChannel,
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(invalidator)
	}

	return invalidator
}

// PublishInvalidation broadcasts an invalidation for one plan
func (i *RedisPlanCacheInvalidator) PublishInvalidation(ctx context.Context, plan billing.Plan) error {
	return i.publish(ctx, PlanCacheInvalidation{
		Action: invalidationActionInvalidate,
		Plan:   plan,
	})
}

// PublishClear broadcasts a full entitlement cache clear
func (i *RedisPlanCacheInvalidator) PublishClear(ctx context.Context) error {
	return i.publish(ctx, PlanCacheInvalidation{
		Action: invalidationActionClear,
	})
}

func (i *RedisPlanCacheInvalidator) publish(ctx context.Context, msg PlanCacheInvalidation) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation message: %w", err)
	}

	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		i.logger.Error("Failed to publish plan cache invalidation",
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}

	return nil
}

// Subscribe starts consuming invalidation messages and applying them to
// the given cache. It is non-blocking; use Close to stop.
func (i *RedisPlanCacheInvalidator) Subscribe(ctx context.Context, target PlanFeatureCache) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.isRunning {
		return fmt.Errorf("invalidator already subscribed")
	}

	subCtx, cancel := context.WithCancel(ctx)
	i.cancelFn = cancel
	i.isRunning = true

	pubsub := i.client.Subscribe(subCtx, i.channel)

	go func() {
		defer i.doneOnce.Do(func() { close(i.doneCh) })
		defer func() { _ = pubsub.Close() }()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				i.handleMessage(subCtx, target, msg.Payload)
			}
		}
	}()

	i.logger.Info("Subscribed to plan cache invalidations", zap.String("channel", i.channel))
	return nil
}

func (i *RedisPlanCacheInvalidator) handleMessage(ctx context.Context, target PlanFeatureCache, payload string) {
	var msg PlanCacheInvalidation
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		i.logger.Warn("Ignoring malformed invalidation message", zap.Error(err))
		return
	}

	switch msg.Action {
	case invalidationActionInvalidate:
		if err := target.InvalidatePlan(ctx, msg.Plan); err != nil {
			i.logger.Warn("Failed to apply plan invalidation",
				zap.String("plan", string(msg.Plan)),
				zap.Error(err))
		}
	case invalidationActionClear:
		if err := target.Clear(ctx); err != nil {
			i.logger.Warn("Failed to apply cache clear", zap.Error(err))
		}
	default:
		i.logger.Warn("Unknown invalidation action", zap.String("action", msg.Action))
	}
}

// Close stops the subscription and releases the client if owned
func (i *RedisPlanCacheInvalidator) Close() error {
	i.mu.Lock()
	if i.cancelFn != nil {
		i.cancelFn()
	}
	running := i.isRunning
	i.isRunning = false
	i.mu.Unlock()

	if running {
		select {
		case <-i.doneCh:
		case <-time.After(defaultCloseTimeout):
			i.logger.Warn("Timed out waiting for invalidation subscriber to stop")
		}
	}

	if i.ownsClient {
		return i.client.Close()
	}
	return nil
}
