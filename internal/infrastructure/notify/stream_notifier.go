package notify

import (
	"context"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/hoopstats/internal/platform/logging"
	"github.com/riskibarqy/hoopstats/internal/platform/resilience"
	"github.com/riskibarqy/hoopstats/internal/usecase"
)

var errStreamTransient = crerr.New("announcement stream transient failure")

// StreamAdder is the slice of the redis client the notifier needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type StreamNotifierConfig struct {
	Stream         string
	MaxLen         int64
	CircuitBreaker resilience.CircuitBreakerConfig
}

// StreamNotifier appends each announcement to a Redis stream so chat
// adapters can consume them independently of the poll loop.
type StreamNotifier struct {
	client         StreamAdder
	stream         string
	maxLen         int64
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewStreamNotifier(client StreamAdder, cfg StreamNotifierConfig, logger *logging.Logger) *StreamNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("notify")

	stream := strings.TrimSpace(cfg.Stream)
	if stream == "" {
		stream = "hoopstats:announcements"
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	breaker := resilience.NewCircuitBreakerFromConfig("redis-stream", breakerCfg)
	breaker.OnStateChange(func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
	})

	return &StreamNotifier{
		client:         client,
		stream:         stream,
		maxLen:         cfg.MaxLen,
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
	}
}

// NewRedisClient builds the go-redis client used by StreamNotifier.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (n *StreamNotifier) Notify(ctx context.Context, announcements []usecase.Announcement) error {
	if len(announcements) == 0 {
		return nil
	}
	if n.circuitEnabled {
		if err := n.breaker.Allow(); err != nil {
			n.logger.WarnContext(ctx, "redis stream circuit breaker rejected publish", "state", n.breaker.State())
			return fmt.Errorf("%w: announcement stream: %v", usecase.ErrDependencyUnavailable, err)
		}
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("notify.stream", n.stream),
			attribute.Int("notify.announcements", len(announcements)),
		)
	}

	for _, a := range announcements {
		payload, err := sonic.Marshal(a)
		if err != nil {
			return crerr.Wrapf(err, "marshal %s announcement", a.Kind)
		}

		args := &redis.XAddArgs{
			Stream: n.stream,
			Values: map[string]any{
				"kind":     string(a.Kind),
				"cycle_id": a.CycleID,
				"text":     a.Text,
				"data":     string(payload),
			},
		}
		if n.maxLen > 0 {
			args.MaxLen = n.maxLen
			args.Approx = true
		}

		msgID, err := n.client.XAdd(ctx, args).Result()
		if err != nil {
			callErr := fmt.Errorf("%w: xadd stream=%s kind=%s: %v", errStreamTransient, n.stream, a.Kind, err)
			n.recordCircuitResult(callErr)
			return callErr
		}
		n.logger.DebugContext(ctx, "announcement published", "stream", n.stream, "kind", a.Kind, "message_id", msgID)
	}

	n.recordCircuitResult(nil)
	n.logger.InfoContext(ctx, "announcements published", "stream", n.stream, "count", len(announcements))
	return nil
}

func (n *StreamNotifier) recordCircuitResult(err error) {
	if !n.circuitEnabled {
		return
	}
	if err != nil && crerr.Is(err, errStreamTransient) {
		n.breaker.RecordFailure()
		return
	}
	n.breaker.RecordSuccess()
}
