package redisstream

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	"github.com/riskibarqy/season-sim/internal/platform/logging"
	"github.com/riskibarqy/season-sim/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultStreamPrefix = "season-sim:match"

// StreamAdder is the part of the redis client the publisher needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type Config struct {
	StreamPrefix   string
	MaxLen         int64
	Timeout        time.Duration
	CircuitBreaker resilience.BreakerConfig
}

// Publisher appends the events of every tick to a per-match redis stream so
// an external UI can follow the match.
type Publisher struct {
	client  StreamAdder
	prefix  string
	maxLen  int64
	timeout time.Duration
	breaker *resilience.Breaker
	logger  *logging.Logger
}

func New(client StreamAdder, cfg Config, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	prefix := strings.TrimRight(strings.TrimSpace(cfg.StreamPrefix), ":")
	if prefix == "" {
		prefix = defaultStreamPrefix
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return &Publisher{
		client:  client,
		prefix:  prefix,
		maxLen:  cfg.MaxLen,
		timeout: timeout,
		breaker: resilience.NewBreaker(cfg.CircuitBreaker),
		logger:  logger,
	}
}

func (p *Publisher) StreamKey(matchID string) string {
	return p.prefix + ":" + matchID + ":events"
}

func (p *Publisher) PublishEvents(ctx context.Context, matchID string, events []match.Event) error {
	if len(events) == 0 {
		return nil
	}

	payload, err := encodeEvents(events)
	if err != nil {
		return crerr.Wrapf(err, "encode events of match %s", matchID)
	}
	stream := p.StreamKey(matchID)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("redis.stream", stream),
			attribute.Int("match.events", len(events)),
		)
	}

	err = p.breaker.Do(func() error {
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		args := &redis.XAddArgs{
			Stream: stream,
			Values: map[string]any{
				"matchId": matchID,
				"count":   strconv.Itoa(len(events)),
				"time":    events[len(events)-1].Time,
				"events":  payload,
			},
		}
		if p.maxLen > 0 {
			args.MaxLen = p.maxLen
			args.Approx = true
		}
		return p.client.XAdd(callCtx, args).Err()
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			p.logger.WarnContext(ctx, "redis stream circuit breaker rejected publish", "match_id", matchID, "state", p.breaker.State())
		}
		return fmt.Errorf("publish to stream %s: %w", stream, err)
	}
	return nil
}

func encodeEvents(events []match.Event) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(events); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
