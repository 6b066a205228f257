package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avstrong/hotelcart/internal/booking"
	"github.com/avstrong/hotelcart/internal/logger"
)

const pingTimeout = 2 * time.Second

type RedisConfig struct {
	L        *logger.Logger
	Addr     string
	Password string
	DB       int
	Channel  string
}

// RedisPublisher broadcasts confirmations on a Redis pub/sub channel.
type RedisPublisher struct {
	l       *logger.Logger
	client  *redis.Client
	channel string
}

func NewRedisPublisher(ctx context.Context, conf RedisConfig) (*RedisPublisher, error) {
	//nolint:exhaustruct
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("ping redis at %s: %w", conf.Addr, err)
	}

	return &RedisPublisher{l: conf.L, client: client, channel: conf.Channel}, nil
}

func (p *RedisPublisher) PublishOrderConfirmed(ctx context.Context, order *booking.Order) error {
	data, err := json.Marshal(NewOrderConfirmedEvent(order))
	if err != nil {
		return fmt.Errorf("marshal order confirmed event: %w", err)
	}

	receivers, err := p.client.Publish(ctx, p.channel, data).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}

	p.l.LogInfo("Order %d confirmation published to %s (%d receivers)", order.ID, p.channel, receivers)

	return nil
}

func (p *RedisPublisher) Close() error {
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("close redis client: %w", err)
	}

	return nil
}
