package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Publisher receives every encoded frame.
type Publisher interface {
	Publish(ctx context.Context, frame []byte) error
}

// RedisPublisher publishes frames to a redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// ConnectRedis accepts either a redis:// URL or a bare host:port and checks
// the connection with a PING.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	var opt *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("server: redis url: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("server: redis ping %s: %w", opt.Addr, err)
	}
	return client, nil
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, frame []byte) error {
	return p.client.Publish(ctx, p.channel, frame).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
