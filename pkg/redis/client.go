package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/environments"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/logger"
)

type Client struct {
	client valkey.Client
}

const (
	instanceStateKeyPrefix = "instance_state:"
	instanceStateTTL       = 30 * time.Second
)

func NewRedisClient(cfg environments.RedisConfig) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Connected to Redis (via Valkey client)")

	return &Client{client: client}, nil
}

// CacheInstanceStatus stores the gateway connection state for a short TTL so
// dashboard polling does not hit the gateway on every request.
func (c *Client) CacheInstanceStatus(ctx context.Context, instanceID int64, status *domain.InstanceStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal instance status: %w", err)
	}

	key := fmt.Sprintf("%s%d", instanceStateKeyPrefix, instanceID)

	err = c.client.Do(ctx, c.client.B().Set().Key(key).Value(string(data)).Ex(instanceStateTTL).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to cache instance status: %w", err)
	}

	logger.Debugf("Cached connection state for instance %d (%s)", instanceID, status.State)

	return nil
}

// GetInstanceStatus returns the cached connection state, or nil on a miss.
func (c *Client) GetInstanceStatus(ctx context.Context, instanceID int64) (*domain.InstanceStatus, error) {
	key := fmt.Sprintf("%s%d", instanceStateKeyPrefix, instanceID)

	result := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if result.Error() != nil {
		if valkey.IsValkeyNil(result.Error()) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached instance status: %w", result.Error())
	}

	data, err := result.ToString()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached instance status: %w", err)
	}

	var status domain.InstanceStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instance status: %w", err)
	}

	return &status, nil
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}
