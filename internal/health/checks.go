package health

import (
	"context"
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/quickcart-io/quickcart/internal/config"
	"github.com/quickcart-io/quickcart/pkg/cloudinary"
)

// NewHealthHandler aggregates readiness of the three hard dependencies: the
// database, the Redis instance, and the media store.
func NewHealthHandler(cfg *config.Config, media cloudinary.Client) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "quickcart",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "database",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: postgres.New(postgres.Config{
					DSN: cfg.Database.GetDSN(),
				}),
			},
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: healthRedis.New(
					healthRedis.Config{
						DSN: cfg.RedisConnect.GetDSN(),
					},
				),
			},
			health.Config{
				Name:    "media",
				Timeout: 5 * time.Second,
				// The catalog still serves reads when the media store is down,
				// only intake suffers.
				SkipOnErr: true,
				Check: func(ctx context.Context) error {
					if media == nil {
						return fmt.Errorf("media client is not initialized")
					}

					if err := media.Ping(ctx); err != nil {
						return fmt.Errorf("failed to reach media store: %w", err)
					}

					return nil
				},
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
