package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"salestat/internal/domain/model"
	"salestat/internal/domain/repository"
)

const latestReportKey = "report:latest"

// RedisRepository implements the ReportCache interface using Redis as the
// backend. It keeps the latest report available across restarts so the API
// can answer before the first refresh cycle completes.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(addr, password string, db int) *RedisRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisRepository{client: client}
}

// Ensure RedisRepository implements the ReportCache interface
var _ repository.ReportCache = (*RedisRepository)(nil)

// SaveReport stores the report under the latest-report key, replacing the
// previous cycle's report.
func (r *RedisRepository) SaveReport(ctx context.Context, report *model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return r.client.Set(ctx, latestReportKey, data, 0).Err()
}

// GetReport retrieves the latest cached report; nil, nil when none is cached.
func (r *RedisRepository) GetReport(ctx context.Context) (*model.Report, error) {
	data, err := r.client.Get(ctx, latestReportKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var report model.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}
