package services

import (
	"context"
	"time"

	"github.com/yakirz/sales-gateway/pkg/pg"
	"github.com/yakirz/sales-gateway/pkg/redis"
)

// HealthService answers the load balancer probe. A failing database or
// redis takes the instance out of rotation.
type HealthService struct {
	db    *pg.DB
	redis redis.RedisAdapter
}

func NewHealthService(db *pg.DB, adapter redis.RedisAdapter) *HealthService {
	return &HealthService{db: db, redis: adapter}
}

func (s *HealthService) Get() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if s.db != nil {
		var one int
		if err := s.db.Read(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
			return err
		}
	}
	if s.redis != nil {
		if err := s.redis.Client().Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
