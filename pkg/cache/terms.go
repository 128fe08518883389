package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vezba/fitness-backend/internal/models"
)

const termListTTL = 30 * time.Second

// TermCache fronts the availability listing. enrolled_count changes on every
// booking, so entries are short-lived and invalidated on any term mutation
// for the trainer.
type TermCache interface {
	GetTrainerTerms(ctx context.Context, trainerID uint) ([]models.TrainingTerm, bool)
	SetTrainerTerms(ctx context.Context, trainerID uint, terms []models.TrainingTerm)
	InvalidateTrainer(ctx context.Context, trainerID uint)
}

type redisTermCache struct {
	rdb *redis.Client
}

func NewRedisTermCache(addr string) TermCache {
	return &redisTermCache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func trainerTermsKey(trainerID uint) string {
	return fmt.Sprintf("terms:trainer:%d", trainerID)
}

func (c *redisTermCache) GetTrainerTerms(ctx context.Context, trainerID uint) ([]models.TrainingTerm, bool) {
	raw, err := c.rdb.Get(ctx, trainerTermsKey(trainerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[TermCache] get failed: %v", err)
		}
		return nil, false
	}
	var terms []models.TrainingTerm
	if err := json.Unmarshal(raw, &terms); err != nil {
		log.Printf("[TermCache] unmarshal failed: %v", err)
		return nil, false
	}
	return terms, true
}

func (c *redisTermCache) SetTrainerTerms(ctx context.Context, trainerID uint, terms []models.TrainingTerm) {
	raw, err := json.Marshal(terms)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, trainerTermsKey(trainerID), raw, termListTTL).Err(); err != nil {
		log.Printf("[TermCache] set failed: %v", err)
	}
}

func (c *redisTermCache) InvalidateTrainer(ctx context.Context, trainerID uint) {
	if err := c.rdb.Del(ctx, trainerTermsKey(trainerID)).Err(); err != nil {
		log.Printf("[TermCache] invalidate failed: %v", err)
	}
}

// Noop satisfies TermCache when no Redis is configured (tests, local runs).
type Noop struct{}

func (Noop) GetTrainerTerms(ctx context.Context, trainerID uint) ([]models.TrainingTerm, bool) {
	return nil, false
}
func (Noop) SetTrainerTerms(ctx context.Context, trainerID uint, terms []models.TrainingTerm) {}
func (Noop) InvalidateTrainer(ctx context.Context, trainerID uint)                            {}
