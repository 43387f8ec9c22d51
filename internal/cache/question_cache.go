package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/quizgate/config"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// QuestionCache keeps the ordered question list of a test. Misses and
// backend errors are indistinguishable to callers: both fall through to
// the database.
type QuestionCache interface {
	Get(ctx context.Context, testID uint) ([]dto.QuestionResponse, bool)
	Set(ctx context.Context, testID uint, questions []dto.QuestionResponse)
	Invalidate(ctx context.Context, testID uint)
}

// NewQuestionCache returns a redis-backed cache when REDIS_ADDR is set and a
// no-op cache otherwise.
func NewQuestionCache(cfg *config.Config) QuestionCache {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, question cache disabled")
		return NoopQuestionCache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return NewRedisQuestionCache(client, cfg.Redis.CacheTTL)
}

type redisQuestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisQuestionCache(client *redis.Client, ttl time.Duration) QuestionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisQuestionCache{client: client, ttl: ttl}
}

func questionsKey(testID uint) string {
	return fmt.Sprintf("quiz:test:%d:questions", testID)
}

func (c *redisQuestionCache) Get(ctx context.Context, testID uint) ([]dto.QuestionResponse, bool) {
	data, err := c.client.Get(ctx, questionsKey(testID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Uint("testID", testID).Msg("Question cache read failed")
		}
		return nil, false
	}
	var questions []dto.QuestionResponse
	if err := json.Unmarshal(data, &questions); err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("Discarding unreadable question cache entry")
		c.Invalidate(ctx, testID)
		return nil, false
	}
	return questions, true
}

func (c *redisQuestionCache) Set(ctx context.Context, testID uint, questions []dto.QuestionResponse) {
	data, err := json.Marshal(questions)
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("Question cache encode failed")
		return
	}
	if err := c.client.Set(ctx, questionsKey(testID), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("Question cache write failed")
	}
}

func (c *redisQuestionCache) Invalidate(ctx context.Context, testID uint) {
	if err := c.client.Del(ctx, questionsKey(testID)).Err(); err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("Question cache invalidation failed")
	}
}

type NoopQuestionCache struct{}

func (NoopQuestionCache) Get(context.Context, uint) ([]dto.QuestionResponse, bool) { return nil, false }
func (NoopQuestionCache) Set(context.Context, uint, []dto.QuestionResponse)       {}
func (NoopQuestionCache) Invalidate(context.Context, uint)                        {}
