package engagement

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	pkgredis "github.com/rwtnews/site/internal/pkg/redis"
)

const redisKeyPrefix = "rwt:likes:"

// RedisStore keeps one set of visitor ids per item.
type RedisStore struct {
	rc *pkgredis.Client
}

func NewRedisStore(rc *pkgredis.Client) *RedisStore {
	return &RedisStore{rc: rc}
}

func redisKey(key Key) string { return redisKeyPrefix + key.String() }

func (s *RedisStore) Get(ctx context.Context, key Key, visitor string) (Counts, error) {
	rdb := s.rc.Raw()
	pipe := rdb.Pipeline()
	card := pipe.SCard(ctx, redisKey(key))
	var member *goredis.BoolCmd
	if visitor != "" {
		member = pipe.SIsMember(ctx, redisKey(key), visitor)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return Counts{}, fmt.Errorf("engagement: read %s: %w", key, err)
	}
	out := Counts{Likes: card.Val()}
	if member != nil {
		out.UserHasLiked = member.Val()
	}
	return out, nil
}

func (s *RedisStore) Toggle(ctx context.Context, key Key, visitor string) (Counts, error) {
	if visitor == "" {
		return s.Get(ctx, key, "")
	}
	rdb := s.rc.Raw()
	rk := redisKey(key)

	added, err := rdb.SAdd(ctx, rk, visitor).Result()
	if err != nil {
		return Counts{}, fmt.Errorf("engagement: toggle %s: %w", key, err)
	}
	liked := added == 1
	if !liked {
		if err := rdb.SRem(ctx, rk, visitor).Err(); err != nil {
			return Counts{}, fmt.Errorf("engagement: toggle %s: %w", key, err)
		}
	}
	n, err := rdb.SCard(ctx, rk).Result()
	if err != nil {
		return Counts{}, fmt.Errorf("engagement: count %s: %w", key, err)
	}
	return Counts{Likes: n, UserHasLiked: liked}, nil
}
