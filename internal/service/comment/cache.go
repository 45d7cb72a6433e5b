package comment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/metrics"
)

// treeCache keeps built comment trees in Redis. A nil client disables it.
// Cache failures are logged and otherwise ignored.
//
// Every invalidation bumps a per-post generation. A tree is only stored if
// the generation it was built under is still current, so a build that raced
// with a write never replaces the invalidated entry.
type treeCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func treeKey(postID int64) string {
	return fmt.Sprintf("comments:tree:%d", postID)
}

func generationKey(postID int64) string {
	return fmt.Sprintf("comments:tree:%d:gen", postID)
}

func (c *treeCache) get(ctx context.Context, postID int64) ([]domain.CommentNode, bool) {
	if c.redis == nil {
		return nil, false
	}

	cached, err := c.redis.Get(ctx, treeKey(postID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("read comment tree cache", zap.Int64("post_id", postID), zap.Error(err))
		}
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}

	var nodes []domain.CommentNode
	if err := json.Unmarshal([]byte(cached), &nodes); err != nil {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return nodes, true
}

// generation returns the current generation of the post's tree. ok is false
// when it cannot be read, in which case the built tree must not be stored.
func (c *treeCache) generation(ctx context.Context, postID int64) (gen int64, ok bool) {
	if c.redis == nil {
		return 0, false
	}
	gen, err := readGeneration(ctx, c.redis, postID)
	if err != nil {
		c.logger.Warn("read comment tree generation", zap.Int64("post_id", postID), zap.Error(err))
		return 0, false
	}
	return gen, true
}

func readGeneration(ctx context.Context, cmd redis.Cmdable, postID int64) (int64, error) {
	gen, err := cmd.Get(ctx, generationKey(postID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// set stores nodes unless the tree was invalidated after gen was read.
func (c *treeCache) set(ctx context.Context, postID, gen int64, nodes []domain.CommentNode) {
	if c.redis == nil {
		return
	}

	data, err := json.Marshal(nodes)
	if err != nil {
		return
	}

	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, postID)
		if err != nil {
			return err
		}
		if current != gen {
			metrics.CacheRequests.WithLabelValues("stale").Inc()
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, treeKey(postID), data, c.ttl)
			return nil
		})
		return err
	}, generationKey(postID))

	switch {
	case errors.Is(err, redis.TxFailedErr):
		metrics.CacheRequests.WithLabelValues("stale").Inc()
	case err != nil:
		c.logger.Warn("write comment tree cache", zap.Int64("post_id", postID), zap.Error(err))
	}
}

func (c *treeCache) invalidate(ctx context.Context, postID int64) {
	if c.redis == nil {
		return
	}
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(postID))
		pipe.Del(ctx, treeKey(postID))
		return nil
	})
	if err != nil {
		c.logger.Warn("invalidate comment tree cache", zap.Int64("post_id", postID), zap.Error(err))
	}
}
