package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"synapse/types"
)

// RedisStore keeps each item as a JSON document under item:{id} with a
// per-owner index set. Filtering, sorting and aggregation happen in-process
// over the owner's documents; single-document writes are atomic, which is
// all the engine requires.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig holds connection settings for the item store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func itemKey(id string) string          { return "item:" + id }
func ownerIndexKey(owner string) string { return "owner:" + owner + ":items" }

func (s *RedisStore) Insert(ctx context.Context, item *types.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode item: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, itemKey(item.ID), data, 0)
	pipe.SAdd(ctx, ownerIndexKey(item.OwnerID), item.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// load fetches an item document and enforces owner scoping. Missing items
// and foreign items both come back as ErrNotFound.
func (s *RedisStore) load(ctx context.Context, id, ownerID string) (*types.Item, error) {
	data, err := s.client.Get(ctx, itemKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	var item types.Item
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	if item.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return &item, nil
}

// save rewrites an item document in place.
func (s *RedisStore) save(ctx context.Context, item *types.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode item: %w", err)
	}
	if err := s.client.Set(ctx, itemKey(item.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// loadOwner fetches all of one owner's items via the index set and a
// pipelined multi-get. IDs whose documents vanished are skipped.
func (s *RedisStore) loadOwner(ctx context.Context, ownerID string) ([]*types.Item, error) {
	ids, err := s.client.SMembers(ctx, ownerIndexKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list owner items: %w", err)
	}
	if len(ids) == 0 {
		return []*types.Item{}, nil
	}
	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, itemKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("fetch owner items: %w", err)
	}
	items := make([]*types.Item, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetch item: %w", err)
		}
		var item types.Item
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		if item.OwnerID != ownerID {
			continue
		}
		items = append(items, &item)
	}
	return items, nil
}

func (s *RedisStore) FindOne(ctx context.Context, id, ownerID string) (*types.Item, error) {
	item, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	item.Embedding = nil
	return item, nil
}

func (s *RedisStore) Find(ctx context.Context, f Filter, sort Sort, limit, skip int) ([]*types.Item, error) {
	items, err := s.loadOwner(ctx, f.OwnerID)
	if err != nil {
		return nil, err
	}
	matched := filterItems(items, f)
	sortItems(matched, sort)
	return projectItems(paginate(matched, limit, skip), f.IncludeEmbedding), nil
}

func (s *RedisStore) Count(ctx context.Context, f Filter) (int, error) {
	items, err := s.loadOwner(ctx, f.OwnerID)
	if err != nil {
		return 0, err
	}
	return len(filterItems(items, f)), nil
}

func (s *RedisStore) Update(ctx context.Context, id, ownerID string, p Patch) (*types.Item, error) {
	item, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	applyPatch(item, p)
	item.UpdatedAt = time.Now()
	if err := s.save(ctx, item); err != nil {
		return nil, err
	}
	out := *item
	out.Embedding = nil
	return &out, nil
}

func (s *RedisStore) Touch(ctx context.Context, id, ownerID string) error {
	item, err := s.load(ctx, id, ownerID)
	if err != nil {
		return err
	}
	item.AccessedAt = time.Now()
	return s.save(ctx, item)
}

func (s *RedisStore) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.load(ctx, id, ownerID); err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, itemKey(id))
	pipe.SRem(ctx, ownerIndexKey(ownerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *RedisStore) DistinctTags(ctx context.Context, ownerID string, f Filter) ([]string, error) {
	items, err := s.loadOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	f.OwnerID = ownerID
	return distinctTags(items, f), nil
}

func (s *RedisStore) CategoryCounts(ctx context.Context, ownerID string, from, to time.Time) ([]CategoryCount, error) {
	items, err := s.loadOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return categoryCounts(filterItems(items, dateWindowFilter(ownerID, from, to))), nil
}

func (s *RedisStore) TagCounts(ctx context.Context, ownerID string, from, to time.Time, limit int) ([]TagCount, error) {
	items, err := s.loadOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return tagCounts(filterItems(items, dateWindowFilter(ownerID, from, to)), limit), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
