// file: internals/helpers/cache/cache.go
package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"pdpi_backend/internals/configs"
)

// NSStats: namespace cache statistik anggota; di-Bump setiap data anggota berubah.
const NSStats = "stats"

// Cache menyimpan nilai JSON dengan TTL + generation counter per namespace
// (invalidasi massal cukup dengan Bump).
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Generation(ctx context.Context, ns string) (int64, error)
	Bump(ctx context.Context, ns string) error
}

// VersionedKey: ns:g<gen>:key
func VersionedKey(ctx context.Context, c Cache, ns, key string) (string, error) {
	gen, err := c.Generation(ctx, ns)
	if err != nil {
		return "", err
	}
	return ns + ":g" + strconv.FormatInt(gen, 10) + ":" + key, nil
}

/* ===============================
   Redis
=================================*/

type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := sonic.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+key, raw, ttl).Err()
}

func (r *RedisCache) Generation(ctx context.Context, ns string) (int64, error) {
	n, err := r.client.Get(ctx, r.prefix+ns+":gen").Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (r *RedisCache) Bump(ctx context.Context, ns string) error {
	return r.client.Incr(ctx, r.prefix+ns+":gen").Err()
}

/* ===============================
   In-memory (dev / test, tanpa redis)
=================================*/

type memEntry struct {
	raw []byte
	exp time.Time
}

type MemoryCache struct {
	mu   sync.Mutex
	data map[string]memEntry
	gens map[string]int64
	now  func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: map[string]memEntry{},
		gens: map[string]int64{},
		now:  time.Now,
	}
}

func (m *MemoryCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	e, ok := m.data[key]
	if ok && !e.exp.IsZero() && m.now().After(e.exp) {
		delete(m.data, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, sonic.Unmarshal(e.raw, dest)
}

func (m *MemoryCache) SetJSON(_ context.Context, key string, v any, ttl time.Duration) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	var exp time.Time
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.data[key] = memEntry{raw: raw, exp: exp}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Generation(_ context.Context, ns string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[ns], nil
}

func (m *MemoryCache) Bump(_ context.Context, ns string) error {
	m.mu.Lock()
	m.gens[ns]++
	m.mu.Unlock()
	return nil
}

/* ===============================
   ENV
=================================*/

// NewFromEnv: REDIS_ADDR diset → redis (ping dulu), selain itu in-memory.
func NewFromEnv(ctx context.Context, log *zap.Logger) Cache {
	addr := configs.GetEnv("REDIS_ADDR")
	if addr == "" {
		log.Info("REDIS_ADDR kosong, pakai cache in-memory")
		return NewMemoryCache()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: configs.GetEnv("REDIS_PASSWORD"),
		DB:       configs.GetEnvInt("REDIS_DB", 0),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis tidak bisa dihubungi, pakai cache in-memory", zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return NewMemoryCache()
	}
	log.Info("redis cache aktif", zap.String("addr", addr))
	return NewRedisCache(client, configs.GetEnv("REDIS_PREFIX", "pdpi:"))
}
