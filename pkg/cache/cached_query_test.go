package cache

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmarkets/jmarkets/pkg/log"
)

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}

// mapCache is an in-memory ICache for tests.
type mapCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]string)}
}

func (m *mapCache) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd := redis.NewStringCmd(ctx)
	if v, ok := m.data[key]; ok {
		cmd.SetVal(v)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (m *mapCache) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd := redis.NewStatusCmd(ctx)
	if s, ok := value.(string); ok {
		m.data[key] = s
		cmd.SetVal("OK")
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (m *mapCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func (m *mapCache) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func (m *mapCache) Expire(ctx context.Context, _ string, _ time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func (m *mapCache) TTL(ctx context.Context, _ string) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Second)
	cmd.SetVal(time.Minute)
	return cmd
}

type record struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

func TestCachedQuery_MissThenHit(t *testing.T) {
	mc := newMapCache()
	var queries int
	cq := NewCachedQuery[*record](mc, func(params ...any) string {
		return "test:" + params[0].(string)
	}, WithTTL[*record](time.Minute))

	query := func(ctx context.Context) (*record, error) {
		queries++
		return &record{Id: "1", Name: "acme"}, nil
	}

	got, err := cq.Get(context.Background(), query, "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", got.Name)
	assert.Equal(t, 1, queries)

	// second read comes from cache
	got, err = cq.Get(context.Background(), query, "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", got.Name)
	assert.Equal(t, 1, queries)
}

func TestCachedQuery_Invalidate(t *testing.T) {
	mc := newMapCache()
	var queries int
	cq := NewCachedQuery[*record](mc, func(params ...any) string {
		return "test:" + params[0].(string)
	})

	query := func(ctx context.Context) (*record, error) {
		queries++
		return &record{Id: "1", Name: "acme"}, nil
	}

	_, err := cq.Get(context.Background(), query, "acme")
	require.NoError(t, err)
	require.NoError(t, cq.Invalidate(context.Background(), "acme"))

	_, err = cq.Get(context.Background(), query, "acme")
	require.NoError(t, err)
	assert.Equal(t, 2, queries)
}

func TestCachedQuery_QueryErrorNotCached(t *testing.T) {
	mc := newMapCache()
	cq := NewCachedQuery[*record](mc, func(params ...any) string {
		return "test:" + params[0].(string)
	})

	wantErr := assert.AnError
	_, err := cq.Get(context.Background(), func(ctx context.Context) (*record, error) {
		return nil, wantErr
	}, "acme")
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, mc.data)
}

func TestCachedQuery_NilCacheAlwaysQueries(t *testing.T) {
	var queries int
	cq := NewCachedQuery[*record](nil, func(params ...any) string {
		return "test"
	})
	for i := 0; i < 3; i++ {
		_, err := cq.Get(context.Background(), func(ctx context.Context) (*record, error) {
			queries++
			return &record{}, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, queries)
}
