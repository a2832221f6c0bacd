package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrNoSnapshot is returned by Load when nothing is stored for a key.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Snapshot is the saved position of a learner. It is only restored onto a
// course with the same number of steps.
type Snapshot struct {
	CurrentStep int       `json:"currentStep"`
	TotalSteps  int       `json:"totalSteps"`
	Timestamp   time.Time `json:"timestamp"`
}

type SnapshotStore interface {
	Save(ctx context.Context, key string, snap Snapshot) error
	Load(ctx context.Context, key string) (Snapshot, error)
}

// MemorySnapshotStore keeps snapshots for the life of the process.
type MemorySnapshotStore struct {
	mu    sync.Mutex
	snaps map[string]Snapshot
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snaps: make(map[string]Snapshot)}
}

func (m *MemorySnapshotStore) Save(_ context.Context, key string, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[key] = snap
	return nil
}

func (m *MemorySnapshotStore) Load(_ context.Context, key string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[key]
	if !ok {
		return Snapshot{}, ErrNoSnapshot
	}
	return snap, nil
}

const redisKeyPrefix = "elearning:progress:"

// RedisSnapshotStore stores snapshots as JSON strings that expire after ttl.
type RedisSnapshotStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisSnapshotStore(ctx context.Context, addr string, ttl time.Duration) (*RedisSnapshotStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisSnapshotStore{rdb: rdb, ttl: ttl}, nil
}

func (r *RedisSnapshotStore) Save(ctx context.Context, key string, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, redisKeyPrefix+key, raw, r.ttl).Err()
}

func (r *RedisSnapshotStore) Load(ctx context.Context, key string) (Snapshot, error) {
	raw, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("redis get: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("error decoding snapshot: %w", err)
	}
	return snap, nil
}

func (r *RedisSnapshotStore) Close() error {
	return r.rdb.Close()
}
