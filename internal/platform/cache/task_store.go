package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix is prepended to the task ID to form a cache key.
const KeyPrefix = "task:"

// generationTTL bounds how long a generation counter outlives the last write
// to its task. It only has to exceed the duration of a single read.
const generationTTL = 24 * time.Hour

// fillScript stores an entry only if the task's generation still matches the
// value observed before the database read.
//
// KEYS[1] generation key, KEYS[2] entry key
// ARGV[1] expected generation, ARGV[2] payload, ARGV[3] ttl in milliseconds
var fillScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current == false then
	current = "0"
end
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[2], ARGV[2])
end
return 1
`)

// Stats counts cache outcomes since the store was created.
type Stats struct {
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	Sets          uint64 `json:"sets"`
	SkippedFills  uint64 `json:"skipped_fills"`
	Invalidations uint64 `json:"invalidations"`
	Errors        uint64 `json:"errors"`
}

// TaskStore wraps another store.TaskStore and serves GetByID from Redis when
// possible. Redis failures are logged and the wrapped store answers instead.
//
// Writes never populate the cache. Update and Delete evict the entry and bump
// a per-task generation; a read only fills the cache when the generation it
// saw before querying the wrapped store is still current. IDs whose eviction
// failed bypass the cache until a later eviction succeeds.
type TaskStore struct {
	next   store.TaskStore
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
	stats  Stats

	mu      sync.Mutex
	pending map[int64]struct{}
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a caching decorator around next.
func NewTaskStore(
	next store.TaskStore,
	client redis.UniversalClient,
	ttl time.Duration,
	logger *slog.Logger,
) *TaskStore {
	if next == nil || client == nil {
		panic("next store and redis client are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		next:    next,
		client:  client,
		ttl:     ttl,
		logger:  logger.With(slog.String("component", "task_cache")),
		pending: make(map[int64]struct{}),
	}
}

// Key returns the cache key for a task ID.
func Key(id int64) string {
	return KeyPrefix + strconv.FormatInt(id, 10)
}

// GenerationKey returns the key holding the write generation for a task ID.
func GenerationKey(id int64) string {
	return Key(id) + ":gen"
}

// Stats returns a snapshot of the counters.
func (s *TaskStore) Stats() Stats {
	return Stats{
		Hits:          atomic.LoadUint64(&s.stats.Hits),
		Misses:        atomic.LoadUint64(&s.stats.Misses),
		Sets:          atomic.LoadUint64(&s.stats.Sets),
		SkippedFills:  atomic.LoadUint64(&s.stats.SkippedFills),
		Invalidations: atomic.LoadUint64(&s.stats.Invalidations),
		Errors:        atomic.LoadUint64(&s.stats.Errors),
	}
}

// LogStats writes the counters at info level.
func (s *TaskStore) LogStats() {
	st := s.Stats()
	s.logger.Info("task cache stats",
		slog.Uint64("hits", st.Hits),
		slog.Uint64("misses", st.Misses),
		slog.Uint64("sets", st.Sets),
		slog.Uint64("skipped_fills", st.SkippedFills),
		slog.Uint64("invalidations", st.Invalidations),
		slog.Uint64("errors", st.Errors),
		slog.Int("pending_invalidations", s.pendingCount()))
}

// Create is not cached; a new ID cannot have a stale entry.
func (s *TaskStore) Create(ctx context.Context, title string) (*domain.Task, error) {
	return s.next.Create(ctx, title)
}

// GetByID returns the cached task when present, otherwise loads it from the
// wrapped store and caches it. Not-found results are never cached.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if s.isPending(id) && !s.invalidate(ctx, id) {
		return s.next.GetByID(ctx, id)
	}

	if task, ok := s.lookup(ctx, id); ok {
		return task, nil
	}

	gen, genErr := s.generation(ctx, id)

	task, err := s.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if genErr == nil {
		s.fill(ctx, task, gen)
	}
	return task, nil
}

// List is not cached.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	return s.next.List(ctx)
}

// Update evicts the entry whatever the outcome, since a failed call may
// still have committed.
func (s *TaskStore) Update(
	ctx context.Context,
	id int64,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	task, err := s.next.Update(ctx, id, update)
	s.invalidate(ctx, id)
	return task, err
}

// Delete removes the task and evicts its entry.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	err := s.next.Delete(ctx, id)
	s.invalidate(ctx, id)
	return err
}

func (s *TaskStore) lookup(ctx context.Context, id int64) (*domain.Task, bool) {
	data, err := s.client.Get(ctx, Key(id)).Bytes()
	switch {
	case err == nil:
		var task domain.Task
		jsonErr := json.Unmarshal(data, &task)
		if jsonErr == nil {
			atomic.AddUint64(&s.stats.Hits, 1)
			return &task, true
		}
		s.warn(ctx, "discarding undecodable cache entry", id, jsonErr)
	case errors.Is(err, redis.Nil):
		atomic.AddUint64(&s.stats.Misses, 1)
	default:
		s.warn(ctx, "cache read failed, falling back to database", id, err)
	}
	return nil, false
}

// generation returns the task's current write generation; "0" when none has
// been recorded.
func (s *TaskStore) generation(ctx context.Context, id int64) (string, error) {
	gen, err := s.client.Get(ctx, GenerationKey(id)).Result()
	switch {
	case err == nil:
		return gen, nil
	case errors.Is(err, redis.Nil):
		return "0", nil
	default:
		s.warn(ctx, "cache generation read failed, skipping fill", id, err)
		return "", err
	}
}

func (s *TaskStore) fill(ctx context.Context, task *domain.Task, gen string) {
	data, err := json.Marshal(task)
	if err != nil {
		s.warn(ctx, "cache encode failed", task.ID, err)
		return
	}

	keys := []string{GenerationKey(task.ID), Key(task.ID)}
	stored, err := fillScript.Run(ctx, s.client, keys, gen, data, s.ttl.Milliseconds()).Int()
	if err != nil {
		s.warn(ctx, "cache write failed", task.ID, err)
		return
	}
	if stored == 0 {
		atomic.AddUint64(&s.stats.SkippedFills, 1)
		return
	}
	atomic.AddUint64(&s.stats.Sets, 1)
}

// invalidate evicts the entry and advances the generation so in-flight reads
// cannot write back older data. On failure the ID is marked pending and
// false is returned.
func (s *TaskStore) invalidate(ctx context.Context, id int64) bool {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, Key(id))
		pipe.Incr(ctx, GenerationKey(id))
		pipe.Expire(ctx, GenerationKey(id), generationTTL)
		return nil
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.pending[id] = struct{}{}
		s.warn(ctx, "cache invalidation failed, bypassing cache for task", id, err)
		return false
	}
	delete(s.pending, id)
	atomic.AddUint64(&s.stats.Invalidations, 1)
	return true
}

func (s *TaskStore) isPending(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[id]
	return ok
}

func (s *TaskStore) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *TaskStore) warn(ctx context.Context, msg string, id int64, err error) {
	atomic.AddUint64(&s.stats.Errors, 1)
	logger.FromContextOrDefault(ctx, s.logger).Warn(msg,
		slog.Int64("task_id", id),
		slog.String("error", err.Error()))
}
