package dedupstore

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig names the connection parameters and the three logical keys
// (doc:hashes, para:hashes, para:simhash) spec.md §4.1 calls for.
type RedisConfig struct {
	Host       string
	Port       int
	DB         int
	Password   string
	DocKey     string
	ParaKey    string
	SimhashKey string
}

// RedisStore is the "networked" backend: SADD/SISMEMBER/SCARD for the two
// fingerprint sets, HSET/HGETALL/HLEN for the sim-hash map.
type RedisStore struct {
	client *redis.Client
	cfg    RedisConfig
	log    *slog.Logger
}

// NewRedisStore connects to Redis and pings it. On failure it returns a
// MemoryStore instead, per spec.md §4.1's degrade-on-connect-failure
// policy, along with false to signal the caller that it got the fallback.
func NewRedisStore(ctx context.Context, cfg RedisConfig, log *slog.Logger) (Store, bool) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DB:           cfg.DB,
		Password:     cfg.Password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if log != nil {
			log.Error("dedupstore: redis connect failed, falling back to memory", "error", err, "host", cfg.Host, "port", cfg.Port)
		}
		client.Close()
		return NewMemoryStore(log), false
	}

	if log != nil {
		log.Info("dedupstore: connected to redis", "host", cfg.Host, "port", cfg.Port, "db", cfg.DB)
	}
	return &RedisStore{client: client, cfg: cfg, log: log}, true
}

func (s *RedisStore) IsDocSeen(ctx context.Context, docHash string) bool {
	ok, err := s.client.SIsMember(ctx, s.cfg.DocKey, docHash).Result()
	if err != nil {
		s.logErr("is_doc_seen", err)
		return false
	}
	return ok
}

func (s *RedisStore) MarkDoc(ctx context.Context, docHash string) {
	if err := s.client.SAdd(ctx, s.cfg.DocKey, docHash).Err(); err != nil {
		s.logErr("mark_doc", err)
	}
}

func (s *RedisStore) IsParaSeen(ctx context.Context, paraHash string) bool {
	ok, err := s.client.SIsMember(ctx, s.cfg.ParaKey, paraHash).Result()
	if err != nil {
		s.logErr("is_para_seen", err)
		return false
	}
	return ok
}

// MarkPara issues SADD then HSET. The two are not atomic on this client;
// per spec.md §5, the set membership (SADD) is the source of truth and
// the sim-hash hash is advisory, so a failure of the second call is
// logged but never unwinds the first.
func (s *RedisStore) MarkPara(ctx context.Context, paraHash string, simhash uint64) {
	if err := s.client.SAdd(ctx, s.cfg.ParaKey, paraHash).Err(); err != nil {
		s.logErr("mark_para.sadd", err)
		return
	}
	if err := s.client.HSet(ctx, s.cfg.SimhashKey, paraHash, strconv.FormatUint(simhash, 10)).Err(); err != nil {
		s.logErr("mark_para.hset", err)
	}
}

func (s *RedisStore) AllParaSimhashes(ctx context.Context) map[string]uint64 {
	raw, err := s.client.HGetAll(ctx, s.cfg.SimhashKey).Result()
	if err != nil {
		s.logErr("get_all_para_simhash", err)
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			continue
		}
		out[k] = n
	}
	return out
}

func (s *RedisStore) Stats(ctx context.Context) Stats {
	docCount, err := s.client.SCard(ctx, s.cfg.DocKey).Result()
	if err != nil {
		s.logErr("stats.doc", err)
	}
	paraCount, err := s.client.SCard(ctx, s.cfg.ParaKey).Result()
	if err != nil {
		s.logErr("stats.para", err)
	}
	simhashCount, err := s.client.HLen(ctx, s.cfg.SimhashKey).Result()
	if err != nil {
		s.logErr("stats.simhash", err)
	}
	return Stats{
		DocCount:     int(docCount),
		ParaCount:    int(paraCount),
		SimhashCount: int(simhashCount),
	}
}

func (s *RedisStore) ClearAll(ctx context.Context) {
	if err := s.client.Del(ctx, s.cfg.DocKey, s.cfg.ParaKey, s.cfg.SimhashKey).Err(); err != nil {
		s.logErr("clear_all", err)
		return
	}
	if s.log != nil {
		s.log.Warn("dedupstore: cleared all redis dedup data")
	}
}

func (s *RedisStore) logErr(op string, err error) {
	if s.log != nil {
		s.log.Error("dedupstore: redis operation failed, treating as no-op", "op", op, "error", err)
	}
}
