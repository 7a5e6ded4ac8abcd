package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"patient-portal/internal/khanza"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisQueueKeyPrefix namespaces the per-clinic, per-day counters.
const RedisQueueKeyPrefix = "queue:counter:"

// incrQueueScript increments the clinic/day counter and pins its expiry in a
// single round trip. ARGV[1] is the unix time the key may be dropped. A missing
// key is seeded from ARGV[2]; an empty ARGV[2] returns -1 so the caller can
// look the seed up first.
var incrQueueScript = redis.NewScript(`
	local seeded = redis.call('EXISTS', KEYS[1]) == 1
	if not seeded then
		if ARGV[2] == '' then
			return -1
		end
		redis.call('SET', KEYS[1], ARGV[2])
	end
	local n = redis.call('INCR', KEYS[1])
	if not seeded then
		redis.call('EXPIREAT', KEYS[1], ARGV[1])
	end
	return n
`)

// QueueGenerator hands out local queue numbers of the form PREFIX-NNN.
type QueueGenerator interface {
	Next(ctx context.Context, clinicSlug string, visitDate time.Time) (string, error)
}

// =============================================================================
// Memory generator
// =============================================================================

// MemoryQueueGenerator keeps one counter per clinic for the lifetime of the
// process. Counters are not shared across instances and reset on restart.
type MemoryQueueGenerator struct {
	clinics  *khanza.ClinicTable
	mu       sync.Mutex
	counters map[string]int
}

func NewMemoryQueueGenerator(clinics *khanza.ClinicTable) *MemoryQueueGenerator {
	return &MemoryQueueGenerator{
		clinics:  clinics,
		counters: make(map[string]int),
	}
}

func (g *MemoryQueueGenerator) Next(_ context.Context, clinicSlug string, _ time.Time) (string, error) {
	g.mu.Lock()
	g.counters[clinicSlug]++
	n := g.counters[clinicSlug]
	g.mu.Unlock()

	return fmt.Sprintf("%s-%03d", g.clinics.Prefix(clinicSlug), n), nil
}

// =============================================================================
// Redis generator
// =============================================================================

// RedisQueueGenerator keeps counters in Redis, scoped by clinic and visit date,
// so numbers survive restarts and are shared by every instance. When a counter
// is missing (evicted, or Redis lost its data) it is seeded from the persisted
// appointments before incrementing. A nil seeder starts missing counters at 0.
type RedisQueueGenerator struct {
	redisClient *redis.Client
	clinics     *khanza.ClinicTable
	seeder      QueueCounterSeeder
	log         *logrus.Logger
}

func NewRedisQueueGenerator(redisClient *redis.Client, clinics *khanza.ClinicTable, seeder QueueCounterSeeder, log *logrus.Logger) *RedisQueueGenerator {
	return &RedisQueueGenerator{
		redisClient: redisClient,
		clinics:     clinics,
		seeder:      seeder,
		log:         log,
	}
}

func (g *RedisQueueGenerator) Next(ctx context.Context, clinicSlug string, visitDate time.Time) (string, error) {
	key := QueueCounterKey(clinicSlug, visitDate)
	expireAt := counterExpiry(visitDate).Unix()

	seed := ""
	if g.seeder == nil {
		seed = "0"
	}
	n, err := incrQueueScript.Run(ctx, g.redisClient, []string{key}, expireAt, seed).Int()
	if err != nil {
		g.log.Warnf("Failed to increment queue counter %s: %+v", key, err)
		return "", fmt.Errorf("incr queue counter %s: %w", key, err)
	}

	if n < 0 {
		highest, err := g.seeder.HighestQueueNumber(ctx, clinicSlug, visitDate)
		if err != nil {
			return "", fmt.Errorf("seed queue counter %s: %w", key, err)
		}
		g.log.Infof("Seeding queue counter %s from %d", key, highest)

		// A concurrent caller may have seeded the key meanwhile; the script
		// then just increments.
		n, err = incrQueueScript.Run(ctx, g.redisClient, []string{key}, expireAt, strconv.Itoa(highest)).Int()
		if err != nil {
			g.log.Warnf("Failed to increment queue counter %s: %+v", key, err)
			return "", fmt.Errorf("incr queue counter %s: %w", key, err)
		}
	}

	g.log.Debugf("Issued local queue number %d for %s", n, key)
	return fmt.Sprintf("%s-%03d", g.clinics.Prefix(clinicSlug), n), nil
}

// QueueCounterKey returns the Redis key of a clinic's counter for one day.
func QueueCounterKey(clinicSlug string, visitDate time.Time) string {
	return fmt.Sprintf("%s%s:%s", RedisQueueKeyPrefix, clinicSlug, visitDate.Format("20060102"))
}

// counterExpiry keeps a counter until the end of the day after the visit.
func counterExpiry(visitDate time.Time) time.Time {
	y, m, d := visitDate.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, visitDate.Location()).AddDate(0, 0, 2)
}

// =============================================================================
// Fallback generator
// =============================================================================

// FallbackQueueGenerator uses primary and, only when enabled, drops to the
// in-memory generator if primary fails.
type FallbackQueueGenerator struct {
	primary  QueueGenerator
	fallback QueueGenerator
	enabled  bool
	log      *logrus.Logger
}

func NewFallbackQueueGenerator(primary, fallback QueueGenerator, enabled bool, log *logrus.Logger) *FallbackQueueGenerator {
	return &FallbackQueueGenerator{
		primary:  primary,
		fallback: fallback,
		enabled:  enabled,
		log:      log,
	}
}

func (g *FallbackQueueGenerator) Next(ctx context.Context, clinicSlug string, visitDate time.Time) (string, error) {
	number, err := g.primary.Next(ctx, clinicSlug, visitDate)
	if err == nil {
		return number, nil
	}
	if !g.enabled || g.fallback == nil {
		return "", err
	}

	g.log.Warnf("Queue counter store unavailable, using in-memory counter for %s: %+v", clinicSlug, err)
	number, fbErr := g.fallback.Next(ctx, clinicSlug, visitDate)
	if fbErr != nil {
		return "", errors.Join(err, fbErr)
	}
	return number, nil
}
