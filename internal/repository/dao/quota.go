package dao

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	quotaKeyPrefix = "quota:"
	quotaScanCount = 100
)

// QuotaDAO keeps per-user vote counters in Redis. The counters rely on
// the store's native atomics: SETNX for idempotent lazy creation and
// INCR for lost-update-free increments. The quota cap itself is enforced
// by the vote-casting flow, not here.
type QuotaDAO struct {
	rdb *redis.Client
}

func NewQuotaDAO(rdb *redis.Client) *QuotaDAO {
	return &QuotaDAO{
		rdb: rdb,
	}
}

func quotaKey(userID uint) string {
	return fmt.Sprintf("%v%d", quotaKeyPrefix, userID)
}

// GetVotesUsed reads a user's counter, creating it at 0 when absent.
// Concurrent first reads both attempt SETNX; only one write lands and
// both observe the same value.
func (d *QuotaDAO) GetVotesUsed(ctx context.Context, userID uint) (int, error) {
	key := quotaKey(userID)

	if err := d.rdb.SetNX(ctx, key, 0, 0).Err(); err != nil {
		return 0, err
	}

	val, err := d.rdb.Get(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	used, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt quota value %q for user %d -> %w", val, userID, err)
	}

	return used, nil
}

// IncrementVotesUsed atomically bumps the counter and returns the new
// value. A missing key counts up from zero, so increment is safe even
// before the lazy create has run.
func (d *QuotaDAO) IncrementVotesUsed(ctx context.Context, userID uint) (int, error) {
	used, err := d.rdb.Incr(ctx, quotaKey(userID)).Result()
	if err != nil {
		return 0, err
	}

	return int(used), nil
}

// ResetAll zeroes every quota counter and returns the affected user IDs.
// Keys are discovered with SCAN and reset through a pipeline per page, so
// no single round trip grows with the user count. Running it twice is
// harmless: counters are simply set to 0 again.
func (d *QuotaDAO) ResetAll(ctx context.Context) ([]uint, error) {
	var (
		cursor uint64
		users  []uint
	)

	for {
		keys, next, err := d.rdb.Scan(ctx, cursor, quotaKeyPrefix+"*", quotaScanCount).Result()
		if err != nil {
			return users, err
		}

		if len(keys) > 0 {
			pipe := d.rdb.Pipeline()
			for _, key := range keys {
				pipe.Set(ctx, key, 0, 0)
			}
			if _, err = pipe.Exec(ctx); err != nil {
				return users, err
			}

			for _, key := range keys {
				id, err := strconv.ParseUint(key[len(quotaKeyPrefix):], 10, 32)
				if err != nil {
					continue
				}
				users = append(users, uint(id))
			}
		}

		cursor = next
		if cursor == 0 {
			return users, nil
		}
	}
}
