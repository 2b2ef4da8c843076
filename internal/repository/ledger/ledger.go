// Package ledger keeps hourly rx/tx byte buckets per subscriber in the KV store
// and answers windowed usage summaries from them.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/netusage/internal/domain/traffic"
)

// DefaultBucketTTL keeps a day of history plus slack for the trailing window.
const DefaultBucketTTL = 48 * time.Hour

const (
	bucketLayout = "2006010215"
	maxBuckets   = 24 * 62
)

// ErrWindowTooLarge is returned when a window spans more buckets than the ledger scans.
var ErrWindowTooLarge = errors.New("window spans too many buckets")

// store is the consumer interface for ledger operations (ISP).
type store interface {
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Ledger stores usage in hourly buckets keyed {prefix}ledger:{subscriber}:{rx|tx}:{YYYYMMDDHH}.
type Ledger struct {
	store  store
	prefix string
	ttl    time.Duration
}

// New creates a Ledger. A non-positive ttl falls back to DefaultBucketTTL.
func New(s store, prefix string, ttl time.Duration) *Ledger {
	if ttl <= 0 {
		ttl = DefaultBucketTTL
	}
	return &Ledger{store: s, prefix: prefix, ttl: ttl}
}

// Direction selects the rx or tx bucket series.
type Direction string

// Bucket directions.
const (
	Rx Direction = "rx"
	Tx Direction = "tx"
)

// Add credits n bytes in one direction to the bucket containing at.
// committed reports whether the increment was stored; it stays true when only
// the follow-up EXPIRE failed, since the bytes are already counted.
func (l *Ledger) Add(
	ctx context.Context, subscriber string, dir Direction, at time.Time, n int64,
) (committed bool, err error) {
	if n <= 0 {
		return true, nil
	}

	key := l.key(subscriber, dir, floorHour(at))
	if err := l.store.IncrBy(ctx, key, n); err != nil {
		return false, fmt.Errorf("ledger INCRBY %s: %w", key, err)
	}
	// NX keeps the first expiry so a bucket is not kept alive by later writes.
	// A missed EXPIRE is retried by the next write to the same bucket.
	if err := l.store.Expire(ctx, key, l.ttl, true); err != nil {
		return true, fmt.Errorf("ledger EXPIRE %s: %w", key, err)
	}
	return true, nil
}

// Summary sums rx and tx over every bucket whose hour starts in [floor_hour(start), end).
// Missing buckets count as zero.
func (l *Ledger) Summary(ctx context.Context, subscriber string, w traffic.Window) (rx, tx int64, err error) {
	hours := bucketHours(w)
	if len(hours) == 0 {
		return 0, 0, nil
	}
	if len(hours) > maxBuckets {
		return 0, 0, ErrWindowTooLarge
	}

	keys := make([]string, 0, 2*len(hours))
	for _, h := range hours {
		keys = append(keys, l.key(subscriber, Rx, h))
	}
	for _, h := range hours {
		keys = append(keys, l.key(subscriber, Tx, h))
	}

	vals, err := l.store.MGet(ctx, keys)
	if err != nil {
		return 0, 0, fmt.Errorf("ledger MGET: %w", err)
	}
	if len(vals) != len(keys) {
		return 0, 0, fmt.Errorf("ledger MGET: got %d values for %d keys", len(vals), len(keys))
	}

	for i, v := range vals {
		if v == nil {
			continue
		}
		n, perr := strconv.ParseInt(string(v), 10, 64)
		if perr != nil {
			return 0, 0, fmt.Errorf("ledger parse %s: %w", keys[i], perr)
		}
		if i < len(hours) {
			rx += n
		} else {
			tx += n
		}
	}
	return rx, tx, nil
}

func (l *Ledger) key(subscriber string, dir Direction, hour time.Time) string {
	return l.prefix + "ledger:" + subscriber + ":" + string(dir) + ":" + hour.Format(bucketLayout)
}

func floorHour(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

func bucketHours(w traffic.Window) []time.Time {
	if !w.End.After(w.Start) {
		return nil
	}
	var hours []time.Time
	for h := floorHour(w.Start); h.Before(w.End); h = h.Add(time.Hour) {
		hours = append(hours, h)
		if len(hours) > maxBuckets {
			break
		}
	}
	return hours
}
