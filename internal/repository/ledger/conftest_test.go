package ledger

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

var errInjected = errors.New("injected store failure")

// memStore is an in-memory implementation of the consumer interface for tests.
type memStore struct {
	vals    map[string]int64
	ttls    map[string]time.Duration
	incrErr error
	mgetErr error
	mgetFn  func(keys []string) ([][]byte, error)
	mgets   int

	// failIncrOn / failExpireOn fail keys containing the substring for the next N calls.
	failIncrOn   string
	failIncrN    int
	failExpireOn string
	failExpireN  int
}

func newMemStore() *memStore {
	return &memStore{vals: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) MGet(_ context.Context, keys []string) ([][]byte, error) {
	m.mgets++
	if m.mgetErr != nil {
		return nil, m.mgetErr
	}
	if m.mgetFn != nil {
		return m.mgetFn(keys)
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if v, ok := m.vals[k]; ok {
			out[i] = []byte(strconv.FormatInt(v, 10))
		}
	}
	return out, nil
}

func (m *memStore) IncrBy(_ context.Context, key string, val int64) error {
	if m.incrErr != nil {
		return m.incrErr
	}
	if m.failIncrN > 0 && strings.Contains(key, m.failIncrOn) {
		m.failIncrN--
		return errInjected
	}
	m.vals[key] += val
	return nil
}

func (m *memStore) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	if m.failExpireN > 0 && strings.Contains(key, m.failExpireOn) {
		m.failExpireN--
		return errInjected
	}
	if _, ok := m.ttls[key]; ok && nx {
		return nil
	}
	m.ttls[key] = ttl
	return nil
}

type stubTotals struct {
	rx, tx int64
	err    error
}

func (s *stubTotals) TotalRxBytes(context.Context) (int64, error) { return s.rx, s.err }
func (s *stubTotals) TotalTxBytes(context.Context) (int64, error) { return s.tx, s.err }

type stubSubscriber struct {
	id  string
	err error
}

func (s stubSubscriber) SubscriberID(context.Context) (string, error) { return s.id, s.err }
