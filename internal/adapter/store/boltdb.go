package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	bucketSummaries = []byte("summaries")
	bucketStats     = []byte("stats")
)

// BoltStore persists document summaries across runs.
type BoltStore struct {
	db  *bbolt.DB
	ttl time.Duration
	now func() time.Time
}

func NewBoltStore(path string, ttl time.Duration) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketSummaries, bucketStats} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

type summaryRecord struct {
	Summary   string `json:"summary"`
	CreatedAt int64  `json:"created_at"`
}

func (s *BoltStore) Get(_ context.Context, key string) (string, bool, error) {
	var rec summaryRecord
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSummaries).Get([]byte(key))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return "", false, err
	}
	if s.ttl > 0 && s.now().Sub(time.Unix(rec.CreatedAt, 0)) > s.ttl {
		return "", false, nil
	}
	return rec.Summary, true, nil
}

func (s *BoltStore) Put(_ context.Context, key, summary string) error {
	data, err := json.Marshal(summaryRecord{Summary: summary, CreatedAt: s.now().Unix()})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSummaries).Put([]byte(key), data)
	})
}

func (s *BoltStore) Len(context.Context) (int, error) {
	n := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketSummaries).Stats().KeyN
		return nil
	})
	return n, err
}

// Prune removes entries older than the TTL and returns how many were removed.
func (s *BoltStore) Prune(context.Context) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.ttl).Unix()
	removed := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSummaries)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var rec summaryRecord
			if err := json.Unmarshal(v, &rec); err != nil || rec.CreatedAt < cutoff {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
