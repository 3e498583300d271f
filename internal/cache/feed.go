// Package cache provides a read-through cache for feed pages and counts.
//
// The cache is a latency optimization, never a correctness dependency:
// every failure path degrades to a miss and the caller falls through to
// the store.
package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/milestoneapp/milestone-server/internal/domain"
)

// FeedCache caches per-user feed pages and counts in badger with a fixed
// TTL.
type FeedCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Open creates a feed cache. An empty path selects badger's in-memory
// mode, which is also what tests use.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*FeedCache, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	return &FeedCache{db: db, ttl: ttl, logger: logger}, nil
}

// Close closes the underlying badger instance.
func (c *FeedCache) Close() error {
	return c.db.Close()
}

func pageKey(userID int64, offset, limit int) []byte {
	return fmt.Appendf(nil, "feed:%d:%d:%d", userID, offset, limit)
}

func countKey(userID int64) []byte {
	return fmt.Appendf(nil, "feed_count:%d", userID)
}

func userPrefix(userID int64) []byte {
	return fmt.Appendf(nil, "feed:%d:", userID)
}

// GetPage returns a cached feed page, or ok=false on any miss or error.
func (c *FeedCache) GetPage(userID int64, offset, limit int) ([]*domain.BeautifulDate, bool) {
	raw, ok := c.get(pageKey(userID, offset, limit))
	if !ok {
		return nil, false
	}

	var rows []*domain.BeautifulDate
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&rows); err != nil {
		c.logger.Debug("cache decode failed, treating as miss", "user_id", userID, "error", err)
		return nil, false
	}
	return rows, true
}

// SetPage caches a feed page. Failures are logged and ignored.
func (c *FeedCache) SetPage(userID int64, offset, limit int, rows []*domain.BeautifulDate) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rows); err != nil {
		c.logger.Debug("cache encode failed, skipping", "user_id", userID, "error", err)
		return
	}
	c.set(pageKey(userID, offset, limit), buf.Bytes())
}

// GetCount returns a cached feed count, or ok=false on any miss or error.
func (c *FeedCache) GetCount(userID int64) (int, bool) {
	raw, ok := c.get(countKey(userID))
	if !ok {
		return 0, false
	}

	var count int
	if _, err := fmt.Sscanf(string(raw), "%d", &count); err != nil {
		c.logger.Debug("cache decode failed, treating as miss", "user_id", userID, "error", err)
		return 0, false
	}
	return count, true
}

// SetCount caches a feed count.
func (c *FeedCache) SetCount(userID int64, count int) {
	c.set(countKey(userID), fmt.Appendf(nil, "%d", count))
}

// InvalidateUser drops the count key and every cached page for the user.
// Called after any write to the user's beautiful dates.
func (c *FeedCache) InvalidateUser(userID int64) {
	err := c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(countKey(userID)); err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = userPrefix(userID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.logger.Debug("cache invalidation failed", "user_id", userID, "error", err)
	}
}

func (c *FeedCache) get(key []byte) ([]byte, bool) {
	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (c *FeedCache) set(key, val []byte) {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, val).WithTTL(c.ttl))
	})
	if err != nil {
		c.logger.Debug("cache write failed", "key", string(key), "error", err)
	}
}
