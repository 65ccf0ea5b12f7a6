// Package kv stores trending signals in an embedded Badger database.
//
// Signals are append-only and only ever read as a time range, which suits an
// ordered key-value log better than a relational table on busy servers.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

// Signal storage key prefix.
// Keys are signal:{unix_nano}:{id} so forward iteration is chronological.
const signalPrefix = "signal:"

// SignalLog is a Badger-backed trending signal log.
type SignalLog struct {
	db        *badger.DB
	retention time.Duration
	logger    *slog.Logger
}

// Open opens or creates a signal log at path. A positive retention expires
// signals after that long; zero keeps them forever.
func Open(path string, retention time.Duration, logger *slog.Logger) (*SignalLog, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Badger signal log opened", "path", path, "retention", retention)
	}

	return &SignalLog{db: db, retention: retention, logger: logger}, nil
}

// Close gracefully closes the database.
func (l *SignalLog) Close() error {
	if l.logger != nil {
		l.logger.Info("Closing signal log")
	}
	return l.db.Close()
}

// signalTimestamp returns a fixed-width string that sorts chronologically.
func signalTimestamp(t time.Time) string {
	return fmt.Sprintf("%019d", t.UnixNano())
}

func signalKey(s domain.TrendingSignal) []byte {
	return []byte(signalPrefix + signalTimestamp(s.RecordedAt) + ":" + s.ID)
}

// RecordSignal appends one signal.
func (l *SignalLog) RecordSignal(ctx context.Context, signal domain.TrendingSignal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if signal.RecordedAt.UnixNano() < 0 {
		return fmt.Errorf("signal %s recorded before the epoch", signal.ID)
	}

	data, err := json.Marshal(signal)
	if err != nil {
		return fmt.Errorf("marshaling signal: %w", err)
	}

	return l.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(signalKey(signal), data)
		if l.retention > 0 {
			entry = entry.WithTTL(l.retention)
		}
		return txn.SetEntry(entry)
	})
}

// TopBooks counts signals recorded at or after since, most signalled first.
// Ties are broken by book ID.
func (l *SignalLog) TopBooks(ctx context.Context, since time.Time, limit int) ([]domain.BookTally, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(signalPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		seekKey := []byte(signalPrefix + signalTimestamp(since))
		for it.Seek(seekKey); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var signal domain.TrendingSignal
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &signal)
			})
			if err != nil {
				if l.logger != nil {
					l.logger.Warn("skipping unreadable signal", "key", string(it.Item().Key()), "error", err)
				}
				continue
			}
			counts[signal.BookID]++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning signals: %w", err)
	}

	tallies := make([]domain.BookTally, 0, len(counts))
	for bookID, n := range counts {
		tallies = append(tallies, domain.BookTally{BookID: bookID, Signals: n})
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Signals != tallies[j].Signals {
			return tallies[i].Signals > tallies[j].Signals
		}
		return tallies[i].BookID < tallies[j].BookID
	})
	if limit > 0 && len(tallies) > limit {
		tallies = tallies[:limit]
	}
	return tallies, nil
}

// Prune deletes signals recorded before cutoff and returns how many were removed.
func (l *SignalLog) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	var keys [][]byte
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // Key-only scan
		opts.Prefix = []byte(signalPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			ts, ok := timestampFromKey(string(key))
			if !ok {
				continue
			}
			if ts >= cutoff.UnixNano() {
				break
			}
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scanning signals: %w", err)
	}

	wb := l.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := wb.Delete(key); err != nil {
			return 0, fmt.Errorf("deleting signal: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flushing prune: %w", err)
	}
	return len(keys), nil
}

// timestampFromKey extracts the unix nano timestamp from signal:{ts}:{id}.
func timestampFromKey(key string) (int64, bool) {
	rest, ok := strings.CutPrefix(key, signalPrefix)
	if !ok {
		return 0, false
	}
	ts, _, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
