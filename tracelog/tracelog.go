// Copyright © 2025 Texelkit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tracelog/tracelog.go
// Summary: SQLite-backed dispatch trace log with asynchronous batched writes.

package tracelog

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/framegrace/texelkit/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS dispatches (
	seq INTEGER PRIMARY KEY,
	ts INTEGER NOT NULL,
	kind TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	consumed INTEGER DEFAULT 0,
	target TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_dispatches_ts ON dispatches(ts);
`

// Config controls where traces go and how they are batched.
type Config struct {
	DBPath        string
	BatchSize     int
	BatchTimeout  time.Duration
	ChannelBuffer int
}

// DefaultConfig returns the standard batching parameters for dbPath.
func DefaultConfig(dbPath string) Config {
	return Config{
		DBPath:        dbPath,
		BatchSize:     100,
		BatchTimeout:  5 * time.Second,
		ChannelBuffer: 1000,
	}
}

// Log persists screen dispatch traces to SQLite. Writes are batched on a
// background goroutine so tracing never stalls the event loop; when the
// buffer fills, traces are dropped rather than block.
type Log struct {
	db        *sql.DB
	mu        sync.RWMutex
	batchChan chan core.DispatchTrace
	stopCh    chan struct{}
	doneCh    chan struct{}
	flushCh   chan chan struct{}
	cfg       Config
}

// Open creates or opens the trace database at dbPath with default batching.
func Open(dbPath string) (*Log, error) {
	return OpenWithConfig(DefaultConfig(dbPath))
}

// OpenWithConfig creates or opens the trace database with explicit
// batching parameters. Zero values fall back to the defaults.
func OpenWithConfig(cfg Config) (*Log, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 5 * time.Second
	}
	if cfg.ChannelBuffer <= 0 {
		cfg.ChannelBuffer = 1000
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create trace directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=cache_size(-8000)&_pragma=temp_store(MEMORY)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach trace database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create trace schema: %w", err)
	}

	l := &Log{
		db:        db,
		batchChan: make(chan core.DispatchTrace, cfg.ChannelBuffer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		flushCh:   make(chan chan struct{}),
		cfg:       cfg,
	}
	go l.batchWriter()
	return l, nil
}

// TraceDispatch enqueues a trace without blocking.
func (l *Log) TraceDispatch(tr core.DispatchTrace) {
	select {
	case l.batchChan <- tr:
	default:
		// Buffer full; dropping beats stalling the event loop.
	}
}

// batchWriter accumulates traces and writes them in transactions, either
// when the batch fills or on a timeout.
func (l *Log) batchWriter() {
	defer close(l.doneCh)
	batch := make([]core.DispatchTrace, 0, l.cfg.BatchSize)
	timer := time.NewTimer(l.cfg.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := l.flushBatch(batch); err != nil {
			log.Printf("[TRACELOG] Failed to flush batch of %d: %v", len(batch), err)
		}
		batch = batch[:0]
	}
	drain := func() {
		for {
			select {
			case tr := <-l.batchChan:
				batch = append(batch, tr)
			default:
				return
			}
		}
	}

	for {
		select {
		case tr := <-l.batchChan:
			batch = append(batch, tr)
			if len(batch) >= l.cfg.BatchSize {
				flush()
				timer.Reset(l.cfg.BatchTimeout)
			}
		case <-timer.C:
			flush()
			timer.Reset(l.cfg.BatchTimeout)
		case done := <-l.flushCh:
			drain()
			flush()
			close(done)
		case <-l.stopCh:
			drain()
			flush()
			return
		}
	}
}

func (l *Log) flushBatch(batch []core.DispatchTrace) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO dispatches (seq, ts, kind, detail, consumed, target) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, tr := range batch {
		consumed := 0
		if tr.Consumed {
			consumed = 1
		}
		if _, err := stmt.Exec(tr.Seq, tr.Time.UnixNano(), tr.Kind, tr.Detail, consumed, tr.Target); err != nil {
			return fmt.Errorf("failed to insert trace %d: %w", tr.Seq, err)
		}
	}
	return tx.Commit()
}

// Flush forces queued traces to disk and waits for the write.
func (l *Log) Flush() {
	done := make(chan struct{})
	select {
	case l.flushCh <- done:
		<-done
	case <-l.doneCh:
	}
}

// Tail returns the most recent traces, newest first.
func (l *Log) Tail(limit int) ([]core.DispatchTrace, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.db.Query(`SELECT seq, ts, kind, detail, consumed, target FROM dispatches ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query traces: %w", err)
	}
	defer rows.Close()

	var out []core.DispatchTrace
	for rows.Next() {
		var tr core.DispatchTrace
		var ts int64
		var consumed int
		if err := rows.Scan(&tr.Seq, &ts, &tr.Kind, &tr.Detail, &consumed, &tr.Target); err != nil {
			return nil, fmt.Errorf("failed to scan trace: %w", err)
		}
		tr.Time = time.Unix(0, ts)
		tr.Consumed = consumed != 0
		out = append(out, tr)
	}
	return out, rows.Err()
}

// CountConsumed reports how many recorded dispatches were consumed by a
// widget or fallback handler.
func (l *Log) CountConsumed() (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var n int64
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM dispatches WHERE consumed != 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count consumed traces: %w", err)
	}
	return n, nil
}

// Close stops the writer, flushes pending traces and closes the database.
func (l *Log) Close() error {
	select {
	case <-l.stopCh:
	default:
		close(l.stopCh)
	}
	<-l.doneCh

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db.Close()
}

// Verify Log satisfies the screen's tracer contract.
var _ core.DispatchTracer = (*Log)(nil)
