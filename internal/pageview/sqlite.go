package pageview

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jkirker/Page-Exec-Timer/internal/querytrack"
)

// SQLiteStore keeps page views in a single-file SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (or creates) the view database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS page_views (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		page TEXT NOT NULL,
		request_id TEXT,
		status INTEGER NOT NULL DEFAULT 200,
		elapsed_ms REAL NOT NULL,
		queries INTEGER NOT NULL,
		peak_bytes INTEGER NOT NULL,
		load1 REAL,
		taken INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_page ON page_views(page);
	CREATE INDEX IF NOT EXISTS idx_taken ON page_views(taken);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordView persists one page load. The write itself counts toward the
// request's query total, so a stored page reports at least one query.
func (s *SQLiteStore) RecordView(ctx context.Context, v View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := v.Taken
	if taken.IsZero() {
		taken = time.Now()
	}

	var load1 sql.NullFloat64
	if v.LoadOK {
		load1 = sql.NullFloat64{Float64: v.Load1, Valid: true}
	}

	status := v.Status
	if status == 0 {
		status = 200
	}

	querytrack.Add(ctx, 1)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO page_views (page, request_id, status, elapsed_ms, queries, peak_bytes, load1, taken) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		v.Page, v.RequestID, status, v.ElapsedMS, v.Queries, int64(v.PeakMemoryBytes), load1, taken.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert page view: %w", err)
	}

	return nil
}

// TotalViews returns the number of recorded views.
func (s *SQLiteStore) TotalViews(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	querytrack.Add(ctx, 1)
	var total int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM page_views").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count page views: %w", err)
	}
	return total, nil
}

// PageViews returns the view count for a single page.
func (s *SQLiteStore) PageViews(ctx context.Context, page string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	querytrack.Add(ctx, 1)
	var total int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM page_views WHERE page = ?", page,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count views for page: %w", err)
	}
	return total, nil
}

// TopPages returns the most viewed pages, busiest first.
func (s *SQLiteStore) TopPages(ctx context.Context, limit int) ([]PageCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	querytrack.Add(ctx, 1)
	rows, err := s.db.QueryContext(ctx,
		"SELECT page, COUNT(*) AS views FROM page_views GROUP BY page ORDER BY views DESC, page LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top pages: %w", err)
	}
	defer rows.Close()

	var counts []PageCount
	for rows.Next() {
		var pc PageCount
		if err := rows.Scan(&pc.Page, &pc.Views); err != nil {
			return nil, fmt.Errorf("scan page count: %w", err)
		}
		counts = append(counts, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return counts, nil
}

// PurgeOlderThan deletes views taken before the cutoff.
func (s *SQLiteStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	querytrack.Add(ctx, 1)
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM page_views WHERE taken < ?", cutoff.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("purge page views: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count purged rows: %w", err)
	}
	return deleted, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
