package feedback

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"soylem/internal/logging"
)

// Store persists construction feedback stats in SQLite and keeps a
// memory cache for the selector's hot path.
type Store struct {
	db     *sql.DB
	dbPath string

	mu    sync.RWMutex
	stats map[string]*ConstructionStats
}

// NewStore creates or opens a feedback store under dir. An empty dir
// opens an in-memory database, used in tests.
func NewStore(dir string) (*Store, error) {
	dsn := ":memory:"
	dbPath := ""
	if dir != "" {
		dbPath = filepath.Join(dir, "feedback.db")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
		stats:  map[string]*ConstructionStats{},
	}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := store.load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS construction_stats (
		construction_id TEXT PRIMARY KEY,
		total_uses INTEGER NOT NULL DEFAULT 0,
		explicit_pos INTEGER NOT NULL DEFAULT 0,
		explicit_neg INTEGER NOT NULL DEFAULT 0,
		implicit_pos INTEGER NOT NULL DEFAULT 0,
		implicit_neg INTEGER NOT NULL DEFAULT 0,
		cached_score REAL NOT NULL DEFAULT 0.5,
		last_updated DATETIME
	);
	CREATE INDEX IF NOT EXISTS idx_stats_score ON construction_stats(cached_score);
	CREATE INDEX IF NOT EXISTS idx_stats_uses ON construction_stats(total_uses);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) load() error {
	rows, err := s.db.Query(`
		SELECT construction_id, total_uses, explicit_pos, explicit_neg,
		       implicit_pos, implicit_neg, cached_score, last_updated
		FROM construction_stats`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		stats := &ConstructionStats{}
		var lastUpdated sql.NullTime
		if err := rows.Scan(
			&stats.ConstructionID, &stats.TotalUses,
			&stats.ExplicitPos, &stats.ExplicitNeg,
			&stats.ImplicitPos, &stats.ImplicitNeg,
			&stats.CachedScore, &lastUpdated,
		); err != nil {
			return err
		}
		if lastUpdated.Valid {
			stats.LastUpdated = lastUpdated.Time
		}
		s.stats[stats.ConstructionID] = stats
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(s.stats) > 0 {
		logging.FeedbackDebug("loaded %d construction stats", len(s.stats))
	}
	return nil
}

func (s *Store) persist(stats *ConstructionStats) error {
	_, err := s.db.Exec(`
		INSERT INTO construction_stats
			(construction_id, total_uses, explicit_pos, explicit_neg,
			 implicit_pos, implicit_neg, cached_score, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(construction_id) DO UPDATE SET
			total_uses = excluded.total_uses,
			explicit_pos = excluded.explicit_pos,
			explicit_neg = excluded.explicit_neg,
			implicit_pos = excluded.implicit_pos,
			implicit_neg = excluded.implicit_neg,
			cached_score = excluded.cached_score,
			last_updated = excluded.last_updated`,
		stats.ConstructionID, stats.TotalUses,
		stats.ExplicitPos, stats.ExplicitNeg,
		stats.ImplicitPos, stats.ImplicitNeg,
		stats.CachedScore, stats.LastUpdated,
	)
	return err
}

// Get returns the stats for one construction, or nil when none exist.
func (s *Store) Get(constructionID string) *ConstructionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[constructionID]
	if !ok {
		return nil
	}
	clone := *stats
	return &clone
}

// Update stores the given stats, refreshing the cached score.
func (s *Store) Update(stats *ConstructionStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wins, losses := WinsLosses(stats)
	stats.CachedScore = Mean(wins, losses)
	stats.LastUpdated = time.Now()

	clone := *stats
	s.stats[stats.ConstructionID] = &clone
	return s.persist(&clone)
}

// RecordUse bumps the usage counter for a construction.
func (s *Store) RecordUse(constructionID string) error {
	return s.mutate(constructionID, func(stats *ConstructionStats) {
		stats.TotalUses++
	})
}

// RecordExplicit registers a /good or /bad on a construction.
func (s *Store) RecordExplicit(constructionID string, positive bool) error {
	return s.mutate(constructionID, func(stats *ConstructionStats) {
		if positive {
			stats.ExplicitPos++
		} else {
			stats.ExplicitNeg++
		}
	})
}

// RecordImplicit registers a behavioral signal on a construction.
func (s *Store) RecordImplicit(constructionID string, positive bool) error {
	return s.mutate(constructionID, func(stats *ConstructionStats) {
		if positive {
			stats.ImplicitPos++
		} else {
			stats.ImplicitNeg++
		}
	})
}

func (s *Store) mutate(constructionID string, apply func(*ConstructionStats)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, ok := s.stats[constructionID]
	if !ok {
		stats = NewConstructionStats(constructionID)
		s.stats[constructionID] = stats
	}
	apply(stats)

	wins, losses := WinsLosses(stats)
	stats.CachedScore = Mean(wins, losses)
	stats.LastUpdated = time.Now()
	return s.persist(stats)
}

// All returns a copy of every stored stats entry.
func (s *Store) All() map[string]*ConstructionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*ConstructionStats, len(s.stats))
	for id, stats := range s.stats {
		clone := *stats
		out[id] = &clone
	}
	return out
}

// Count returns how many constructions have stats.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stats)
}

// Clear wipes all stats.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = map[string]*ConstructionStats{}
	_, err := s.db.Exec(`DELETE FROM construction_stats`)
	return err
}

// TopRated returns up to n stats entries by cached score, best first.
func (s *Store) TopRated(n int) []*ConstructionStats {
	return s.sorted(n, func(a, b *ConstructionStats) bool {
		return a.CachedScore > b.CachedScore
	})
}

// MostUsed returns up to n stats entries by usage, most used first.
func (s *Store) MostUsed(n int) []*ConstructionStats {
	return s.sorted(n, func(a, b *ConstructionStats) bool {
		return a.TotalUses > b.TotalUses
	})
}

func (s *Store) sorted(n int, less func(a, b *ConstructionStats) bool) []*ConstructionStats {
	s.mu.RLock()
	out := make([]*ConstructionStats, 0, len(s.stats))
	for _, stats := range s.stats {
		clone := *stats
		out = append(out, &clone)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// FinalScore implements the selector's rerank hook: it applies the
// feedback adjustment to a base score. ok is false when the
// construction has no recorded stats.
func (s *Store) FinalScore(constructionID string, base float64) (float64, map[string]interface{}, bool) {
	stats := s.Get(constructionID)
	if stats == nil {
		return 0, nil, false
	}
	final, metadata := FinalScore(base, stats)
	return final, metadata, true
}
