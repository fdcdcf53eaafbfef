package explain

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kaido-cli/kaido/internal/tools"
)

// Cache is a durable SQLite-backed store of LLM-derived explanations,
// keyed by (error_type, normalized message), with hit counting and
// retention-based eviction. Grounded on
// original_source/src/mentor/cache.rs's cache-key normalization and
// retention-sweep pattern, reused here for the error-explanation cache.
type Cache struct {
	db *sql.DB
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS explanation_cache (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	error_type TEXT NOT NULL,
	cache_key TEXT NOT NULL UNIQUE,
	explanation_json TEXT NOT NULL,
	hit_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_explanation_cache_created_at ON explanation_cache(created_at);
`

// OpenCache opens (creating if necessary) the cache database at path and
// sweeps entries older than retentionDays.
func OpenCache(path string, retentionDays int) (*Cache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open explanation cache: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init explanation cache schema: %w", err)
	}

	c := &Cache{db: db}
	if err := c.sweep(retentionDays); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cache) Close() error { return c.db.Close() }

func (c *Cache) sweep(retentionDays int) error {
	cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour).Unix()
	_, err := c.db.Exec(`DELETE FROM explanation_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to sweep explanation cache: %w", err)
	}
	return nil
}

// normalize lower-cases and strips everything but alphanumerics and
// whitespace, matching original_source/src/mentor/cache.rs's key
// normalization rule.
var nonAlphaNumWS = regexp.MustCompile(`[^a-z0-9\s]`)

func normalize(message string) string {
	lower := strings.ToLower(message)
	stripped := nonAlphaNumWS.ReplaceAllString(lower, "")
	return strings.Join(strings.Fields(stripped), " ")
}

func cacheKey(errorType, message string) string {
	return errorType + "|" + normalize(message)
}

// Get looks up a cached explanation and increments its hit counter.
func (c *Cache) Get(errorType, message string) (tools.ErrorExplanation, bool) {
	key := cacheKey(errorType, message)

	var raw string
	err := c.db.QueryRow(`SELECT explanation_json FROM explanation_cache WHERE cache_key = ?`, key).Scan(&raw)
	if err != nil {
		return tools.ErrorExplanation{}, false
	}

	var explanation tools.ErrorExplanation
	if err := json.Unmarshal([]byte(raw), &explanation); err != nil {
		return tools.ErrorExplanation{}, false
	}

	_, _ = c.db.Exec(`UPDATE explanation_cache SET hit_count = hit_count + 1 WHERE cache_key = ?`, key)
	return explanation, true
}

// Put stores an explanation under its normalized cache key, replacing any
// existing entry for the same key.
func (c *Cache) Put(errorType, message string, explanation tools.ErrorExplanation) error {
	raw, err := json.Marshal(explanation)
	if err != nil {
		return fmt.Errorf("failed to marshal explanation: %w", err)
	}

	key := cacheKey(errorType, message)
	_, err = c.db.Exec(`
		INSERT INTO explanation_cache (error_type, cache_key, explanation_json, hit_count, created_at)
		VALUES (?, ?, ?, 0, ?)
		ON CONFLICT(cache_key) DO UPDATE SET explanation_json = excluded.explanation_json`,
		errorType, key, string(raw), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write explanation cache: %w", err)
	}
	return nil
}
