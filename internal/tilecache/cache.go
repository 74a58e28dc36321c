// Package tilecache provides a content-addressed SQLite cache for DTM
// and satellite tile fetches, so repeated runs over the same bounding box
// don't re-hit external providers.
package tilecache

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	_ "modernc.org/sqlite"
)

// Cache stores arbitrary byte blobs (raw DTM elevation grids, satellite
// tile PNGs) keyed by a caller-chosen namespace plus a content key,
// gzip-compressed on disk.
type Cache struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens a cache database at path, initializing its schema
// if needed.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening tile cache %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 50000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			namespace TEXT NOT NULL,
			content_key TEXT NOT NULL,
			data BLOB NOT NULL,
			PRIMARY KEY (namespace, content_key)
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tile cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Key hashes arbitrary parameters (a bounding box, a zoom level) into a
// stable content key for Get/Put.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		io.WriteString(h, p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached blob for (namespace, key), and false if absent.
func (c *Cache) Get(namespace, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var compressed []byte
	err := c.db.QueryRow(
		"SELECT data FROM entries WHERE namespace = ? AND content_key = ?",
		namespace, key,
	).Scan(&compressed)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading tile cache entry: %w", err)
	}

	data, err := gunzip(compressed)
	if err != nil {
		return nil, false, fmt.Errorf("decompressing tile cache entry: %w", err)
	}
	return data, true, nil
}

// Put stores a blob under (namespace, key), overwriting any prior entry.
func (c *Cache) Put(namespace, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	compressed, err := gzipCompress(data)
	if err != nil {
		return fmt.Errorf("compressing tile cache entry: %w", err)
	}

	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO entries (namespace, content_key, data) VALUES (?, ?, ?)",
		namespace, key, compressed,
	)
	if err != nil {
		return fmt.Errorf("writing tile cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		gw.Close()
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gunzip(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return io.ReadAll(gr)
}
