// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps a SQLite index of the papers saved in the topic
// store so they can be looked up by keyword without re-reading every topic.
// The JSON files stay the source of truth; the index is rebuilt from them.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/arxiv-agent/internal/topics"
	"github.com/pdiddy/arxiv-agent/pkg/types"
)

// Catalog manages the index database.
type Catalog struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens or creates the index database at path and its schema.
func Open(path string, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	c := &Catalog{db: db, logger: logger}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS topics (
			key TEXT PRIMARY KEY,
			file_mod_time TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			topic TEXT NOT NULL REFERENCES topics(key) ON DELETE CASCADE,
			pos INTEGER NOT NULL,
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			summary TEXT NOT NULL,
			authors TEXT NOT NULL,
			published TEXT NOT NULL,
			pdf_url TEXT NOT NULL,
			primary_category TEXT NOT NULL,
			PRIMARY KEY (topic, pos)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_id ON papers(id)`,
	}
	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SyncSummary holds counts from one Sync run.
type SyncSummary struct {
	Indexed int `json:"indexed" yaml:"indexed"`
	Updated int `json:"updated" yaml:"updated"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Failed  int `json:"failed" yaml:"failed"`
	Removed int `json:"removed" yaml:"removed"`
}

// Total returns the number of topics examined.
func (s SyncSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Sync brings the index in line with a store listing. Topics whose file
// modification time is unchanged are skipped. Topics that cannot be read are
// counted as failed and dropped from the index. Indexed topics missing from
// the listing are removed.
func (c *Catalog) Sync(ctx context.Context, listing topics.Listing) (SyncSummary, error) {
	stored, err := c.storedModTimes(ctx)
	if err != nil {
		return SyncSummary{}, err
	}

	var summary SyncSummary
	present := make(map[string]bool, len(listing.Topics))

	for _, topic := range listing.Topics {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		present[topic.Key] = true

		if topic.Err != nil {
			c.logger.Warn("catalog skipping unreadable topic", zap.String("topic", topic.Key), zap.Error(topic.Err))
			if err := c.removeTopic(ctx, topic.Key); err != nil {
				return summary, err
			}
			summary.Failed++
			continue
		}

		modTime := topic.ModTime.UTC().Format(time.RFC3339Nano)
		previous, known := stored[topic.Key]
		if known && previous == modTime {
			summary.Skipped++
			continue
		}

		papers, err := topic.Papers()
		if err != nil {
			c.logger.Warn("catalog skipping unreadable topic", zap.String("topic", topic.Key), zap.Error(err))
			if err := c.removeTopic(ctx, topic.Key); err != nil {
				return summary, err
			}
			summary.Failed++
			continue
		}

		if err := c.indexTopic(ctx, topic.Key, modTime, papers); err != nil {
			return summary, fmt.Errorf("indexing topic %s: %w", topic.Key, err)
		}
		if known {
			summary.Updated++
		} else {
			summary.Indexed++
		}
	}

	for key := range stored {
		if present[key] {
			continue
		}
		if err := c.removeTopic(ctx, key); err != nil {
			return summary, err
		}
		summary.Removed++
	}

	c.logger.Debug("catalog synced",
		zap.Int("indexed", summary.Indexed),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("removed", summary.Removed))
	return summary, nil
}

func (c *Catalog) storedModTimes(ctx context.Context) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT key, file_mod_time FROM topics`)
	if err != nil {
		return nil, fmt.Errorf("reading indexed topics: %w", err)
	}
	defer rows.Close()

	stored := make(map[string]string)
	for rows.Next() {
		var key, modTime string
		if err := rows.Scan(&key, &modTime); err != nil {
			return nil, fmt.Errorf("scanning indexed topic: %w", err)
		}
		stored[key] = modTime
	}
	return stored, rows.Err()
}

func (c *Catalog) indexTopic(ctx context.Context, key, modTime string, papers []types.Paper) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO topics (key, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		key, modTime)
	if err != nil {
		return fmt.Errorf("upserting topic: %w", err)
	}

	// Saves replace a topic wholesale, so the index does too.
	if _, err := tx.ExecContext(ctx, `DELETE FROM papers WHERE topic = ?`, key); err != nil {
		return fmt.Errorf("deleting old papers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (topic, pos, id, title, summary, authors, published, pdf_url, primary_category)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range papers {
		authorsJSON, err := json.Marshal(p.Authors)
		if err != nil {
			return fmt.Errorf("encoding authors of %s: %w", p.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			key, i, p.ID, p.Title, p.Summary, string(authorsJSON),
			p.Published.String(), p.PDFURL, p.PrimaryCategory)
		if err != nil {
			return fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func (c *Catalog) removeTopic(ctx context.Context, key string) error {
	// papers rows go with the topic through ON DELETE CASCADE.
	if _, err := c.db.ExecContext(ctx, `DELETE FROM topics WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing topic %s: %w", key, err)
	}
	return nil
}

// Hit is one indexed paper matching a lookup.
type Hit struct {
	Topic string      `json:"topic" yaml:"topic"`
	Paper types.Paper `json:"paper" yaml:"paper"`
}

// Search returns up to limit indexed papers whose title, summary, or author
// list contains every whitespace-separated term of query, ignoring case.
// Results are ordered by topic and then by position within the topic.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, fmt.Errorf("query is empty")
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT topic, id, title, summary, authors, published, pdf_url, primary_category
		FROM papers WHERE 1=1`)
	for _, term := range terms {
		pattern := "%" + escapeLike(term) + "%"
		qb.WriteString(` AND (lower(title) LIKE ? ESCAPE '\' OR lower(summary) LIKE ? ESCAPE '\' OR lower(authors) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	qb.WriteString(` ORDER BY topic, pos LIMIT ?`)
	args = append(args, limit)

	rows, err := c.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	hits := []Hit{}
	for rows.Next() {
		var (
			h           Hit
			authorsJSON string
			published   string
		)
		if err := rows.Scan(&h.Topic, &h.Paper.ID, &h.Paper.Title, &h.Paper.Summary,
			&authorsJSON, &published, &h.Paper.PDFURL, &h.Paper.PrimaryCategory); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &h.Paper.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors of %s: %w", h.Paper.ID, err)
		}
		if published != "" {
			d, err := types.ParseDate(published)
			if err != nil {
				return nil, fmt.Errorf("decoding published date of %s: %w", h.Paper.ID, err)
			}
			h.Paper.Published = d
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// escapeLike escapes LIKE wildcards so terms match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
