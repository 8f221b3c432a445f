package catblog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/catblog/content"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("catblog: not found")

const postColumns = `slug, title, date, description, category, excerpt, html, source`

// Store is the SQLite content index the pages query. It is rebuilt from
// the content directory on every sync.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed while a sync rewrites the index; busy_timeout
	// makes the second writer wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    description TEXT NOT NULL,
    category TEXT,
    excerpt TEXT NOT NULL,
    html TEXT NOT NULL,
    source TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_date ON posts (date DESC, slug);
`)
	return err
}

// ReplaceAll swaps the whole index for posts in one transaction.
// Posts without a category are stored with a NULL category.
func (s *Store) ReplaceAll(ctx context.Context, posts []content.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range posts {
		var category sql.NullString
		if p.Category != "" {
			category = sql.NullString{String: p.Category, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, p.Slug, p.Title, p.Date.UTC().Format(time.RFC3339),
			p.Description, category, p.Excerpt, p.HTML, p.Source); err != nil {
			return fmt.Errorf("insert %s: %w", p.Slug, err)
		}
	}
	return tx.Commit()
}

// ListPosts returns the categorized posts ordered by date descending.
func (s *Store) ListPosts(ctx context.Context) ([]content.Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE category IS NOT NULL AND category != '' ORDER BY date DESC, slug ASC`)
}

// ListAllPosts returns every post, with or without a category, ordered by
// date descending.
func (s *Store) ListAllPosts(ctx context.Context) ([]content.Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts ORDER BY date DESC, slug ASC`)
}

// ListCategories returns the distinct non-empty categories in ascending order.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM posts WHERE category IS NOT NULL AND category != '' ORDER BY category ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// GetPost returns a single post by slug.
func (s *Store) GetPost(ctx context.Context, slug string) (content.Post, error) {
	posts, err := s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	if err != nil {
		return content.Post{}, err
	}
	if len(posts) == 0 {
		return content.Post{}, ErrNotFound
	}
	return posts[0], nil
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]content.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []content.Post
	for rows.Next() {
		var p content.Post
		var date string
		var category sql.NullString
		if err := rows.Scan(&p.Slug, &p.Title, &date, &p.Description, &category, &p.Excerpt, &p.HTML, &p.Source); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("post %s: bad date %q: %w", p.Slug, date, err)
		}
		p.Date = t
		p.Category = category.String
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
