// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/revision"
)

// postColumns lists all columns for posts SELECTs.
const postColumns = `id, title, summary, content, category, tags, created_at, updated_at`

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// scanPost scans a single posts row into a Post. Tags are stored as JSONB
// because database/sql cannot scan Postgres arrays directly.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var tagsRaw []byte
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Summary, &p.Content, &p.Category,
		&tagsRaw, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tagsRaw, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Updates = []models.PostUpdate{}
	return &p, nil
}

// encodeTags marshals tags for the JSONB column. A nil slice is stored as
// an empty array, never as SQL NULL.
func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

// List returns all posts ordered by creation date descending, without
// their revision entries.
func (s *PostStore) List() ([]models.Post, error) {
	return s.queryPosts(`
		SELECT `+postColumns+`
		FROM posts
		ORDER BY created_at DESC
	`)
}

// ListByCategory returns all posts in the given category, newest first.
func (s *PostStore) ListByCategory(category string) ([]models.Post, error) {
	return s.queryPosts(`
		SELECT `+postColumns+`
		FROM posts
		WHERE category = $1
		ORDER BY created_at DESC
	`, category)
}

// Search returns posts where query occurs case-insensitively as a
// substring of the title, the content, or any tag, optionally restricted
// to a category. Ordering is created_at descending, stable.
func (s *PostStore) Search(query, category string) ([]models.Post, error) {
	pattern := likePattern(query)
	if category != "" {
		return s.queryPosts(`
			SELECT `+postColumns+`
			FROM posts p
			WHERE p.category = $2
			  AND (p.title ILIKE $1 OR p.content ILIKE $1
			       OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(p.tags) AS t(tag) WHERE t.tag ILIKE $1))
			ORDER BY p.created_at DESC
		`, pattern, category)
	}
	return s.queryPosts(`
		SELECT `+postColumns+`
		FROM posts p
		WHERE p.title ILIKE $1 OR p.content ILIKE $1
		   OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(p.tags) AS t(tag) WHERE t.tag ILIKE $1)
		ORDER BY p.created_at DESC
	`, pattern)
}

// likePattern wraps query in % wildcards, escaping LIKE metacharacters so
// the match is a literal substring match.
func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(query) + "%"
}

func (s *PostStore) queryPosts(query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// FindByID retrieves a post by its UUID, without revision entries.
// Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with the generated ID and
// timestamps. created_at and updated_at are both set to the insert time;
// no revision entry is written for the initial creation.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO posts (title, summary, content, category, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+postColumns,
		p.Title, p.Summary, p.Content, p.Category, tags,
	)
	created, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update applies a partial update to a post. The read-modify-write runs in
// a transaction holding a row lock, so concurrent updates of the same post
// serialize instead of silently overwriting each other. Returns the
// updated post and the derived change description, or (nil, "", nil) if
// the post does not exist. The caller is responsible for appending the
// revision entry; that write is deliberately outside this transaction.
func (s *PostStore) Update(id uuid.UUID, patch revision.Patch) (*models.Post, string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, "", fmt.Errorf("update post: begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, id)
	stored, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("update post: fetch: %w", err)
	}

	// Derive the description against the stored values before applying.
	description := revision.Describe(stored, patch)
	revision.Apply(stored, patch)

	tags, err := encodeTags(stored.Tags)
	if err != nil {
		return nil, "", fmt.Errorf("update post: %w", err)
	}

	err = tx.QueryRow(`
		UPDATE posts SET
			title = $1, content = $2, category = $3, tags = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`, stored.Title, stored.Content, stored.Category, tags, id).Scan(&stored.UpdatedAt)
	if err != nil {
		return nil, "", fmt.Errorf("update post: write: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("update post: commit: %w", err)
	}
	return stored, description, nil
}

// Touch refreshes a post's updated_at. Used when a standalone revision
// entry is appended without changing the post's fields.
func (s *PostStore) Touch(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE posts SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch post: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Revision entries go with it via the
// post_updates foreign-key cascade. Returns false if the post did not exist.
func (s *PostStore) Delete(id uuid.UUID) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post: rows affected: %w", err)
	}
	return n > 0, nil
}

// DistinctTags returns the union of all posts' tags, deduplicated.
// Order is not significant.
func (s *PostStore) DistinctTags() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT t.tag
		FROM posts p, jsonb_array_elements_text(p.tags) AS t(tag)
		ORDER BY t.tag
	`)
	if err != nil {
		return nil, fmt.Errorf("distinct tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
