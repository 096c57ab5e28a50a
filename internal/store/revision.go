// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// updateColumns lists all columns for post_updates SELECTs.
const updateColumns = `id, post_id, content, description, timestamp`

// RevisionStore provides access to the append-only post revision log.
// Entries are inserted and read, never updated; deletion happens only via
// the parent-post cascade.
type RevisionStore struct {
	db *sql.DB
}

// NewRevisionStore creates a new RevisionStore backed by the given database.
func NewRevisionStore(db *sql.DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// scanUpdate scans a single post_updates row into a PostUpdate.
func scanUpdate(scanner interface{ Scan(...any) error }) (*models.PostUpdate, error) {
	var u models.PostUpdate
	err := scanner.Scan(&u.ID, &u.PostID, &u.Content, &u.Description, &u.Timestamp)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create appends a revision entry and returns it with the generated ID
// and timestamp.
func (s *RevisionStore) Create(postID uuid.UUID, content, description string) (*models.PostUpdate, error) {
	row := s.db.QueryRow(`
		INSERT INTO post_updates (post_id, content, description)
		VALUES ($1, $2, $3)
		RETURNING `+updateColumns,
		postID, content, description,
	)
	u, err := scanUpdate(row)
	if err != nil {
		return nil, fmt.Errorf("create post update: %w", err)
	}
	return u, nil
}

// ListByPostID returns all revision entries for a post, newest first.
func (s *RevisionStore) ListByPostID(postID uuid.UUID) ([]models.PostUpdate, error) {
	rows, err := s.db.Query(`
		SELECT `+updateColumns+`
		FROM post_updates
		WHERE post_id = $1
		ORDER BY timestamp DESC, id
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list post updates: %w", err)
	}
	defer rows.Close()

	updates := []models.PostUpdate{}
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post update: %w", err)
		}
		updates = append(updates, *u)
	}
	return updates, rows.Err()
}

// Count returns the number of revision entries for a post.
func (s *RevisionStore) Count(postID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM post_updates WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count post updates: %w", err)
	}
	return count, nil
}
