// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the domain types shared by the stores and handlers.
package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxTags is the maximum number of tags a post may carry.
const MaxTags = 8

// Post is a blog article with markdown content, a category, and tags.
// JSON field names follow the public API contract (camelCase).
type Post struct {
	ID        uuid.UUID    `json:"id"`
	Title     string       `json:"title"`
	Summary   string       `json:"summary"`
	Content   string       `json:"content"`
	Category  string       `json:"category"`
	Tags      []string     `json:"tags"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Updates   []PostUpdate `json:"updates"`

	// HTML is the rendered markdown body. Populated only for single-post
	// responses; never stored.
	HTML string `json:"html,omitempty"`
}

// PostUpdate is an immutable revision-log entry recording that a post
// changed. Content is a snapshot of the post's content at the time of the
// revision, not a diff. Entries are removed only by parent-post cascade.
type PostUpdate struct {
	ID          uuid.UUID `json:"id"`
	PostID      uuid.UUID `json:"postId"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}
