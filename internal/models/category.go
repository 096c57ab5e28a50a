// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a topical grouping of posts. A post references a category by
// name. Count is derived from the posts table on every read; the categories
// table deliberately carries no counter column, so counts cannot drift.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"-"`

	// Count is populated by CategoryStore.List as the number of posts
	// whose category equals Name at the moment of the read.
	Count int `json:"count"`
}
