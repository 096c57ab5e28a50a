// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package revision derives human-readable change descriptions for post
// edits. Given the stored post and a partial update payload it reports
// which fields actually changed, in a fixed priority order, so every
// revision-log entry carries a meaningful description.
package revision

import (
	"slices"
	"strings"

	"inkwell/internal/models"
)

// Field labels as they appear in revision descriptions.
const (
	LabelTitle    = "标题"
	LabelContent  = "内容"
	LabelCategory = "分类"
	LabelTags     = "标签"
)

const (
	descriptionPrefix = "文章更新: "

	// fallbackLabel is used when the payload supplied fields but none
	// differed from the stored values (a no-op save). The log never gets
	// an empty description.
	fallbackLabel = "微调整"
)

// Patch is a partial update payload. A nil pointer (or nil Tags slice)
// means the caller did not supply that field; absent fields are never
// considered changed and are left untouched when applied.
type Patch struct {
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	Category *string  `json:"category"`
	Tags     []string `json:"tags"`
}

// IsEmpty reports whether the patch supplies no fields at all.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil && p.Tags == nil
}

// ChangedFields returns the labels of the fields whose supplied value
// differs from the stored post, always ordered title, content, category,
// tags regardless of how the payload was keyed. Tag comparison is
// structural sequence equality, not reference equality.
func ChangedFields(stored *models.Post, p Patch) []string {
	var changed []string
	if p.Title != nil && *p.Title != stored.Title {
		changed = append(changed, LabelTitle)
	}
	if p.Content != nil && *p.Content != stored.Content {
		changed = append(changed, LabelContent)
	}
	if p.Category != nil && *p.Category != stored.Category {
		changed = append(changed, LabelCategory)
	}
	if p.Tags != nil && !slices.Equal(p.Tags, stored.Tags) {
		changed = append(changed, LabelTags)
	}
	return changed
}

// Describe produces the revision-log description for applying p to stored.
// It is total: a payload that changes nothing yields the fallback
// description, never an empty string.
func Describe(stored *models.Post, p Patch) string {
	changed := ChangedFields(stored, p)
	if len(changed) == 0 {
		return descriptionPrefix + fallbackLabel
	}
	return descriptionPrefix + strings.Join(changed, "、")
}

// Apply overlays the patch's present fields onto the post. Fields absent
// from the patch keep their stored values.
func Apply(post *models.Post, p Patch) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Category != nil {
		post.Category = *p.Category
	}
	if p.Tags != nil {
		post.Tags = p.Tags
	}
}
