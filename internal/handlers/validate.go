package handlers

import (
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/revision"
)

// Validation limits for post fields.
const (
	maxTitleLen   = 300
	maxSummaryLen = 1_000
	maxContentLen = 100_000
	maxTagLen     = 50
)

// validatePostFields checks post field limits and returns the first error
// message found, or "".
func validatePostFields(title, summary, content string, tags []string) string {
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(summary) > maxSummaryLen {
		return "Summary is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return validateTags(tags)
}

// validatePatch checks the supplied fields of a partial update.
func validatePatch(p revision.Patch) string {
	var title, content string
	if p.Title != nil {
		title = *p.Title
	}
	if p.Content != nil {
		content = *p.Content
	}
	return validatePostFields(title, "", content, p.Tags)
}

// validateTags enforces the tag bound and per-tag length.
func validateTags(tags []string) string {
	if len(tags) > models.MaxTags {
		return "Too many tags (max 8)."
	}
	for _, tag := range tags {
		if tag == "" {
			return "Tags must not be empty."
		}
		if utf8.RuneCountInString(tag) > maxTagLen {
			return "Tag is too long (max 50 characters)."
		}
	}
	return ""
}
