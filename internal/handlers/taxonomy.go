// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"inkwell/internal/cache"
)

// CategoriesList handles GET /api/categories. Each category's count is
// computed from the posts table at read time; the cache in front of it is
// invalidated on every post mutation.
func (a *API) CategoriesList(w http.ResponseWriter, r *http.Request) {
	if a.lists != nil {
		if body, ok := a.lists.Get(r.Context(), cache.KeyCategories); ok {
			writeRaw(w, http.StatusOK, body)
			return
		}
	}

	categories, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	body, err := json.Marshal(categories)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	if a.lists != nil {
		a.lists.Set(r.Context(), cache.KeyCategories, body)
	}
	writeRaw(w, http.StatusOK, body)
}

// TagsList handles GET /api/tags: the deduplicated union of all posts' tags.
func (a *API) TagsList(w http.ResponseWriter, r *http.Request) {
	if a.lists != nil {
		if body, ok := a.lists.Get(r.Context(), cache.KeyTags); ok {
			writeRaw(w, http.StatusOK, body)
			return
		}
	}

	tags, err := a.posts.DistinctTags()
	if err != nil {
		slog.Error("list tags failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch tags")
		return
	}

	body, err := json.Marshal(tags)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch tags")
		return
	}
	if a.lists != nil {
		a.lists.Set(r.Context(), cache.KeyTags, body)
	}
	writeRaw(w, http.StatusOK, body)
}
