// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
)

// addUpdateRequest is the body of POST /api/posts/{id}/updates.
type addUpdateRequest struct {
	Content     string `json:"content"`
	Description string `json:"description"`
}

// UpdateAdd handles POST /api/posts/{id}/updates: appending a standalone
// revision entry with a caller-supplied description. Unlike the implicit
// append during a post update, this write is part of the operation's
// success criterion. The post's updatedAt is refreshed.
func (a *API) UpdateAdd(w http.ResponseWriter, r *http.Request) {
	post, ok := a.fetchPost(w, r)
	if !ok {
		return
	}

	var req addUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: content, description")
		return
	}

	if _, err := a.revisions.Create(post.ID, req.Content, req.Description); err != nil {
		slog.Error("add post update failed", "error", err, "post_id", post.ID)
		writeError(w, http.StatusInternalServerError, "Failed to add post update")
		return
	}

	if err := a.posts.Touch(post.ID); err != nil {
		slog.Error("touch post failed", "error", err, "post_id", post.ID)
	}

	// Return the post with its refreshed timestamp and full revision list.
	refreshed, err := a.posts.FindByID(post.ID)
	if err != nil || refreshed == nil {
		slog.Error("refetch post failed", "error", err, "post_id", post.ID)
		writeError(w, http.StatusInternalServerError, "Failed to fetch post")
		return
	}
	updates, err := a.revisions.ListByPostID(post.ID)
	if err != nil {
		slog.Error("list post updates failed", "error", err, "post_id", post.ID)
	} else {
		refreshed.Updates = updates
	}

	a.invalidateLists(r)
	writeJSON(w, http.StatusCreated, refreshed)
}
