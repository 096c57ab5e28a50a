// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/markdown"
	"inkwell/internal/models"
	"inkwell/internal/revision"
)

// createPostRequest is the body of POST /api/posts.
type createPostRequest struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// PostsList handles GET /api/posts. With ?q= it searches, with ?category=
// it filters, otherwise it returns all posts newest first. Only the
// unfiltered list is cached.
func (a *API) PostsList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	cacheable := query == "" && category == "" && a.lists != nil
	if cacheable {
		if body, ok := a.lists.Get(r.Context(), cache.KeyPosts); ok {
			writeRaw(w, http.StatusOK, body)
			return
		}
	}

	var (
		posts []models.Post
		err   error
	)
	switch {
	case query != "":
		posts, err = a.posts.Search(query, category)
	case category != "":
		posts, err = a.posts.ListByCategory(category)
	default:
		posts, err = a.posts.List()
	}
	if err != nil {
		slog.Error("list posts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	body, err := json.Marshal(posts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	if cacheable {
		a.lists.Set(r.Context(), cache.KeyPosts, body)
	}
	writeRaw(w, http.StatusOK, body)
}

// PostGet handles GET /api/posts/{id}. The response includes the post's
// revision entries, newest first, and the rendered HTML of its markdown.
func (a *API) PostGet(w http.ResponseWriter, r *http.Request) {
	post, ok := a.fetchPost(w, r)
	if !ok {
		return
	}

	updates, err := a.revisions.ListByPostID(post.ID)
	if err != nil {
		slog.Error("list post updates failed", "error", err, "post_id", post.ID)
		writeError(w, http.StatusInternalServerError, "Failed to fetch post")
		return
	}
	post.Updates = updates

	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		// Rendering is auxiliary: serve the post without HTML.
		slog.Warn("markdown render failed", "error", err, "post_id", post.ID)
	} else {
		post.HTML = html
	}

	writeJSON(w, http.StatusOK, post)
}

// PostCreate handles POST /api/posts. Title, summary, content, and
// category are required; tags are optional. The new post starts with an
// empty revision log — creation itself is not a revision.
func (a *API) PostCreate(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Title == "" || req.Summary == "" || req.Content == "" || req.Category == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: title, summary, content, category")
		return
	}
	if msg := validatePostFields(req.Title, req.Summary, req.Content, req.Tags); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.posts.Create(&models.Post{
		Title:    req.Title,
		Summary:  req.Summary,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		slog.Error("create post failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	a.invalidateLists(r)
	writeJSON(w, http.StatusCreated, created)
}

// PostUpdate handles PUT /api/posts/{id}. The payload is a partial update
// over {title, content, category, tags}; absent fields stay untouched. A
// revision entry describing the change is appended best-effort: its
// failure is logged but never fails the request.
func (a *API) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	var patch revision.Patch
	if !decodeJSON(w, r, &patch) {
		return
	}
	normalizePatch(&patch)

	if msg := validatePatch(patch); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	post, description, err := a.posts.Update(id, patch)
	if err != nil {
		slog.Error("update post failed", "error", err, "post_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	// The revision log is auxiliary to the primary mutation: the update
	// has already succeeded, so an append failure is only logged.
	if _, err := a.revisions.Create(post.ID, post.Content, description); err != nil {
		slog.Error("revision append failed", "error", err, "post_id", post.ID)
	}

	updates, err := a.revisions.ListByPostID(post.ID)
	if err != nil {
		slog.Error("list post updates failed", "error", err, "post_id", post.ID)
	} else {
		post.Updates = updates
	}

	a.invalidateLists(r)
	writeJSON(w, http.StatusOK, post)
}

// PostDelete handles DELETE /api/posts/{id}. Revision entries are removed
// with the post by foreign-key cascade.
func (a *API) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	deleted, err := a.posts.Delete(id)
	if err != nil {
		slog.Error("delete post failed", "error", err, "post_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	a.invalidateLists(r)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// parsePostID reads the {id} URL parameter. An unparseable id can never
// reference a post, so it answers 404 like any other missing post.
func parsePostID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return uuid.Nil, false
	}
	return id, true
}

// fetchPost resolves the {id} URL parameter to a stored post, writing the
// 404 or 500 response on failure.
func (a *API) fetchPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, ok := parsePostID(w, r)
	if !ok {
		return nil, false
	}

	post, err := a.posts.FindByID(id)
	if err != nil {
		slog.Error("find post failed", "error", err, "post_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch post")
		return nil, false
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return nil, false
	}
	return post, true
}

// normalizePatch drops supplied-but-empty string fields. An empty title,
// content, or category is treated as "not supplied", never as a request
// to blank the field. An empty tag list is a real value.
func normalizePatch(p *revision.Patch) {
	if p.Title != nil && *p.Title == "" {
		p.Title = nil
	}
	if p.Content != nil && *p.Content == "" {
		p.Content = nil
	}
	if p.Category != nil && *p.Category == "" {
		p.Category = nil
	}
}

// invalidateLists drops the cached list responses after a mutation.
func (a *API) invalidateLists(r *http.Request) {
	if a.lists != nil {
		a.lists.Invalidate(r.Context())
	}
}
