// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API handlers for the inkwell blog
// backend: post CRUD with revision history, category and tag aggregation,
// search, image uploads, and admin authentication.
package handlers

import (
	"encoding/json"
	"net/http"

	"inkwell/internal/cache"
	"inkwell/internal/session"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

// API groups the HTTP handlers and their dependencies.
type API struct {
	posts      *store.PostStore
	revisions  *store.RevisionStore
	categories *store.CategoryStore
	settings   *store.SettingStore
	sessions   *session.Store
	lists      *cache.ListCache
	storage    *storage.Client

	// adminHash is the bcrypt hash of the admin password.
	adminHash []byte
}

// New creates the API handler group with its dependencies. storageClient
// may be nil (uploads disabled); lists may be nil (caching disabled).
func New(
	posts *store.PostStore,
	revisions *store.RevisionStore,
	categories *store.CategoryStore,
	settings *store.SettingStore,
	sessions *session.Store,
	lists *cache.ListCache,
	storageClient *storage.Client,
	adminHash []byte,
) *API {
	return &API{
		posts:      posts,
		revisions:  revisions,
		categories: categories,
		settings:   settings,
		sessions:   sessions,
		lists:      lists,
		storage:    storageClient,
		adminHash:  adminHash,
	}
}

// writeJSON encodes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeRaw writes an already-serialized JSON body.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeError writes the structured error body the API uses for every
// failure: {"error": "..."}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON decodes the request body into v. Returns false after writing
// a 400 response if the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
