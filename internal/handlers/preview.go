package handlers

import (
	"log/slog"
	"net/http"

	"inkwell/internal/markdown"
)

// previewRequest is the body of POST /api/preview.
type previewRequest struct {
	Content string `json:"content"`
}

// Preview renders markdown to HTML for the editor, without persisting
// anything.
func (a *API) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	html, err := markdown.ToHTML(req.Content)
	if err != nil {
		slog.Error("markdown render failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render markdown")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}
