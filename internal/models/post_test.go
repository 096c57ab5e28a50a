package models

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestPostJSONShape verifies the public API field names. Clients depend on
// the camelCase contract, so a renamed struct tag is a breaking change.
func TestPostJSONShape(t *testing.T) {
	data, err := json.Marshal(&Post{Tags: []string{}, Updates: []PostUpdate{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	for _, field := range []string{
		`"id"`, `"title"`, `"summary"`, `"content"`, `"category"`,
		`"tags"`, `"createdAt"`, `"updatedAt"`, `"updates"`,
	} {
		if !strings.Contains(s, field) {
			t.Errorf("missing field %s in %s", field, s)
		}
	}

	if strings.Contains(s, `"html"`) {
		t.Error("html must be omitted when empty")
	}
	if strings.Contains(s, "created_at") {
		t.Error("snake_case leaked into the API shape")
	}
}

func TestPostUpdateJSONShape(t *testing.T) {
	data, err := json.Marshal(&PostUpdate{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	for _, field := range []string{`"id"`, `"postId"`, `"content"`, `"description"`, `"timestamp"`} {
		if !strings.Contains(s, field) {
			t.Errorf("missing field %s in %s", field, s)
		}
	}
}

func TestCategoryJSONShape(t *testing.T) {
	data, err := json.Marshal(&Category{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	if !strings.Contains(s, `"count"`) {
		t.Errorf("missing count field in %s", s)
	}
	if strings.Contains(s, "createdAt") || strings.Contains(s, "created_at") {
		t.Errorf("creation time must not be exposed: %s", s)
	}
}
