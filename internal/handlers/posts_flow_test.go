package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func createTestPost(t *testing.T, env *testEnv, title string) *models.Post {
	t.Helper()

	body := `{"title":"` + title + `","summary":"s","content":"c1","category":"AI","tags":["go"]}`
	req := httptest.NewRequest("POST", "/api/posts", strings.NewReader(body))
	rr := httptest.NewRecorder()

	env.API.PostCreate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("create status: got %d, want 201: %s", rr.Code, rr.Body.String())
	}
	var post models.Post
	if err := json.NewDecoder(rr.Body).Decode(&post); err != nil {
		t.Fatalf("decode created post: %v", err)
	}
	return &post
}

func putPatch(t *testing.T, env *testEnv, id uuid.UUID, body string) (*httptest.ResponseRecorder, *models.Post) {
	t.Helper()

	req := httptest.NewRequest("PUT", "/api/posts/"+id.String(), strings.NewReader(body))
	req = withChiURLParam(req, "id", id.String())
	rr := httptest.NewRecorder()

	env.API.PostUpdate(rr, req)

	if rr.Code != http.StatusOK {
		return rr, nil
	}
	var post models.Post
	if err := json.NewDecoder(rr.Body).Decode(&post); err != nil {
		t.Fatalf("decode updated post: %v", err)
	}
	return rr, &post
}

func TestPostLifecycle(t *testing.T) {
	env := newTestEnv(t)

	title := "test-lifecycle-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, env.DB, title) })

	created := createTestPost(t, env, title)
	if len(created.Updates) != 0 {
		t.Errorf("new post updates: got %d, want 0", len(created.Updates))
	}

	t.Run("get includes rendered html and empty history", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/posts/"+created.ID.String(), nil)
		req = withChiURLParam(req, "id", created.ID.String())
		rr := httptest.NewRecorder()

		env.API.PostGet(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		var post models.Post
		if err := json.NewDecoder(rr.Body).Decode(&post); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if post.Updates == nil || len(post.Updates) != 0 {
			t.Errorf("updates: got %v, want empty slice", post.Updates)
		}
		if post.HTML == "" {
			t.Error("expected rendered html")
		}
	})

	t.Run("content update appends a derived revision", func(t *testing.T) {
		rr, post := putPatch(t, env, created.ID, `{"content":"c2"}`)
		if post == nil {
			t.Fatalf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
		}
		if post.Content != "c2" {
			t.Errorf("content: got %q, want c2", post.Content)
		}
		if post.Title != title {
			t.Error("title must survive a content-only patch")
		}
		if len(post.Updates) != 1 {
			t.Fatalf("updates: got %d, want 1", len(post.Updates))
		}
		entry := post.Updates[0]
		if entry.Content != "c2" {
			t.Errorf("revision content: got %q, want the post-update content", entry.Content)
		}
		if !strings.Contains(entry.Description, "内容") {
			t.Errorf("description: got %q, want mention of 内容", entry.Description)
		}
	})

	t.Run("no-op save still appends, with the fallback description", func(t *testing.T) {
		_, post := putPatch(t, env, created.ID, `{"content":"c2"}`)
		if post == nil {
			t.Fatal("expected 200")
		}
		if len(post.Updates) != 2 {
			t.Fatalf("updates: got %d, want 2", len(post.Updates))
		}
		// Newest first.
		if post.Updates[0].Description != "文章更新: 微调整" {
			t.Errorf("description: got %q, want fallback", post.Updates[0].Description)
		}
	})

	t.Run("multi-field update lists labels in fixed order", func(t *testing.T) {
		_, post := putPatch(t, env, created.ID,
			`{"title":"`+title+`-renamed","tags":["go","web"]}`)
		if post == nil {
			t.Fatal("expected 200")
		}
		desc := post.Updates[0].Description
		if desc != "文章更新: 标题、标签" {
			t.Errorf("description: got %q", desc)
		}
		t.Cleanup(func() { cleanPosts(t, env.DB, title+"-renamed") })
	})

	t.Run("delete removes post and history", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/posts/"+created.ID.String(), nil)
		req = withChiURLParam(req, "id", created.ID.String())
		rr := httptest.NewRecorder()

		env.API.PostDelete(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}

		var count int
		env.DB.QueryRow("SELECT COUNT(*) FROM post_updates WHERE post_id = $1", created.ID).Scan(&count)
		if count != 0 {
			t.Errorf("orphaned revision entries: %d", count)
		}

		// Gone now.
		req = httptest.NewRequest("GET", "/api/posts/"+created.ID.String(), nil)
		req = withChiURLParam(req, "id", created.ID.String())
		rr = httptest.NewRecorder()
		env.API.PostGet(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Errorf("status after delete: got %d, want 404", rr.Code)
		}
	})
}

func TestPostUpdateUnknownID(t *testing.T) {
	env := newTestEnv(t)

	rr, _ := putPatch(t, env, uuid.New(), `{"content":"x"}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestUpdateAdd(t *testing.T) {
	env := newTestEnv(t)

	title := "test-manual-rev-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, env.DB, title) })
	created := createTestPost(t, env, title)

	t.Run("missing fields rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/posts/"+created.ID.String()+"/updates",
			strings.NewReader(`{"content":"c"}`))
		req = withChiURLParam(req, "id", created.ID.String())
		rr := httptest.NewRecorder()

		env.API.UpdateAdd(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
		if msg := errorMessage(t, rr); msg != "Missing required fields: content, description" {
			t.Errorf("message: got %q", msg)
		}
	})

	t.Run("valid entry is appended verbatim", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/posts/"+created.ID.String()+"/updates",
			strings.NewReader(`{"content":"manual content","description":"手动记录"}`))
		req = withChiURLParam(req, "id", created.ID.String())
		rr := httptest.NewRecorder()

		env.API.UpdateAdd(rr, req)

		if rr.Code != http.StatusCreated {
			t.Fatalf("status: got %d, want 201: %s", rr.Code, rr.Body.String())
		}
		var post models.Post
		if err := json.NewDecoder(rr.Body).Decode(&post); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(post.Updates) != 1 {
			t.Fatalf("updates: got %d, want 1", len(post.Updates))
		}
		if post.Updates[0].Description != "手动记录" {
			t.Errorf("description: got %q, want the caller-supplied text", post.Updates[0].Description)
		}
	})
}

func TestPostsListAndSearch(t *testing.T) {
	env := newTestEnv(t)

	marker := uuid.NewString()[:8]
	title := "test-list-" + marker
	t.Cleanup(func() { cleanPosts(t, env.DB, title) })
	createTestPost(t, env, title)

	listTitles := func(url string) []string {
		t.Helper()
		req := httptest.NewRequest("GET", url, nil)
		rr := httptest.NewRecorder()
		env.API.PostsList(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		var posts []models.Post
		if err := json.NewDecoder(rr.Body).Decode(&posts); err != nil {
			t.Fatalf("decode: %v", err)
		}
		titles := make([]string, len(posts))
		for i, p := range posts {
			titles[i] = p.Title
		}
		return titles
	}

	contains := func(titles []string, want string) bool {
		for _, s := range titles {
			if s == want {
				return true
			}
		}
		return false
	}

	if !contains(listTitles("/api/posts"), title) {
		t.Error("unfiltered list missing test post")
	}
	if !contains(listTitles("/api/posts?q="+marker), title) {
		t.Error("search missing test post")
	}
	if !contains(listTitles("/api/posts?category=AI"), title) {
		t.Error("category filter missing test post")
	}
	if contains(listTitles("/api/posts?category=Java"), title) {
		t.Error("category filter leaked a post from another category")
	}
}
