package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// multipartBody builds a multipart form with a single file field.
func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write(content)
	w.Close()
	return &buf, w.FormDataContentType()
}

// jpegBytes encodes a blank JPEG of the given dimensions.
func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestMediaUploadValidation(t *testing.T) {
	api := newBareAPI()

	t.Run("missing file field", func(t *testing.T) {
		body, contentType := multipartBody(t, "other", "x.jpg", jpegBytes(t, 10, 10))
		req := httptest.NewRequest("POST", "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		api.MediaUpload(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
		if msg := errorMessage(t, rr); msg != "没有上传文件" {
			t.Errorf("message: got %q", msg)
		}
	})

	t.Run("disallowed file type", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", "x.bmp", []byte("plain text, not an image"))
		req := httptest.NewRequest("POST", "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		api.MediaUpload(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
		if msg := errorMessage(t, rr); !strings.Contains(msg, "不支持的文件类型") {
			t.Errorf("message: got %q", msg)
		}
	})

	t.Run("type is sniffed, not taken from the filename", func(t *testing.T) {
		// A text payload named .png must still be rejected.
		body, contentType := multipartBody(t, "file", "x.png", []byte("definitely not a png"))
		req := httptest.NewRequest("POST", "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		api.MediaUpload(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})

	t.Run("oversize upload", func(t *testing.T) {
		big := make([]byte, maxUploadSize+2048)
		copy(big, []byte("\xff\xd8\xff\xe0"))
		body, contentType := multipartBody(t, "file", "big.jpg", big)
		req := httptest.NewRequest("POST", "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		api.MediaUpload(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
		if msg := errorMessage(t, rr); !strings.Contains(msg, "文件太大") {
			t.Errorf("message: got %q", msg)
		}
	})

	t.Run("valid image fails only at the storage step", func(t *testing.T) {
		// Validation runs before storage is touched: with no storage
		// configured, a valid image passes every check and stops at 503.
		body, contentType := multipartBody(t, "file", "ok.jpg", jpegBytes(t, 10, 10))
		req := httptest.NewRequest("POST", "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		api.MediaUpload(rr, req)

		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("status: got %d, want 503", rr.Code)
		}
	})
}

func TestMediaDeleteRequiresFileName(t *testing.T) {
	api := newBareAPI()

	req := httptest.NewRequest("DELETE", "/api/upload", nil)
	rr := httptest.NewRecorder()

	api.MediaDelete(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	if msg := errorMessage(t, rr); msg != "缺少文件名参数" {
		t.Errorf("message: got %q", msg)
	}
}

func TestMediaListWithoutStorage(t *testing.T) {
	api := newBareAPI()

	req := httptest.NewRequest("GET", "/api/upload", nil)
	rr := httptest.NewRecorder()

	api.MediaList(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rr.Code)
	}
}

func TestGenerateThumbnail(t *testing.T) {
	t.Run("wide image is scaled to max width", func(t *testing.T) {
		src := jpegBytes(t, thumbMaxWidth*2, 100)
		data, err := generateThumbnail(bytes.NewReader(src), thumbMaxWidth)
		if err != nil {
			t.Fatalf("generateThumbnail: %v", err)
		}
		if data == nil {
			t.Fatal("expected thumbnail data")
		}

		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode thumbnail: %v", err)
		}
		if cfg.Width != thumbMaxWidth {
			t.Errorf("width: got %d, want %d", cfg.Width, thumbMaxWidth)
		}
		if cfg.Height != 50 {
			t.Errorf("height: got %d, want 50", cfg.Height)
		}
	})

	t.Run("small image is skipped", func(t *testing.T) {
		src := jpegBytes(t, 100, 100)
		data, err := generateThumbnail(bytes.NewReader(src), thumbMaxWidth)
		if err != nil {
			t.Fatalf("generateThumbnail: %v", err)
		}
		if data != nil {
			t.Error("expected nil for image already under max width")
		}
	})

	t.Run("garbage input errors", func(t *testing.T) {
		_, err := generateThumbnail(bytes.NewReader([]byte("not an image")), thumbMaxWidth)
		if err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestRandomString(t *testing.T) {
	s := randomString(6)
	if len(s) != 6 {
		t.Fatalf("length: got %d, want 6", len(s))
	}
	for _, c := range s {
		if !strings.ContainsRune(randomAlphabet, c) {
			t.Errorf("unexpected character %q", c)
		}
	}
}

func TestExtensionFromType(t *testing.T) {
	cases := map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
		"text/plain": "",
	}
	for contentType, want := range cases {
		if got := extensionFromType(contentType); got != want {
			t.Errorf("%s: got %q, want %q", contentType, got, want)
		}
	}
}
