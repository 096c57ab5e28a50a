// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// maxUploadSize is the maximum allowed image upload size (5 MB).
	maxUploadSize = 5 << 20

	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	maxImagePixels = 100_000_000

	// listMaxImages bounds the image listing response.
	listMaxImages = 100
)

// allowedImageTypes defines MIME types accepted for upload.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// thumbableTypes are image types that support thumbnail generation.
// GIF is excluded to preserve animation.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// MediaUpload handles POST /api/upload: multipart image upload to the
// public bucket. File presence, type, and size are validated before the
// storage client is touched, so invalid uploads never reach the bucket.
func (a *API) MediaUpload(w http.ResponseWriter, r *http.Request) {
	// Limit request body to maxUploadSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "文件太大，请上传小于5MB的图片")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "没有上传文件")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusBadRequest, "文件太大，请上传小于5MB的图片")
		return
	}

	// Detect content type by sniffing the first 512 bytes rather than
	// trusting the client-declared type.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	if !allowedImageTypes[contentType] {
		writeError(w, http.StatusBadRequest, "不支持的文件类型。请上传 JPEG、PNG、GIF 或 WebP 格式的图片")
		return
	}

	if a.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	// Seek back to start after sniffing.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to process file")
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	// Generated object key: {unix_timestamp}_{random_6_char}.{ext}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	base := fmt.Sprintf("%d_%s", time.Now().Unix(), randomString(6))
	key := base + ext

	ctx := r.Context()
	if err := a.storage.Upload(ctx, key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "上传失败")
		return
	}

	// Generate and upload a thumbnail for supported image types.
	// Thumbnails are auxiliary: failures are logged, never surfaced.
	var thumbURL string
	if thumbableTypes[contentType] {
		thumbData, err := generateThumbnail(bytes.NewReader(fileBytes), thumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "key", key)
		} else if thumbData != nil {
			thumbKey := base + "_thumb.jpg"
			if err := a.storage.Upload(ctx, thumbKey, "image/jpeg", bytes.NewReader(thumbData), int64(len(thumbData))); err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", thumbKey)
			} else {
				thumbURL = a.storage.FileURL(thumbKey)
			}
		}
	}

	resp := map[string]any{
		"success":  true,
		"url":      a.storage.FileURL(key),
		"fileName": key,
		"size":     len(fileBytes),
		"type":     contentType,
	}
	if thumbURL != "" {
		resp["thumbUrl"] = thumbURL
	}
	writeJSON(w, http.StatusOK, resp)
}

// MediaList handles GET /api/upload: listing uploaded images with their
// public URLs, newest first.
func (a *API) MediaList(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	objects, err := a.storage.List(r.Context(), listMaxImages)
	if err != nil {
		slog.Error("s3 list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "获取图片列表失败")
		return
	}

	type imageView struct {
		Name      string    `json:"name"`
		URL       string    `json:"url"`
		Size      int64     `json:"size"`
		CreatedAt time.Time `json:"created_at"`
	}
	images := make([]imageView, 0, len(objects))
	for _, obj := range objects {
		// Thumbnails are derived files, not library entries.
		if strings.Contains(obj.Key, "_thumb.") {
			continue
		}
		images = append(images, imageView{
			Name:      obj.Key,
			URL:       a.storage.FileURL(obj.Key),
			Size:      obj.Size,
			CreatedAt: obj.LastModified,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"images":  images,
	})
}

// MediaDelete handles DELETE /api/upload?fileName=...: removing an image
// and its thumbnail from the bucket.
func (a *API) MediaDelete(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		writeError(w, http.StatusBadRequest, "缺少文件名参数")
		return
	}

	if a.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	ctx := r.Context()
	if err := a.storage.Delete(ctx, fileName); err != nil {
		slog.Error("s3 delete failed", "error", err, "key", fileName)
		writeError(w, http.StatusInternalServerError, "删除失败")
		return
	}

	// Best-effort cleanup of the derived thumbnail.
	thumbKey := strings.TrimSuffix(fileName, filepath.Ext(fileName)) + "_thumb.jpg"
	if err := a.storage.Delete(ctx, thumbKey); err != nil {
		slog.Debug("thumbnail delete failed", "error", err, "key", thumbKey)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "图片删除成功",
	})
}

// generateThumbnail creates a JPEG thumbnail from an image, constrained
// to maxWidth while preserving aspect ratio. Returns nil if the image is
// already smaller than maxWidth.
func generateThumbnail(src io.Reader, maxWidth int) ([]byte, error) {
	// Decode config first to check dimensions without full decode.
	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Check for image bombs.
	if int64(imgCfg.Width)*int64(imgCfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", imgCfg.Width, imgCfg.Height, maxImagePixels)
	}

	// Skip thumbnail if image is already small enough.
	if imgCfg.Width <= maxWidth {
		return nil, nil
	}

	// Seek back to start for full decode.
	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
	} else {
		return nil, fmt.Errorf("source does not support seeking")
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	// Calculate thumbnail dimensions preserving aspect ratio.
	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newWidth := maxWidth
	newHeight := int(float64(bounds.Dy()) * ratio)

	// Resize using CatmullRom (high quality).
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

// extensionFromType returns a file extension for the allowed MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

// randomString returns a random lowercase alphanumeric string of length n.
const randomAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomString(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	for i := range b {
		b[i] = randomAlphabet[int(b[i])%len(randomAlphabet)]
	}
	return string(b)
}
