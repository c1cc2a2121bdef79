// Package media provides upload processing utilities
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// UploadProcessor turns data-URL uploads from the builder into durable files
// served under a public URL prefix.
type UploadProcessor struct {
	basePath     string // on-disk media root
	publicPrefix string // URL prefix the files are served under
	maxBytes     int    // decoded size cap
}

// NewUploadProcessor creates a new UploadProcessor instance
func NewUploadProcessor(basePath, publicPrefix string, maxBytes int) *UploadProcessor {
	return &UploadProcessor{
		basePath:     basePath,
		publicPrefix: publicPrefix,
		maxBytes:     maxBytes,
	}
}

var dataURLPattern = regexp.MustCompile(`^data:([a-z]+/[a-z0-9.+-]+);base64,`)

// extension maps accepted MIME types to the stored file extension. Only
// image, gif and video uploads are accepted.
func extension(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "video/mp4":
		return "mp4"
	case "video/webm":
		return "webm"
	}
	return ""
}

// ProcessDataURL validates and persists a data-URL upload, returning the
// public URL of the stored file. Static images are re-encoded to WebP;
// gifs and videos are stored as-is to keep animation and codecs intact.
func (p *UploadProcessor) ProcessDataURL(data, filename, subdir string) (string, error) {
	if data == "" {
		return "", fmt.Errorf("empty upload data")
	}

	// strip any path the client sent with the name
	filename = filepath.Base(filename)

	match := dataURLPattern.FindStringSubmatch(data)
	if match == nil {
		return "", fmt.Errorf("not a base64 data URL")
	}
	mimeType := match[1]

	ext := extension(mimeType)
	if ext == "" {
		return "", fmt.Errorf("unsupported upload type %s", mimeType)
	}

	decoded, err := base64.StdEncoding.DecodeString(data[len(match[0]):])
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}
	if len(decoded) > p.maxBytes {
		return "", fmt.Errorf("upload exceeds %d byte limit", p.maxBytes)
	}

	targetDir := filepath.Join(p.basePath, subdir)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	if strings.HasPrefix(mimeType, "image/") && mimeType != "image/gif" {
		return p.saveAsWebP(decoded, filename, subdir, targetDir)
	}
	return p.saveRaw(decoded, fmt.Sprintf("%s.%s", filename, ext), subdir, targetDir)
}

func (p *UploadProcessor) saveAsWebP(decoded []byte, filename, subdir, targetDir string) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(decoded))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	fullFilename := fmt.Sprintf("%s.webp", filename)
	fullPath := filepath.Join(targetDir, fullFilename)
	if err := webp.Save(fullPath, img, &webp.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to save webp: %w", err)
	}

	return p.publicURL(subdir, fullFilename), nil
}

func (p *UploadProcessor) saveRaw(decoded []byte, fullFilename, subdir, targetDir string) (string, error) {
	fullPath := filepath.Join(targetDir, fullFilename)
	if err := os.WriteFile(fullPath, decoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return p.publicURL(subdir, fullFilename), nil
}

func (p *UploadProcessor) publicURL(subdir, filename string) string {
	relativePath := filepath.Join(p.publicPrefix, subdir, filename)
	return strings.ReplaceAll(relativePath, "\\", "/")
}
