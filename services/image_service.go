package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// photoFileName: "20250102153000-passport_scan.jpg"
func (s *LedgerService) photoFileName(original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	if base == "." || base == "/" || base == "" {
		base = "photo.jpg"
	}
	base = unsafeFileChars.ReplaceAllString(base, "_")
	return fmt.Sprintf("%s-%s", s.now().Format("20060102150405"), base)
}

// UploadPhoto stores a guest ID photo and returns its public URL.
func (s *LedgerService) UploadPhoto(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", invalid("photo", "no file data")
	}
	if s.photos == nil {
		return "", ErrNoPhotoStore
	}
	name := s.photoFileName(filename)
	url, err := s.photos.Store(ctx, data, name)
	if err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	s.logger.Info("photo stored", zap.String("name", name), zap.String("url", url))
	return url, nil
}

// TryUploadPhoto is UploadPhoto for optional photos: a failure is logged and
// yields "" so the surrounding check-in or booking still goes through.
func (s *LedgerService) TryUploadPhoto(ctx context.Context, data []byte, filename string) string {
	if len(data) == 0 {
		return ""
	}
	url, err := s.UploadPhoto(ctx, data, filename)
	if err != nil {
		s.logger.Warn("photo upload failed, continuing without photo", zap.Error(err))
		return ""
	}
	return url
}
